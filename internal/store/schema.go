// internal/store/schema.go
package store

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Both collections are objects keyed by user id. Record values are not constrained here:
// the typed decode marks a bad record corrupt so one bad record does not void a collection.
const collectionSchema = `{"type": "object"}`

var collectionSchemaLoader = gojsonschema.NewStringLoader(collectionSchema)

func validateDocument(collection Collection, records Records) error {
	if len(records) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(collectionSchemaLoader, gojsonschema.NewGoLoader(records))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, collection, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s: %s", ErrCorrupt, collection, strings.Join(errs, "; "))
	}
	return nil
}
