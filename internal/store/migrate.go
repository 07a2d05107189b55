// internal/store/migrate.go
package store

import (
	"context"
	"errors"
	"fmt"
)

// Report summarizes one collection of a backend.
type Report struct {
	Collection Collection
	Records    int
	Corrupt    []string // keys whose value does not decode
	// Unreadable is set when the whole document could not be decoded.
	Unreadable bool
}

// ParseCollections resolves a -collection flag value; "all" or "" selects every collection.
func ParseCollections(name string) ([]Collection, error) {
	if name == "" || name == "all" {
		return Collections, nil
	}
	for _, c := range Collections {
		if string(c) == name {
			return []Collection{c}, nil
		}
	}
	return nil, fmt.Errorf("unknown collection %q", name)
}

// Copy replaces each collection in dst with the contents of src. A collection that cannot
// be read from src stops the copy before anything is written for it.
func Copy(ctx context.Context, src, dst Backend, collections []Collection) (map[Collection]int, error) {
	copied := make(map[Collection]int, len(collections))
	for _, c := range collections {
		records, err := src.Read(ctx, c)
		if err != nil {
			return copied, fmt.Errorf("read %s from %s: %w", c, src.Name(), err)
		}
		if err := dst.Write(ctx, c, records); err != nil {
			return copied, fmt.Errorf("write %s to %s: %w", c, dst.Name(), err)
		}
		copied[c] = len(records)
	}
	return copied, nil
}

// Inspect reads a collection and reports the records that would be treated as corrupt.
func Inspect(ctx context.Context, b Backend, c Collection) (Report, error) {
	report := Report{Collection: c}

	records, err := b.Read(ctx, c)
	if err == nil {
		err = validateDocument(c, records)
	}
	if errors.Is(err, ErrCorrupt) {
		report.Unreadable = true
		return report, nil
	}
	if err != nil {
		return report, err
	}

	report.Records = len(records)
	for key, raw := range records {
		var ok bool
		switch c {
		case Subscriptions:
			_, ok = DecodeSubscription(raw)
		case PendingRequests:
			_, ok = DecodePending(raw)
		default:
			ok = true
		}
		if !ok {
			report.Corrupt = append(report.Corrupt, key)
		}
	}
	return report, nil
}
