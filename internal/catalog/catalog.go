// Package catalog lists and fetches the downloadable files of each tier folder.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
)

// ErrFileNotFound is returned by Fetch when the file does not exist in the folder.
var ErrFileNotFound = errors.New("file not found")

// Catalog is the remote file store behind the bot.
type Catalog interface {
	// List returns the file names of folder in catalog order.
	List(ctx context.Context, folder string) ([]string, error)
	Fetch(ctx context.Context, folder, name string) ([]byte, error)
}

// ListFile is the per-folder index file read by catalogs that cannot enumerate.
const ListFile = "filelist.txt"

// parseListFile reads one name per line, skipping blank lines and # comments.
func parseListFile(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// validName rejects names that could escape the folder.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\") && !strings.Contains(name, "..")
}
