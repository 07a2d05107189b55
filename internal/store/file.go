// internal/store/file.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in <dir>/<collection>.json, the layout earlier
// deployments of the bot wrote.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	if dir == "" {
		dir = "."
	}
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Path(collection Collection) string {
	return filepath.Join(b.dir, string(collection)+".json")
}

func (b *FileBackend) Read(_ context.Context, collection Collection) (Records, error) {
	data, err := os.ReadFile(b.Path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Records{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Records{}, nil
	}

	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, collection, err)
	}
	return records, nil
}

// Write replaces the file atomically via a temp file in the same directory.
func (b *FileBackend) Write(_ context.Context, collection Collection, records Records) error {
	data, err := marshalIndented(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, "."+string(collection)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, b.Path(collection))
}

// marshalIndented writes two-space indented JSON; map keys come out sorted.
func marshalIndented(records Records) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}
