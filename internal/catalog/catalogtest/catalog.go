// Package catalogtest provides an in-memory catalog for handler tests.
package catalogtest

import (
	"context"
	"sync"

	"plan-access-bot/internal/catalog"
)

// Catalog serves files from memory. ListErr and FetchErr force failures.
type Catalog struct {
	mu      sync.Mutex
	folders map[string][]string
	data    map[string][]byte

	ListErr  error
	FetchErr error
	Fetches  int
}

func New() *Catalog {
	return &Catalog{folders: map[string][]string{}, data: map[string][]byte{}}
}

// Put adds a file to folder, keeping insertion order.
func (c *Catalog) Put(folder, name string, data []byte) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.folders[folder] = append(c.folders[folder], name)
	c.data[folder+"/"+name] = data
	return c
}

func (c *Catalog) List(_ context.Context, folder string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return append([]string(nil), c.folders[folder]...), nil
}

func (c *Catalog) Fetch(_ context.Context, folder, name string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fetches++
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	data, ok := c.data[folder+"/"+name]
	if !ok {
		return nil, catalog.ErrFileNotFound
	}
	return data, nil
}
