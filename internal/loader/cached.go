package loader

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Cached memoizes successful loads of another loader in a bounded LRU cache
// keyed by source kind and location. It is safe for concurrent use.
type Cached struct {
	next  schema.Loader
	cache *lru.Cache[string, schema.Document]
}

var _ schema.Loader = (*Cached)(nil)

// NewCached wraps next with an LRU cache holding up to size documents.
func NewCached(next schema.Loader, size int) (*Cached, error) {
	if next == nil {
		return nil, fmt.Errorf("loader: cached loader requires a delegate")
	}
	cache, err := lru.New[string, schema.Document](size)
	if err != nil {
		return nil, fmt.Errorf("loader: create cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Load returns the cached document for src or delegates and stores the result.
// Failed loads are not cached.
func (c *Cached) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return c.next.Load(ctx, src)
	}
	key := string(src.Kind()) + ":" + src.Location()
	if doc, ok := c.cache.Get(key); ok {
		return doc, nil
	}
	doc, err := c.next.Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	c.cache.Add(key, doc)
	return doc, nil
}

// Len returns the number of cached documents.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached document.
func (c *Cached) Purge() {
	c.cache.Purge()
}
