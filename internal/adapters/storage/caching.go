package storage

import (
	"context"
	"errors"
	"io"
	"maps"
	"sync"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
)

type indexEntry struct {
	meta           *domain.ContextMetadata
	discriminators domain.Discriminators
}

// CachingStore decorates a StorageService with an in-memory index of context
// metadata and discriminators. The index is built by one scan on first use
// and refreshed on every write of a reserved key, copy and delete.
type CachingStore struct {
	inner ports.StorageService

	mu     sync.RWMutex
	loaded bool
	index  map[string]indexEntry
}

// NewCachingStore wraps inner.
func NewCachingStore(inner ports.StorageService) *CachingStore {
	return &CachingStore{
		inner: inner,
		index: make(map[string]indexEntry),
	}
}

// ContextIDs lists every context directory of the underlying store.
func (c *CachingStore) ContextIDs() ([]string, error) {
	return c.inner.ContextIDs()
}

// ContainsContext reports whether id is indexed as complete.
func (c *CachingStore) ContainsContext(id string) bool {
	e, ok, err := c.entry(id)
	return err == nil && ok && e.meta != nil
}

// ContainsKey reports whether the final artifact of key exists.
func (c *CachingStore) ContainsKey(id, key string) bool {
	return c.inner.ContainsKey(id, key)
}

// GetContext returns indexed metadata.
func (c *CachingStore) GetContext(id string) (*domain.ContextMetadata, error) {
	e, ok, err := c.entry(id)
	if err != nil {
		return nil, err
	}
	if !ok || e.meta == nil {
		return nil, domain.Tag(domain.ErrContextNotFound, "id", id)
	}
	return e.meta.Clone(), nil
}

// GetContexts filters the index by type and strict constraint match.
func (c *CachingStore) GetContexts(taskType string, constraints []domain.Constraint) ([]*domain.ContextMetadata, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	var out []*domain.ContextMetadata
	for _, e := range c.index {
		if e.meta == nil || e.meta.Type != taskType {
			continue
		}
		if len(constraints) > 0 && !e.discriminators.Match(constraints, true) {
			continue
		}
		out = append(out, e.meta.Clone())
	}
	c.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// GetLatestContext returns the first result of GetContexts.
func (c *CachingStore) GetLatestContext(taskType string, constraints []domain.Constraint) (*domain.ContextMetadata, error) {
	return latest(c, taskType, constraints)
}

// Discriminators returns indexed discriminators, falling back to the underlying store.
func (c *CachingStore) Discriminators(id string) (domain.Discriminators, error) {
	e, ok, err := c.entry(id)
	if err != nil {
		return nil, err
	}
	if ok && e.discriminators != nil {
		return maps.Clone(e.discriminators), nil
	}
	return c.inner.Discriminators(id)
}

// RetrieveBinary reads through to the underlying store.
func (c *CachingStore) RetrieveBinary(ctx context.Context, id, key string) (io.ReadCloser, error) {
	return c.inner.RetrieveBinary(ctx, id, key)
}

// StoreBinary writes through and refreshes id when a reserved key changes.
func (c *CachingStore) StoreBinary(ctx context.Context, id, key string, r io.Reader) error {
	if err := c.inner.StoreBinary(ctx, id, key, r); err != nil {
		return err
	}
	if domain.IsReservedKey(key) {
		return c.refresh(id)
	}
	return nil
}

// Copy copies through and refreshes the target.
func (c *CachingStore) Copy(ctx context.Context, targetID, targetKey string, source domain.StorageKey, mode domain.AccessMode) error {
	if err := c.inner.Copy(ctx, targetID, targetKey, source, mode); err != nil {
		return err
	}
	return c.refresh(targetID)
}

// Locate returns the location from the underlying store.
func (c *CachingStore) Locate(id, key string) (string, error) {
	return c.inner.Locate(id, key)
}

// DeleteKey deletes through and refreshes id.
func (c *CachingStore) DeleteKey(id, key string) error {
	if err := c.inner.DeleteKey(id, key); err != nil {
		return err
	}
	return c.refresh(id)
}

// DeleteContext deletes through and drops id from the index.
func (c *CachingStore) DeleteContext(id string) error {
	if err := c.inner.DeleteContext(id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.index, id)
	c.mu.Unlock()
	return nil
}

func (c *CachingStore) entry(id string) (indexEntry, bool, error) {
	if err := c.ensureLoaded(); err != nil {
		return indexEntry{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.index[id]
	return e, ok, nil
}

func (c *CachingStore) ensureLoaded() error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	ids, err := c.inner.ContextIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		e, err := c.read(id)
		if err != nil {
			return err
		}
		c.index[id] = e
	}
	c.loaded = true
	return nil
}

func (c *CachingStore) refresh(id string) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		return nil
	}

	e, err := c.read(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.index[id] = e
	c.mu.Unlock()
	return nil
}

func (c *CachingStore) read(id string) (indexEntry, error) {
	var e indexEntry
	d, err := c.inner.Discriminators(id)
	switch {
	case err == nil:
		e.discriminators = d
	case !errors.Is(err, domain.ErrKeyNotFound):
		return e, err
	}
	if c.inner.ContainsContext(id) {
		meta, err := c.inner.GetContext(id)
		if err != nil {
			return e, err
		}
		e.meta = meta
	}
	return e, nil
}
