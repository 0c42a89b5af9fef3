package taskctx

import (
	"cmp"
	"context"
	"io"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Context implements ports.TaskContext on top of a StorageService.
// Keys below an import name address the imported object.
type Context struct {
	factory *Factory
	task    *domain.Task
	meta    *domain.ContextMetadata

	mu           sync.Mutex
	state        domain.State
	materialized map[string]bool
}

func newContext(f *Factory, task *domain.Task, meta *domain.ContextMetadata) *Context {
	return &Context{
		factory:      f,
		task:         task,
		meta:         meta,
		state:        domain.StateCreated,
		materialized: make(map[string]bool),
	}
}

// ID returns the context id.
func (c *Context) ID() string { return c.meta.ID }

// Metadata returns the mutable metadata of the execution.
func (c *Context) Metadata() *domain.ContextMetadata { return c.meta }

// Task returns the task being executed.
func (c *Context) Task() *domain.Task { return c.task }

// Factory returns the factory that created the context.
func (c *Context) Factory() ports.ContextFactory { return c.factory }

// Storage returns the storage backing the context.
func (c *Context) Storage() ports.StorageService { return c.factory.store }

// State returns the current life-cycle state.
func (c *Context) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState records a life-cycle state.
func (c *Context) SetState(state domain.State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// ResolvedDiscriminators merges the discriminators of the task with the
// persisted discriminators of every storage import.
func (c *Context) ResolvedDiscriminators() (domain.Discriminators, error) {
	own := domain.Source{Type: c.meta.Type, ContextID: c.meta.ID, Values: c.task.Discriminators()}

	var imported []domain.Source
	seen := make(map[string]struct{})
	for _, name := range c.importNames() {
		u, ok := c.binding(name)
		if !ok || u.Kind != domain.ImportByID {
			continue
		}
		if _, dup := seen[u.Target]; dup {
			continue
		}
		seen[u.Target] = struct{}{}

		store := c.factory.store
		meta, err := store.GetContext(u.Target)
		if err != nil {
			return nil, zerr.With(err, "import", name)
		}
		values, err := store.Discriminators(u.Target)
		if err != nil {
			return nil, zerr.With(err, "import", name)
		}
		imported = append(imported, domain.Source{Type: meta.Type, ContextID: u.Target, Values: values})
	}

	return domain.ResolveDiscriminators(own, imported...)
}

// Retrieve opens key. Imported keys are read from their source until they
// are materialized locally.
func (c *Context) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	store := c.factory.store
	if store.ContainsKey(c.meta.ID, key) {
		return store.RetrieveBinary(ctx, c.meta.ID, key)
	}

	name, rest, u, ok := c.lookup(key)
	if !ok {
		return store.RetrieveBinary(ctx, c.meta.ID, key)
	}
	if u.Kind == domain.ImportExternal {
		if err := c.fetch(ctx, name, u); err != nil {
			return nil, err
		}
		return store.RetrieveBinary(ctx, c.meta.ID, key)
	}
	return store.RetrieveBinary(ctx, u.Target, joinKey(u.Key, rest))
}

// Store writes key. Writing below an imported folder materializes it first.
func (c *Context) Store(ctx context.Context, key string, r io.Reader) error {
	if domain.IsReservedKey(key) {
		return domain.Tag(domain.ErrReservedKey, "key", key)
	}

	if name, rest, u, ok := c.lookup(key); ok && rest != "" {
		if err := c.materialize(ctx, name, u, domain.ReadWrite); err != nil {
			return err
		}
	}
	return c.factory.store.StoreBinary(ctx, c.meta.ID, key, r)
}

// Locate returns the filesystem location of key. Read-only access to an
// imported key points at the source, write access materializes one local copy.
func (c *Context) Locate(ctx context.Context, key string, mode domain.AccessMode) (string, error) {
	store := c.factory.store
	name, rest, u, ok := c.lookup(key)
	if !ok {
		return store.Locate(c.meta.ID, key)
	}

	if mode == domain.ReadOnly && u.Kind != domain.ImportExternal && !c.isMaterialized(name) {
		return store.Locate(u.Target, joinKey(u.Key, rest))
	}
	if err := c.materialize(ctx, name, u, mode); err != nil {
		return "", err
	}
	return store.Locate(c.meta.ID, key)
}

func (c *Context) materialize(ctx context.Context, name string, u domain.ImportURI, mode domain.AccessMode) error {
	if c.isMaterialized(name) {
		return nil
	}
	if u.Kind == domain.ImportExternal {
		return c.fetch(ctx, name, u)
	}

	source := domain.StorageKey{ContextID: u.Target, Key: u.Key}
	if err := c.factory.store.Copy(ctx, c.meta.ID, name, source, mode); err != nil {
		return zerr.With(err, "import", name)
	}
	c.mu.Lock()
	c.materialized[name] = true
	c.mu.Unlock()
	return nil
}

func (c *Context) fetch(ctx context.Context, name string, u domain.ImportURI) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.materialized[name] || c.factory.store.ContainsKey(c.meta.ID, name) {
		c.materialized[name] = true
		return nil
	}
	if c.factory.fetcher == nil {
		return domain.Tag(domain.ErrUnsupportedScheme, "uri", u.Raw)
	}
	dst, err := c.factory.store.Locate(c.meta.ID, name)
	if err != nil {
		return err
	}
	if err := c.factory.fetcher.Fetch(ctx, u.Raw, dst); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "uri", u.Raw), "import", name)
	}
	c.materialized[name] = true
	return nil
}

func (c *Context) isMaterialized(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.materialized[name] || c.factory.store.ContainsKey(c.meta.ID, name)
}

// lookup maps key onto the import it addresses, if any.
func (c *Context) lookup(key string) (name, rest string, u domain.ImportURI, ok bool) {
	for _, n := range c.importNames() {
		if key != n && !strings.HasPrefix(key, n+"/") {
			continue
		}
		u, ok = c.binding(n)
		if !ok {
			return "", "", domain.ImportURI{}, false
		}
		return n, strings.TrimPrefix(strings.TrimPrefix(key, n), "/"), u, true
	}
	return "", "", domain.ImportURI{}, false
}

func (c *Context) binding(name string) (domain.ImportURI, bool) {
	raw, ok := c.meta.Imports[name]
	if !ok {
		return domain.ImportURI{}, false
	}
	u, err := domain.ParseImportURI(raw)
	if err != nil {
		return domain.ImportURI{}, false
	}
	return u, true
}

// importNames orders import names longest first so nested names win over their parents.
func (c *Context) importNames() []string {
	names := slices.Collect(maps.Keys(c.meta.Imports))
	slices.SortFunc(names, func(a, b string) int {
		if n := cmp.Compare(len(b), len(a)); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	return names
}

func joinKey(base, rest string) string {
	if rest == "" {
		return base
	}
	return path.Join(base, rest)
}
