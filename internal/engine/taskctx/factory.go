// Package taskctx creates execution contexts and resolves their imports.
package taskctx

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/segmentio/ksuid"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// registry is shared by a factory and every scoped view of it.
type registry struct {
	mu   sync.Mutex
	live map[string]*Context
	last ksuid.KSUID
}

// Factory implements ports.ContextFactory.
type Factory struct {
	store   ports.StorageService
	fetcher ports.Fetcher
	reg     *registry

	scope    []string
	scopeSet map[string]struct{}
	config   domain.Configuration
}

// NewFactory creates an unscoped factory. fetcher may be nil when external
// imports are not used.
func NewFactory(store ports.StorageService, fetcher ports.Fetcher) *Factory {
	return &Factory{
		store:   store,
		fetcher: fetcher,
		reg:     &registry{live: make(map[string]*Context)},
	}
}

// Storage returns the storage backing the factory.
func (f *Factory) Storage() ports.StorageService {
	return f.store
}

// Scope returns the ids visible to type lookups, or nil when unrestricted.
func (f *Factory) Scope() []string {
	if f.scope == nil {
		return nil
	}
	return slices.Clone(f.scope)
}

// Scoped returns a view of f whose by-type-latest lookups only see ids in
// scope that are loosely compatible with cfg.
func (f *Factory) Scoped(scope []string, cfg domain.Configuration) ports.ContextFactory {
	set := make(map[string]struct{}, len(scope))
	for _, id := range scope {
		set[id] = struct{}{}
	}
	return &Factory{
		store:    f.store,
		fetcher:  f.fetcher,
		reg:      f.reg,
		scope:    append([]string{}, scope...),
		scopeSet: set,
		config:   cfg.Clone(),
	}
}

// CreateContext allocates a context for task and eagerly resolves every
// by-id and by-type-latest import.
func (f *Factory) CreateContext(ctx context.Context, task *domain.Task) (ports.TaskContext, error) {
	id := f.nextID(task.Type)
	meta := &domain.ContextMetadata{
		ID:      id,
		Type:    task.Type,
		Imports: make(map[string]string, len(task.Imports)),
	}

	for _, name := range task.ImportNames() {
		uri := task.Imports[name]
		parsed, err := domain.ParseImportURI(uri)
		if err != nil {
			return nil, zerr.With(err, "import", name)
		}
		if parsed.Kind == domain.ImportExternal {
			meta.Imports[name] = uri
			continue
		}
		key, err := f.resolve(parsed)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "import", name), "type", task.Type)
		}
		meta.Imports[name] = domain.ByIDURI(key.ContextID, key.Key)
	}

	tc := newContext(f, task, meta)
	f.reg.mu.Lock()
	f.reg.live[id] = tc
	f.reg.mu.Unlock()
	return tc, nil
}

// GetContext returns a live context, or reconstructs a completed one from storage.
// It returns nil when id is unknown.
func (f *Factory) GetContext(id string) (ports.TaskContext, error) {
	f.reg.mu.Lock()
	tc, ok := f.reg.live[id]
	f.reg.mu.Unlock()
	if ok {
		return tc, nil
	}

	if !f.store.ContainsContext(id) {
		return nil, nil
	}
	meta, err := f.store.GetContext(id)
	if err != nil {
		return nil, err
	}
	restored := newContext(f, &domain.Task{Type: meta.Type}, meta)
	restored.state = domain.StateCompleted
	return restored, nil
}

// Release forgets a live context.
func (f *Factory) Release(id string) {
	f.reg.mu.Lock()
	delete(f.reg.live, id)
	f.reg.mu.Unlock()
}

// Resolve resolves a by-id or by-type-latest URI to a storage key.
func (f *Factory) Resolve(_ context.Context, uri string) (domain.StorageKey, error) {
	parsed, err := domain.ParseImportURI(uri)
	if err != nil {
		return domain.StorageKey{}, err
	}
	return f.resolve(parsed)
}

func (f *Factory) resolve(u domain.ImportURI) (domain.StorageKey, error) {
	switch u.Kind {
	case domain.ImportByID:
		if !f.store.ContainsContext(u.Target) {
			return domain.StorageKey{}, unresolved(u, "context "+u.Target+" is not completed")
		}
		if !f.store.ContainsKey(u.Target, u.Key) {
			return domain.StorageKey{}, unresolved(u, "context "+u.Target+" has no key "+u.Key)
		}
		return domain.StorageKey{ContextID: u.Target, Key: u.Key}, nil

	case domain.ImportByTypeLatest:
		candidates, err := f.store.GetContexts(u.Target, u.Constraints)
		if err != nil {
			return domain.StorageKey{}, err
		}
		for _, meta := range candidates {
			ok, err := f.visible(meta.ID)
			if err != nil {
				return domain.StorageKey{}, err
			}
			if !ok {
				continue
			}
			if !f.store.ContainsKey(meta.ID, u.Key) {
				return domain.StorageKey{}, unresolved(u, "latest context "+meta.ID+" has no key "+u.Key)
			}
			return domain.StorageKey{ContextID: meta.ID, Key: u.Key}, nil
		}
		return domain.StorageKey{}, unresolved(u, "no completed context of type "+u.Target+" in scope")

	default:
		return domain.StorageKey{}, domain.Tag(domain.ErrUnsupportedScheme, "uri", u.Raw)
	}
}

// visible reports whether id may satisfy a by-type-latest lookup of f.
func (f *Factory) visible(id string) (bool, error) {
	if f.scope == nil {
		return true, nil
	}
	if _, ok := f.scopeSet[id]; !ok {
		return false, nil
	}
	d, err := f.store.Discriminators(id)
	if err != nil {
		return false, err
	}
	return d.Match(domain.ConfigurationConstraints(f.config), false), nil
}

func (f *Factory) nextID(taskType string) string {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()

	id := ksuid.New()
	if ksuid.Compare(id, f.reg.last) <= 0 {
		id = f.reg.last.Next()
	}
	f.reg.last = id
	return taskType + "-" + id.String()
}

func unresolved(u domain.ImportURI, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrUnresolvedImport, fmt.Sprintf("%s: %s", u.Raw, reason)), "uri", u.Raw)
}
