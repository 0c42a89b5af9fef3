// Package storage implements the context store on the local filesystem.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	defaultReadRetries = 5
	defaultReadBackoff = 20 * time.Millisecond
)

// FileStore implements ports.StorageService with one directory per context.
type FileStore struct {
	root        string
	readRetries uint64
	readBackoff time.Duration

	lockMu sync.Mutex
	lock   *flock.Flock
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithReadRetry sets how often and how fast a read that races an in-flight
// write is retried.
func WithReadRetry(attempts uint64, base time.Duration) Option {
	return func(s *FileStore) {
		s.readRetries = attempts
		s.readBackoff = base
	}
}

// NewFileStore creates a store rooted at root, creating the directory if needed.
func NewFileStore(root string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		root:        filepath.Clean(root),
		readRetries: defaultReadRetries,
		readBackoff: defaultReadBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "root", s.root)
	}
	return s, nil
}

// Root returns the storage root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Lock takes an exclusive advisory lock on the storage root.
func (s *FileStore) Lock() error {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if s.lock == nil {
		s.lock = flock.New(filepath.Join(s.root, domain.LockFileName))
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreLockFailed.Error()), "root", s.root)
	}
	if !ok {
		return domain.Tag(domain.ErrStoreLockFailed, "root", s.root)
	}
	return nil
}

// Unlock releases the lock taken by Lock.
func (s *FileStore) Unlock() error {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// ContextIDs lists every context directory, complete or not.
func (s *FileStore) ContextIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.Contains(e.Name(), domain.TempMarker) {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// ContainsContext reports whether the commit marker of id exists.
func (s *FileStore) ContainsContext(id string) bool {
	return s.ContainsKey(id, domain.MetadataKey)
}

// ContainsKey reports whether the final artifact of key exists.
// In-flight temporary artifacts are ignored.
func (s *FileStore) ContainsKey(id, key string) bool {
	p, err := s.path(id, key)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// GetContext returns the metadata of a completed context.
func (s *FileStore) GetContext(id string) (*domain.ContextMetadata, error) {
	var meta domain.ContextMetadata
	if err := s.readJSON(id, domain.MetadataKey, &meta); err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, domain.Tag(domain.ErrContextNotFound, "id", id)
		}
		return nil, err
	}
	return &meta, nil
}

// GetContexts returns the completed contexts of taskType whose discriminators
// strictly satisfy constraints, most recently completed first.
func (s *FileStore) GetContexts(taskType string, constraints []domain.Constraint) ([]*domain.ContextMetadata, error) {
	ids, err := s.ContextIDs()
	if err != nil {
		return nil, err
	}

	var out []*domain.ContextMetadata
	for _, id := range ids {
		if !s.ContainsContext(id) {
			continue
		}
		meta, err := s.GetContext(id)
		if err != nil {
			return nil, err
		}
		if meta.Type != taskType {
			continue
		}
		if len(constraints) > 0 {
			d, err := s.Discriminators(id)
			if err != nil {
				return nil, err
			}
			if !d.Match(constraints, true) {
				continue
			}
		}
		out = append(out, meta)
	}
	sortNewestFirst(out)
	return out, nil
}

// GetLatestContext returns the first result of GetContexts.
func (s *FileStore) GetLatestContext(taskType string, constraints []domain.Constraint) (*domain.ContextMetadata, error) {
	return latest(s, taskType, constraints)
}

// Discriminators returns the resolved discriminators recorded for id.
func (s *FileStore) Discriminators(id string) (domain.Discriminators, error) {
	d := make(domain.Discriminators)
	if err := s.readJSON(id, domain.DiscriminatorsKey, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// RetrieveBinary opens key for reading, decompressing by suffix.
// A read racing an in-flight write is retried with bounded backoff.
func (s *FileStore) RetrieveBinary(ctx context.Context, id, key string) (io.ReadCloser, error) {
	p, err := s.path(id, key)
	if err != nil {
		return nil, err
	}

	f, err := s.open(ctx, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.Tag(domain.ErrKeyNotFound, "id", id, "key", key)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}

	rc, err := codecFor(key).decoder(f)
	if err != nil {
		_ = f.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}
	return rc, nil
}

func (s *FileStore) open(ctx context.Context, p string) (*os.File, error) {
	backoff := retry.WithMaxRetries(s.readRetries, retry.NewExponential(s.readBackoff))
	return retry.DoValue(ctx, backoff, func(_ context.Context) (*os.File, error) {
		//nolint:gosec // Path is validated against the storage root
		f, err := os.Open(p)
		if err == nil {
			return f, nil
		}
		if errors.Is(err, fs.ErrNotExist) && hasTempSibling(p) {
			return nil, retry.RetryableError(err)
		}
		return nil, err
	})
}

// StoreBinary atomically writes r under key, compressing by suffix.
func (s *FileStore) StoreBinary(ctx context.Context, id, key string, r io.Reader) error {
	p, err := s.path(id, key)
	if err != nil {
		return err
	}
	err = writeAtomic(p, func(w io.Writer) error {
		enc, err := codecFor(key).encoder(w)
		if err != nil {
			return err
		}
		if _, err := io.Copy(enc, contextReader{ctx: ctx, r: r}); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "id", id), "key", key)
	}
	return nil
}

// Locate returns the filesystem path of key.
func (s *FileStore) Locate(id, key string) (string, error) {
	return s.path(id, key)
}

// DeleteKey removes key and everything below it.
func (s *FileStore) DeleteKey(id, key string) error {
	p, err := s.path(id, key)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDeleteFailed.Error()), "key", key)
	}
	return nil
}

// DeleteContext removes the directory of id.
func (s *FileStore) DeleteContext(id string) error {
	dir, err := s.contextDir(id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDeleteFailed.Error()), "id", id)
	}
	return nil
}

func (s *FileStore) readJSON(id, key string, v any) error {
	p, err := s.path(id, key)
	if err != nil {
		return err
	}
	//nolint:gosec // Path is validated against the storage root
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Tag(domain.ErrKeyNotFound, "id", id, "key", key)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "id", id), "key", key)
	}
	return nil
}

func (s *FileStore) contextDir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", domain.Tag(domain.ErrInvalidKey, "id", id)
	}
	return filepath.Join(s.root, id), nil
}

func (s *FileStore) path(id, key string) (string, error) {
	dir, err := s.contextDir(id)
	if err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(key)), nil
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return domain.Tag(domain.ErrInvalidKey, "key", key)
	}
	for part := range strings.SplitSeq(key, "/") {
		if part == "" || part == "." || part == ".." || strings.Contains(part, domain.TempMarker) {
			return domain.Tag(domain.ErrInvalidKey, "key", key)
		}
	}
	return nil
}

// hasTempSibling reports whether a write of p is in flight.
func hasTempSibling(p string) bool {
	matches, err := filepath.Glob(escapeGlob(p) + domain.TempMarker + "*")
	return err == nil && len(matches) > 0
}

func escapeGlob(p string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(p)
}

// writeAtomic writes through a temporary sibling and renames it over p.
// The temporary artifact is removed on any failure.
func writeAtomic(p string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p)+domain.TempMarker+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

func sortNewestFirst(metas []*domain.ContextMetadata) {
	slices.SortFunc(metas, func(a, b *domain.ContextMetadata) int {
		switch {
		case a.NewerThan(b):
			return -1
		case b.NewerThan(a):
			return 1
		default:
			return 0
		}
	})
}

type contextLister interface {
	GetContexts(taskType string, constraints []domain.Constraint) ([]*domain.ContextMetadata, error)
}

func latest(l contextLister, taskType string, constraints []domain.Constraint) (*domain.ContextMetadata, error) {
	metas, err := l.GetContexts(taskType, constraints)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, domain.Tag(domain.ErrContextNotFound, "type", taskType)
	}
	return metas[0], nil
}
