package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Copy materializes source under targetKey of targetID.
// ReadOnly access never writes. A target that already exists is left alone,
// so a key is materialized at most once.
func (s *FileStore) Copy(ctx context.Context, targetID, targetKey string, source domain.StorageKey, mode domain.AccessMode) error {
	if mode == domain.ReadOnly {
		return nil
	}

	dst, err := s.path(targetID, targetKey)
	if err != nil {
		return err
	}
	src, err := s.path(source.ContextID, source.Key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Tag(domain.ErrKeyNotFound, "id", source.ContextID, "key", source.Key)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "source", source.String())
	}

	switch {
	case info.IsDir() && mode == domain.AddOnly:
		err = copyDirAtomic(dst, func(tmp string) error { return linkTree(src, tmp) })
	case info.IsDir():
		err = copyDirAtomic(dst, func(tmp string) error { return cp.Copy(src, tmp, cp.Options{Sync: true}) })
	case codecFor(source.Key) == codecFor(targetKey):
		err = copyFileAtomic(ctx, src, dst)
	default:
		err = s.transcode(ctx, targetID, targetKey, source)
	}
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "source", source.String()), "target", targetID+"/"+targetKey)
	}
	return nil
}

func (s *FileStore) transcode(ctx context.Context, targetID, targetKey string, source domain.StorageKey) error {
	rc, err := s.RetrieveBinary(ctx, source.ContextID, source.Key)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return s.StoreBinary(ctx, targetID, targetKey, rc)
}

func copyFileAtomic(ctx context.Context, src, dst string) error {
	//nolint:gosec // Path is validated against the storage root
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	return writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, contextReader{ctx: ctx, r: in})
		return err
	})
}

// copyDirAtomic fills a temporary sibling directory and renames it to dst.
func copyDirAtomic(dst string, fill func(tmp string) error) (err error) {
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(parent, filepath.Base(dst)+domain.TempMarker+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(tmp)
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

// linkTree recreates the directories of src under dst and hard-links every file.
// Files that cannot be linked, for instance across devices, are copied.
func linkTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, domain.DirPerm)
		}
		if err := os.Link(p, target); err == nil {
			return nil
		}
		return cp.Copy(p, target)
	})
}
