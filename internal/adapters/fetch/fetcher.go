// Package fetch materializes external imports into the local filesystem.
package fetch

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	cp "github.com/otiai10/copy"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Fetcher copies file:// and http(s):// resources. It implements ports.Fetcher.
// A destination is either complete or absent.
type Fetcher struct {
	client *resty.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *resty.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New creates a fetcher retrying transient HTTP failures.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: resty.New().
			SetTimeout(10 * time.Minute).
			SetRetryCount(3).
			SetRetryWaitTime(200 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(retryCondition),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

// Fetch copies the resource at uri to dst. An existing dst is left alone.
func (f *Fetcher) Fetch(ctx context.Context, uri, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidImportURI.Error()), "uri", uri)
	}
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return wrap(err, uri)
	}

	switch u.Scheme {
	case "file":
		err = f.copyLocal(u.Path, dst)
	case "http", "https":
		err = f.download(ctx, uri, dst)
	default:
		return domain.Tag(domain.ErrUnsupportedScheme, "uri", uri, "scheme", u.Scheme)
	}
	if err != nil {
		return wrap(err, uri)
	}
	return nil
}

func (f *Fetcher) copyLocal(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		tmp, err := os.MkdirTemp(filepath.Dir(dst), filepath.Base(dst)+domain.TempMarker+"*")
		if err != nil {
			return err
		}
		if err := cp.Copy(src, tmp, cp.Options{Sync: true}); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
		return nil
	}

	in, err := os.Open(src) //nolint:gosec // path comes from the import declaration
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	return writeAtomic(dst, in)
}

func (f *Fetcher) download(ctx context.Context, uri, dst string) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(uri)
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if resp.IsError() {
		return zerr.With(zerr.New("unexpected response status"), "status", resp.StatusCode())
	}
	return writeAtomic(dst, body)
}

// writeAtomic streams r into a sibling temporary file and renames it onto dst.
func writeAtomic(dst string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+domain.TempMarker+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func wrap(err error, uri string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "uri", uri)
}
