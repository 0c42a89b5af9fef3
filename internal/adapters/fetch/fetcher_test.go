package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/fetch"
	"go.trai.ch/sweep/internal/core/domain"
)

func noTemps(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+domain.TempMarker+"*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFetch_LocalFile(t *testing.T) {
	t.Parallel()
	src := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n"), 0o600))

	dst := filepath.Join(t.TempDir(), "ctx", "data")
	require.NoError(t, fetch.New().Fetch(context.Background(), "file://"+src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(got))
	noTemps(t, filepath.Dir(dst))
}

func TestFetch_LocalDir(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "x.txt"), []byte("x"), 0o600))

	dst := filepath.Join(t.TempDir(), "dataset")
	require.NoError(t, fetch.New().Fetch(context.Background(), "file://"+src, dst))

	got, err := os.ReadFile(filepath.Join(dst, "nested", "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
	noTemps(t, filepath.Dir(dst))
}

func TestFetch_LocalMissing(t *testing.T) {
	t.Parallel()
	dst := filepath.Join(t.TempDir(), "data")
	err := fetch.New().Fetch(context.Background(), "file:///does/not/exist", dst)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, domain.ErrFetchFailed.Error())
	assert.NoFileExists(t, dst)
}

func TestFetch_HTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("weights"))
	}))
	t.Cleanup(srv.Close)

	dst := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, fetch.New().Fetch(context.Background(), srv.URL+"/model.bin", dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "weights", string(got))
}

func TestFetch_HTTPRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	dst := filepath.Join(t.TempDir(), "file")
	require.NoError(t, fetch.New().Fetch(context.Background(), srv.URL, dst))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_HTTPNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	dst := filepath.Join(t.TempDir(), "file")
	f := fetch.New(fetch.WithClient(resty.New()))
	err := f.Fetch(context.Background(), srv.URL, dst)
	require.ErrorContains(t, err, domain.ErrFetchFailed.Error())
	assert.NoFileExists(t, dst)
	noTemps(t, filepath.Dir(dst))
}

func TestFetch_ExistingDestinationIsKept(t *testing.T) {
	t.Parallel()
	dst := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(dst, []byte("kept"), 0o600))

	require.NoError(t, fetch.New().Fetch(context.Background(), "s3://bucket/key", dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	err := fetch.New().Fetch(context.Background(), "s3://bucket/key", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, err, domain.ErrUnsupportedScheme)
}
