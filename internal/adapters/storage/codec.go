package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/sweep/internal/core/domain"
)

type codec int

const (
	codecPlain codec = iota
	codecGzip
	codecZstd
)

func codecFor(key string) codec {
	switch {
	case strings.HasSuffix(key, domain.GzipSuffix):
		return codecGzip
	case strings.HasSuffix(key, domain.ZstdSuffix):
		return codecZstd
	default:
		return codecPlain
	}
}

func (c codec) encoder(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case codecGzip:
		return gzip.NewWriter(w), nil
	case codecZstd:
		return zstd.NewWriter(w)
	default:
		return nopWriteCloser{w}, nil
	}
}

func (c codec) decoder(r io.ReadCloser) (io.ReadCloser, error) {
	switch c {
	case codecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case codecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		rc := dec.IOReadCloser()
		return &stackedReader{Reader: rc, closers: []io.Closer{rc, r}}, nil
	default:
		return r, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// stackedReader closes a decoder and the file underneath it.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
