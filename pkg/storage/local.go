package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore keeps objects under <root>/<bucket>/<key>; the HTTP server exposes root at /storage.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(root, string(b)), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create bucket directory %s", b)
		}
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(bucket Bucket, key string) string {
	return filepath.Join(s.root, string(bucket), filepath.FromSlash(key))
}

func (s *LocalStore) Upload(_ context.Context, bucket Bucket, key string, r io.Reader, _ string, upsert bool) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	p := s.path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", errors.Wrap(err, "create object directory")
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !upsert {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(p, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", errors.Wrap(ErrObjectExists, key)
		}
		return "", errors.Wrap(err, "open object for write")
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return "", errors.Wrap(err, "write object")
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", errors.Wrap(err, "close object")
	}

	return s.PublicURL(bucket, key), nil
}

func (s *LocalStore) Open(_ context.Context, bucket Bucket, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrObjectNotFound, key)
		}
		return nil, errors.Wrap(err, "open object")
	}
	return f, nil
}

func (s *LocalStore) Remove(_ context.Context, bucket Bucket, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(bucket, key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove object")
	}
	return nil
}

func (s *LocalStore) PublicURL(bucket Bucket, key string) string {
	return s.baseURL + "/storage/" + string(bucket) + "/" + key
}

func (s *LocalStore) KeyFromURL(bucket Bucket, rawURL string) (string, bool) {
	return keyAfter(rawURL, "/storage/"+string(bucket)+"/")
}

func (s *LocalStore) Close() error { return nil }
