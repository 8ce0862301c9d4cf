package storage

import (
	"context"
	"io"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSStore maps every logical bucket onto the Cloud Storage bucket "<prefix><bucket>".
type GCSStore struct {
	client *gcs.Client
	prefix string
}

func NewGCSStore(ctx context.Context, bucketPrefix, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create cloud storage client")
	}
	return &GCSStore{client: client, prefix: bucketPrefix}, nil
}

func (s *GCSStore) bucketName(b Bucket) string { return s.prefix + string(b) }

func (s *GCSStore) Upload(ctx context.Context, bucket Bucket, key string, r io.Reader, contentType string, upsert bool) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	obj := s.client.Bucket(s.bucketName(bucket)).Object(key)
	if !upsert {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	}

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", errors.Wrap(err, "write object")
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return "", errors.Wrap(ErrObjectExists, key)
		}
		return "", errors.Wrap(err, "finalize object")
	}

	return s.PublicURL(bucket, key), nil
}

func (s *GCSStore) Open(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucketName(bucket)).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, errors.Wrap(ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open object")
	}
	return rc, nil
}

func (s *GCSStore) Remove(ctx context.Context, bucket Bucket, key string) error {
	err := s.client.Bucket(s.bucketName(bucket)).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return errors.Wrap(err, "delete object")
	}
	return nil
}

func (s *GCSStore) PublicURL(bucket Bucket, key string) string {
	return "https://storage.googleapis.com/" + s.bucketName(bucket) + "/" + key
}

func (s *GCSStore) KeyFromURL(bucket Bucket, rawURL string) (string, bool) {
	return keyAfter(rawURL, "/"+s.bucketName(bucket)+"/")
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
