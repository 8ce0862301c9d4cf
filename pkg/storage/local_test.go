package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "http://api.test/")
	require.NoError(t, err)

	url, err := s.Upload(ctx, BucketTestimonialPhotos, "t1/a.jpg", strings.NewReader("jpeg"), "image/jpeg", false)
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/storage/testimonial-photos/t1/a.jpg", url)

	_, err = s.Upload(ctx, BucketTestimonialPhotos, "t1/a.jpg", strings.NewReader("again"), "image/jpeg", false)
	assert.True(t, errors.Is(err, ErrObjectExists))

	key, ok := s.KeyFromURL(BucketTestimonialPhotos, url)
	require.True(t, ok)
	assert.Equal(t, "t1/a.jpg", key)

	rc, err := s.Open(ctx, BucketTestimonialPhotos, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(body))

	require.NoError(t, s.Remove(ctx, BucketTestimonialPhotos, key))
	_, err = s.Open(ctx, BucketTestimonialPhotos, key)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestLocalStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "http://api.test")
	require.NoError(t, err)

	_, err = s.Upload(ctx, BucketBusinessLogos, "b1/logo.png", strings.NewReader("one"), "image/png", true)
	require.NoError(t, err)
	_, err = s.Upload(ctx, BucketBusinessLogos, "b1/logo.png", strings.NewReader("two"), "image/png", true)
	require.NoError(t, err)

	rc, err := s.Open(ctx, BucketBusinessLogos, "b1/logo.png")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "two", string(body))
}

func TestKeyValidation(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "http://api.test")
	require.NoError(t, err)

	_, err = s.Upload(ctx, BucketCampaignVideos, "../escape.mp4", strings.NewReader("x"), "video/mp4", true)
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, ok := s.KeyFromURL(BucketTestimonialVideos, "http://api.test/storage/testimonial-photos/t1/a.jpg")
	assert.False(t, ok)
}

func TestExtensionAndRandomKey(t *testing.T) {
	assert.Equal(t, "jpg", Extension("Photo.JPG"))
	assert.Equal(t, "bin", Extension("noext"))

	key, err := RandomKey("abc", "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "abc/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))

	key, err = RandomKey("abc", "image/JPEG; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestMediaTypeAllowlist(t *testing.T) {
	assert.True(t, IsMediaType("image/png", "image"))
	assert.True(t, IsMediaType("video/quicktime", "video"))
	assert.False(t, IsMediaType("video/mp4", "image"))
	assert.False(t, IsMediaType("image/svg+xml", "image"))
	assert.False(t, IsMediaType("text/html", "image"))
	assert.False(t, IsMediaType("image/", "image"))

	_, err := RandomKey("abc", "image/svg+xml")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}
