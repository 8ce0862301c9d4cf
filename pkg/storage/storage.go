// Package storage stores uploaded media in named buckets and derives their public URLs.
package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Bucket string

const (
	BucketBusinessLogos     Bucket = "business-logos"
	BucketTestimonialPhotos Bucket = "testimonial-photos"
	BucketTestimonialVideos Bucket = "testimonial-videos"
	BucketCampaignVideos    Bucket = "campaign-videos"
)

var Buckets = []Bucket{BucketBusinessLogos, BucketTestimonialPhotos, BucketTestimonialVideos, BucketCampaignVideos}

var (
	ErrObjectExists    = errors.New("object already exists")
	ErrObjectNotFound  = errors.New("object not found")
	ErrInvalidKey      = errors.New("invalid object key")
	ErrUnsupportedType = errors.New("unsupported media type")
)

type ObjectStore interface {
	// Upload writes the object and returns its public URL. With upsert=false an existing object
	// yields ErrObjectExists.
	Upload(ctx context.Context, bucket Bucket, key string, r io.Reader, contentType string, upsert bool) (string, error)
	Open(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, bucket Bucket, key string) error
	PublicURL(bucket Bucket, key string) string
	// KeyFromURL recovers the object key from a URL returned by Upload.
	KeyFromURL(bucket Bucket, rawURL string) (string, bool)
	Close() error
}

// Extension returns the lower-cased extension of filename without the dot, "bin" when absent.
func Extension(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" || len(ext) > 10 {
		return "bin"
	}
	return ext
}

var mediaExtensions = map[string]string{
	"image/jpeg":       "jpg",
	"image/png":        "png",
	"image/gif":        "gif",
	"image/webp":       "webp",
	"image/avif":       "avif",
	"image/heic":       "heic",
	"image/heif":       "heif",
	"video/mp4":        "mp4",
	"video/quicktime":  "mov",
	"video/webm":       "webm",
	"video/ogg":        "ogv",
	"video/mpeg":       "mpeg",
	"video/3gpp":       "3gp",
	"video/x-matroska": "mkv",
	"video/x-msvideo":  "avi",
}

// MediaExtension maps an accepted image or video content type to the extension its objects are
// stored under. Anything else, SVG and HTML included, is refused.
func MediaExtension(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ext, ok := mediaExtensions[mediaType]
	return ext, ok
}

// IsMediaType reports whether contentType is accepted and belongs to family ("image" or "video").
func IsMediaType(contentType, family string) bool {
	if _, ok := MediaExtension(contentType); !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), family+"/")
}

// RandomKey builds "<prefix>/<uuid>.<ext>". The extension comes from the declared content type,
// never from the client's filename.
func RandomKey(prefix, contentType string) (string, error) {
	ext, ok := MediaExtension(contentType)
	if !ok {
		return "", errors.Wrap(ErrUnsupportedType, contentType)
	}
	return prefix + "/" + uuid.NewString() + "." + ext, nil
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return errors.Wrap(ErrInvalidKey, key)
	}
	return nil
}

func keyAfter(rawURL, marker string) (string, bool) {
	idx := strings.Index(rawURL, marker)
	if idx < 0 {
		return "", false
	}
	key := rawURL[idx+len(marker):]
	if q := strings.IndexAny(key, "?#"); q >= 0 {
		key = key[:q]
	}
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
