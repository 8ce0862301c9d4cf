package services

import (
	"context"

	"github.com/pkg/errors"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/repositories"
	"trustly/pkg/storage"
)

var (
	errNotAnImage = errors.New("file is not an image")
	errNotAVideo  = errors.New("file is not a video")
)

// mediaUploader stores testimonial media and records a pending row per stored object.
type mediaUploader struct {
	store        storage.ObjectStore
	media        repositories.MediaRepository
	testimonials repositories.TestimonialRepository
}

// addPhoto stores one photo; setCover copies its URL onto the testimonial when none is set yet.
func (u mediaUploader) addPhoto(ctx context.Context, testimonial *db_models.Testimonial, file request_models.UploadedFile, setCover bool) error {
	if !storage.IsMediaType(file.ContentType, "image") {
		return errNotAnImage
	}
	url, err := u.upload(ctx, storage.BucketTestimonialPhotos, testimonial, file)
	if err != nil {
		return err
	}

	photo := &db_models.TestimonialPhoto{
		TestimonialID: testimonial.ID,
		PhotoURL:      url,
		Status:        db_models.StatusPending,
	}
	if err := u.media.CreatePhoto(ctx, photo); err != nil {
		u.discard(ctx, storage.BucketTestimonialPhotos, url)
		return errors.Wrap(err, "record photo")
	}

	if setCover && testimonial.PhotoURL == nil {
		if err := u.testimonials.SetPhotoURL(ctx, testimonial.ID, url); err != nil {
			return errors.Wrap(err, "set cover photo")
		}
		testimonial.PhotoURL = &url
	}
	return nil
}

func (u mediaUploader) addVideo(ctx context.Context, testimonial *db_models.Testimonial, file request_models.UploadedFile) error {
	if !storage.IsMediaType(file.ContentType, "video") {
		return errNotAVideo
	}
	url, err := u.upload(ctx, storage.BucketTestimonialVideos, testimonial, file)
	if err != nil {
		return err
	}

	video := &db_models.TestimonialVideo{
		TestimonialID: testimonial.ID,
		VideoURL:      url,
		Status:        db_models.StatusPending,
	}
	if err := u.media.CreateVideo(ctx, video); err != nil {
		u.discard(ctx, storage.BucketTestimonialVideos, url)
		return errors.Wrap(err, "record video")
	}
	return nil
}

func (u mediaUploader) upload(ctx context.Context, bucket storage.Bucket, testimonial *db_models.Testimonial, file request_models.UploadedFile) (string, error) {
	key, err := storage.RandomKey(testimonial.ID.String(), file.ContentType)
	if err != nil {
		return "", err
	}

	rc, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer rc.Close()

	url, err := u.store.Upload(ctx, bucket, key, rc, file.ContentType, false)
	if err != nil {
		return "", errors.Wrap(err, "store object")
	}
	return url, nil
}

func (u mediaUploader) discard(ctx context.Context, bucket storage.Bucket, url string) {
	if key, ok := u.store.KeyFromURL(bucket, url); ok {
		_ = u.store.Remove(ctx, bucket, key)
	}
}

func mediaFailureReason(err error) string {
	switch {
	case errors.Is(err, errNotAnImage):
		return "Only image files can be uploaded as photos"
	case errors.Is(err, errNotAVideo):
		return "Only video files can be uploaded as videos"
	default:
		return "Upload failed"
	}
}
