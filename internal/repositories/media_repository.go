package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"trustly/internal/models/db_models"
)

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// MediaFilter selects media across all testimonials of a business.
type MediaFilter struct {
	BusinessID uuid.UUID
	Status     db_models.ModerationStatus
}

type MediaRepository interface {
	CreatePhoto(ctx context.Context, photo *db_models.TestimonialPhoto) error
	CreateVideo(ctx context.Context, video *db_models.TestimonialVideo) error
	FindPhoto(ctx context.Context, id uuid.UUID) (*db_models.TestimonialPhoto, error)
	FindVideo(ctx context.Context, id uuid.UUID) (*db_models.TestimonialVideo, error)
	ListPhotosByBusiness(ctx context.Context, filter MediaFilter) ([]db_models.TestimonialPhoto, error)
	ListVideosByBusiness(ctx context.Context, filter MediaFilter) ([]db_models.TestimonialVideo, error)
	UpdatePhotoStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error
	UpdateVideoStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error
	DeletePhoto(ctx context.Context, id uuid.UUID) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreatePhoto(ctx context.Context, photo *db_models.TestimonialPhoto) error {
	return r.db.WithContext(ctx).Omit("Testimonial").Create(photo).Error
}

func (r *mediaRepository) CreateVideo(ctx context.Context, video *db_models.TestimonialVideo) error {
	return r.db.WithContext(ctx).Omit("Testimonial").Create(video).Error
}

func (r *mediaRepository) FindPhoto(ctx context.Context, id uuid.UUID) (*db_models.TestimonialPhoto, error) {
	var photo db_models.TestimonialPhoto
	err := r.db.WithContext(ctx).Preload("Testimonial").First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (r *mediaRepository) FindVideo(ctx context.Context, id uuid.UUID) (*db_models.TestimonialVideo, error) {
	var video db_models.TestimonialVideo
	err := r.db.WithContext(ctx).Preload("Testimonial").First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (r *mediaRepository) scoped(ctx context.Context, table string, filter MediaFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Preload("Testimonial").
		Joins("JOIN testimonials ON testimonials.id = "+table+".testimonial_id").
		Where("testimonials.business_id = ?", filter.BusinessID)
	if filter.Status != "" {
		query = query.Where(table+".status = ?", filter.Status)
	}
	return query.Order(table + ".uploaded_at DESC")
}

func (r *mediaRepository) ListPhotosByBusiness(ctx context.Context, filter MediaFilter) ([]db_models.TestimonialPhoto, error) {
	var photos []db_models.TestimonialPhoto
	err := r.scoped(ctx, "testimonial_photos", filter).Find(&photos).Error
	return photos, err
}

func (r *mediaRepository) ListVideosByBusiness(ctx context.Context, filter MediaFilter) ([]db_models.TestimonialVideo, error) {
	var videos []db_models.TestimonialVideo
	err := r.scoped(ctx, "testimonial_videos", filter).Find(&videos).Error
	return videos, err
}

func (r *mediaRepository) UpdatePhotoStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.TestimonialPhoto{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "approved_at": approvedAt}).Error
}

func (r *mediaRepository) UpdateVideoStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.TestimonialVideo{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "approved_at": approvedAt}).Error
}

func (r *mediaRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.TestimonialPhoto{}, "id = ?", id).Error
}

func (r *mediaRepository) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.TestimonialVideo{}, "id = ?", id).Error
}
