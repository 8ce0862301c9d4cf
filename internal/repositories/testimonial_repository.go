package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"trustly/internal/models/db_models"
)

// TestimonialFilter narrows List. Zero values are ignored.
type TestimonialFilter struct {
	BusinessID uuid.UUID
	CampaignID *uuid.UUID
	Status     db_models.ModerationStatus
	Since      time.Time
	Limit      int
}

type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *db_models.Testimonial) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Testimonial, error)
	// CountByEmailSince counts testimonials carrying email created at or after since, across businesses.
	CountByEmailSince(ctx context.Context, email string, since time.Time) (int64, error)
	List(ctx context.Context, filter TestimonialFilter) ([]db_models.Testimonial, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus) error
	SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error
	// ListApprovedForWidget returns approved testimonials with only their approved media attached.
	ListApprovedForWidget(ctx context.Context, businessID uuid.UUID, limit int) ([]db_models.Testimonial, error)
}

func byUploadTime(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }

type testimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) Create(ctx context.Context, testimonial *db_models.Testimonial) error {
	return r.db.WithContext(ctx).Omit("Campaign", "Photos", "Videos").Create(testimonial).Error
}

func (r *testimonialRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Testimonial, error) {
	var testimonial db_models.Testimonial
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Preload("Photos", byUploadTime).
		Preload("Videos", byUploadTime).
		First(&testimonial, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &testimonial, nil
}

func (r *testimonialRepository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Testimonial{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&n).Error
	return n, err
}

func (r *testimonialRepository) List(ctx context.Context, filter TestimonialFilter) ([]db_models.Testimonial, error) {
	query := r.db.WithContext(ctx).
		Preload("Campaign").
		Preload("Photos", byUploadTime).
		Preload("Videos", byUploadTime).
		Where("business_id = ?", filter.BusinessID)

	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var testimonials []db_models.Testimonial
	err := query.Order("created_at DESC").Find(&testimonials).Error
	return testimonials, err
}

func (r *testimonialRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ModerationStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Testimonial{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *testimonialRepository) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Testimonial{}).
		Where("id = ? AND photo_url IS NULL", id).
		Update("photo_url", url).Error
}

func (r *testimonialRepository) ListApprovedForWidget(ctx context.Context, businessID uuid.UUID, limit int) ([]db_models.Testimonial, error) {
	approved := func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", db_models.StatusApproved).Order("uploaded_at ASC")
	}
	query := r.db.WithContext(ctx).
		Preload("Photos", approved).
		Preload("Videos", approved).
		Where("business_id = ? AND status = ?", businessID, db_models.StatusApproved).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var testimonials []db_models.Testimonial
	err := query.Find(&testimonials).Error
	return testimonials, err
}
