package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"trustly/internal/models/db_models"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *db_models.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Campaign, error)
	FindBySlug(ctx context.Context, slug string) (*db_models.Campaign, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]db_models.Campaign, error)
	// UpdateDetails writes the owner-editable columns only. Counters, slug and form config keep
	// whatever the database holds.
	UpdateDetails(ctx context.Context, campaign *db_models.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateFormConfig(ctx context.Context, id uuid.UUID, cfg datatypes.JSON) error
	SetTotalSent(ctx context.Context, id uuid.UUID, total int) error
	IncrementSubmitted(ctx context.Context, id uuid.UUID) error
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *db_models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepository) first(ctx context.Context, query string, args ...any) (*db_models.Campaign, error) {
	var campaign db_models.Campaign
	err := r.db.WithContext(ctx).Where(query, args...).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Campaign, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *campaignRepository) FindBySlug(ctx context.Context, slug string) (*db_models.Campaign, error) {
	return r.first(ctx, "unique_slug = ?", slug)
}

func (r *campaignRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Campaign{}).Where("unique_slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *campaignRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]db_models.Campaign, error) {
	var campaigns []db_models.Campaign
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

var campaignDetailColumns = []string{
	"name", "description", "welcome_video_url", "video_autoplay", "custom_questions",
	"allow_video", "allow_photo", "allow_text", "allow_rating", "updated_at",
}

func (r *campaignRepository) UpdateDetails(ctx context.Context, campaign *db_models.Campaign) error {
	return r.db.WithContext(ctx).
		Model(campaign).
		Select(campaignDetailColumns).
		Updates(campaign).Error
}

func (r *campaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Campaign{}, "id = ?", id).Error
}

func (r *campaignRepository) UpdateFormConfig(ctx context.Context, id uuid.UUID, cfg datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Campaign{}).
		Where("id = ?", id).
		Update("form_config", cfg).Error
}

func (r *campaignRepository) SetTotalSent(ctx context.Context, id uuid.UUID, total int) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Campaign{}).
		Where("id = ?", id).
		Update("total_sent", total).Error
}

func (r *campaignRepository) IncrementSubmitted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Campaign{}).
		Where("id = ?", id).
		UpdateColumn("total_submitted", gorm.Expr("total_submitted + 1")).Error
}
