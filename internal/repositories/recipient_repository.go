package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"trustly/internal/models/db_models"
)

type RecipientRepository interface {
	Create(ctx context.Context, recipient *db_models.CampaignRecipient) error
	FindByToken(ctx context.Context, token string) (*db_models.CampaignRecipient, error)
	MarkSent(ctx context.Context, token string, at time.Time) error
	// MarkSubmitted moves the recipient to submitted and reports whether this call made the transition.
	MarkSubmitted(ctx context.Context, token string, at time.Time) (bool, error)
}

type recipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) Create(ctx context.Context, recipient *db_models.CampaignRecipient) error {
	return r.db.WithContext(ctx).Create(recipient).Error
}

func (r *recipientRepository) FindByToken(ctx context.Context, token string) (*db_models.CampaignRecipient, error) {
	var recipient db_models.CampaignRecipient
	err := r.db.WithContext(ctx).First(&recipient, "unique_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

func (r *recipientRepository) MarkSent(ctx context.Context, token string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.CampaignRecipient{}).
		Where("unique_token = ?", token).
		Updates(map[string]any{"status": db_models.RecipientSent, "sent_at": at}).Error
}

func (r *recipientRepository) MarkSubmitted(ctx context.Context, token string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.CampaignRecipient{}).
		Where("unique_token = ? AND status <> ?", token, db_models.RecipientSubmitted).
		Updates(map[string]any{"status": db_models.RecipientSubmitted, "submitted_at": at})
	return res.RowsAffected > 0, res.Error
}
