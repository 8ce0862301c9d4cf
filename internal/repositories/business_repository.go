package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"trustly/internal/models/db_models"
)

type BusinessRepository interface {
	// Create is idempotent per user: a concurrent insert for the same user_id is ignored.
	Create(ctx context.Context, business *db_models.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Business, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.Business, error)
	// FindOwned returns the business only when it belongs to userID.
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Business, error)
	Save(ctx context.Context, business *db_models.Business) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *db_models.Business) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(business).Error
}

func (r *businessRepository) first(ctx context.Context, query string, args ...any) (*db_models.Business, error) {
	var business db_models.Business
	err := r.db.WithContext(ctx).Where(query, args...).First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Business, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *businessRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.Business, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *businessRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Business, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *businessRepository) Save(ctx context.Context, business *db_models.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}
