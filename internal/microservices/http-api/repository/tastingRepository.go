package repository

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type TastingRepository interface {
	// Create stores a tasting together with its criteria and wine slots.
	Create(ctx context.Context, tasting *models.Tasting, criteria []models.Criterion, wines []models.Wine) error
	GetByID(ctx context.Context, id string) (*models.Tasting, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tasting, error)
	List(ctx context.Context, page, pageSize int) ([]models.Tasting, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type tastingRepository struct {
	db *gorm.DB
}

func NewTastingRepository(db *gorm.DB) TastingRepository {
	return &tastingRepository{db: db}
}

func (r *tastingRepository) Create(ctx context.Context, tasting *models.Tasting, criteria []models.Criterion, wines []models.Wine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tasting).Error; err != nil {
			return err
		}
		if len(criteria) > 0 {
			if err := tx.Create(&criteria).Error; err != nil {
				return err
			}
		}
		if len(wines) > 0 {
			if err := tx.Create(&wines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *tastingRepository) GetByID(ctx context.Context, id string) (*models.Tasting, error) {
	var tasting models.Tasting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tasting).Error; err != nil {
		return nil, err
	}
	return &tasting, nil
}

func (r *tastingRepository) GetBySlug(ctx context.Context, slug string) (*models.Tasting, error) {
	var tasting models.Tasting
	if err := r.db.WithContext(ctx).Where("public_slug = ?", slug).First(&tasting).Error; err != nil {
		return nil, err
	}
	return &tasting, nil
}

// List returns tastings newest first with pagination
func (r *tastingRepository) List(ctx context.Context, page, pageSize int) ([]models.Tasting, int64, error) {
	var tastings []models.Tasting
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Tasting{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&tastings).Error
	return tastings, total, err
}

func (r *tastingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Tasting{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
