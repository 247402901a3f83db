package repository

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type WineRepository interface {
	ListByTasting(ctx context.Context, tastingID string) ([]models.Wine, error)
	GetByID(ctx context.Context, tastingID, id string) (*models.Wine, error)
	GetByBlindNumber(ctx context.Context, tastingID string, blindNumber int) (*models.Wine, error)
	Update(ctx context.Context, wine *models.Wine) error
}

type wineRepository struct {
	db *gorm.DB
}

func NewWineRepository(db *gorm.DB) WineRepository {
	return &wineRepository{db: db}
}

func (r *wineRepository) ListByTasting(ctx context.Context, tastingID string) ([]models.Wine, error) {
	var wines []models.Wine
	err := r.db.WithContext(ctx).
		Where("tasting_id = ?", tastingID).
		Order("blind_number ASC NULLS LAST, created_at ASC").
		Find(&wines).Error
	return wines, err
}

func (r *wineRepository) GetByID(ctx context.Context, tastingID, id string) (*models.Wine, error) {
	var wine models.Wine
	err := r.db.WithContext(ctx).Where("tasting_id = ? AND id = ?", tastingID, id).First(&wine).Error
	if err != nil {
		return nil, err
	}
	return &wine, nil
}

func (r *wineRepository) GetByBlindNumber(ctx context.Context, tastingID string, blindNumber int) (*models.Wine, error) {
	var wine models.Wine
	err := r.db.WithContext(ctx).Where("tasting_id = ? AND blind_number = ?", tastingID, blindNumber).First(&wine).Error
	if err != nil {
		return nil, err
	}
	return &wine, nil
}

// Update writes every column, including cleared identity fields
func (r *wineRepository) Update(ctx context.Context, wine *models.Wine) error {
	result := r.db.WithContext(ctx).Model(wine).Select("*").Omit("id", "tasting_id", "created_at").Updates(wine)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
