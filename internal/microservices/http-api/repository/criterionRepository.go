package repository

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CriterionRepository interface {
	Create(ctx context.Context, criterion *models.Criterion) error
	// ListByTasting orders by sort order, then insertion.
	ListByTasting(ctx context.Context, tastingID string) ([]models.Criterion, error)
}

type criterionRepository struct {
	db *gorm.DB
}

func NewCriterionRepository(db *gorm.DB) CriterionRepository {
	return &criterionRepository{db: db}
}

func (r *criterionRepository) Create(ctx context.Context, criterion *models.Criterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

func (r *criterionRepository) ListByTasting(ctx context.Context, tastingID string) ([]models.Criterion, error) {
	var criteria []models.Criterion
	err := r.db.WithContext(ctx).
		Where("tasting_id = ?", tastingID).
		Order("sort_order ASC, created_at ASC").
		Find(&criteria).Error
	return criteria, err
}
