package repository

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, tastingID, id string) (*models.Participant, error)
	// FindByName matches case-insensitively within a tasting.
	FindByName(ctx context.Context, tastingID, name string) (*models.Participant, error)
	ListByTasting(ctx context.Context, tastingID string) ([]models.Participant, error)
	CountByTasting(ctx context.Context, tastingID string) (int64, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) GetByID(ctx context.Context, tastingID, id string) (*models.Participant, error) {
	var p models.Participant
	if err := r.db.WithContext(ctx).Where("tasting_id = ? AND id = ?", tastingID, id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) FindByName(ctx context.Context, tastingID, name string) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).
		Where("tasting_id = ? AND LOWER(name) = LOWER(?)", tastingID, name).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) ListByTasting(ctx context.Context, tastingID string) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("tasting_id = ?", tastingID).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *participantRepository) CountByTasting(ctx context.Context, tastingID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Participant{}).Where("tasting_id = ?", tastingID).Count(&count).Error
	return count, err
}
