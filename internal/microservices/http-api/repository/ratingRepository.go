package repository

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert inserts the rating or replaces the stored one for the same
	// participant and wine.
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByParticipantAndWine(ctx context.Context, participantID, wineID string) (*models.Rating, error)
	ListByTasting(ctx context.Context, tastingID string) ([]models.Rating, error)
	ListByParticipant(ctx context.Context, tastingID, participantID string) ([]models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "wine_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"scores", "comment", "blind_number", "updated_at"}),
		}).
		Create(rating).Error
}

// GetByParticipantAndWine retrieves a participant's rating for a specific wine
func (r *ratingRepository) GetByParticipantAndWine(ctx context.Context, participantID, wineID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND wine_id = ?", participantID, wineID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByTasting(ctx context.Context, tastingID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("tasting_id = ?", tastingID).
		Order("created_at ASC, id ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) ListByParticipant(ctx context.Context, tastingID, participantID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("tasting_id = ? AND participant_id = ?", tastingID, participantID).
		Order("blind_number ASC NULLS LAST, created_at ASC").
		Find(&ratings).Error
	return ratings, err
}
