package repository

import "gorm.io/gorm"

// Repositories bundles one implementation of every collection.
type Repositories struct {
	Tastings     TastingRepository
	Criteria     CriterionRepository
	Wines        WineRepository
	Participants ParticipantRepository
	Ratings      RatingRepository
}

func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Tastings:     NewTastingRepository(db),
		Criteria:     NewCriterionRepository(db),
		Wines:        NewWineRepository(db),
		Participants: NewParticipantRepository(db),
		Ratings:      NewRatingRepository(db),
	}
}
