package models

import (
	"time"

	"blindtasting/internal/report"
)

// Rating is one participant's scores for one wine. Scores is stored as JSON
// keyed by criterion id; values written by the API are always numbers but
// the reporting side treats the column as untrusted.
type Rating struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey"`
	TastingID     string         `json:"tastingId" gorm:"type:uuid;not null;index"`
	ParticipantID string         `json:"participantId" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_participant_wine"`
	WineID        string         `json:"wineId" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_participant_wine"`
	BlindNumber   *int           `json:"blindNumber,omitempty"`
	Scores        map[string]any `json:"scores" gorm:"type:jsonb;serializer:json"`
	Comment       *string        `json:"comment,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) ToReport() report.RawRating {
	return report.RawRating{
		ID:            r.ID,
		ParticipantID: r.ParticipantID,
		WineID:        r.WineID,
		BlindNumber:   r.BlindNumber,
		Scores:        r.Scores,
	}
}
