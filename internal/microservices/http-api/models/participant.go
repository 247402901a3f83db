package models

import "time"

type Participant struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	TastingID string    `json:"tastingId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Participant) TableName() string {
	return "participants"
}
