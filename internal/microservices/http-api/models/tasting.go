package models

import (
	"time"

	"blindtasting/internal/report"
)

type Tasting struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	PublicSlug      string    `json:"publicSlug" gorm:"uniqueIndex;size:64;not null"`
	Title           string    `json:"title" gorm:"not null"`
	HostName        string    `json:"hostName" gorm:"not null"`
	Status          string    `json:"status" gorm:"size:16;not null;default:draft"`
	WineCount       int       `json:"wineCount" gorm:"not null"`
	MaxParticipants int       `json:"maxParticipants" gorm:"not null;default:0"`
	PINHash         string    `json:"-" gorm:"column:pin_hash;not null"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Tasting) TableName() string {
	return "tastings"
}

func (t *Tasting) ToReport() report.Tasting {
	return report.Tasting{
		ID:              t.ID,
		PublicSlug:      t.PublicSlug,
		Title:           t.Title,
		HostName:        t.HostName,
		Status:          report.Status(t.Status),
		WineCount:       t.WineCount,
		MaxParticipants: t.MaxParticipants,
	}
}
