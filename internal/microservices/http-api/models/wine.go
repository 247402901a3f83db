package models

import (
	"time"

	"blindtasting/internal/report"
)

// Wine is a blind-numbered slot of a tasting. The identity columns stay
// hidden from participants until the tasting is revealed.
type Wine struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	TastingID   string    `json:"tastingId" gorm:"type:uuid;not null;uniqueIndex:idx_wines_tasting_blind"`
	BlindNumber *int      `json:"blindNumber" gorm:"uniqueIndex:idx_wines_tasting_blind"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	ServeOrder  *int      `json:"serveOrder,omitempty"`
	Winery      *string   `json:"winery,omitempty"`
	Grape       *string   `json:"grape,omitempty"`
	Vintage     *string   `json:"vintage,omitempty"`
	OwnerName   *string   `json:"ownerName,omitempty"`
	DisplayName *string   `json:"displayName,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty" gorm:"column:image_url"`
	ImagePath   *string   `json:"imagePath,omitempty"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Wine) TableName() string {
	return "wines"
}

func (w *Wine) ToReport() report.Wine {
	return report.Wine{
		ID:          w.ID,
		BlindNumber: w.BlindNumber,
		IsActive:    w.IsActive,
		ServeOrder:  w.ServeOrder,
		Identity: report.WineIdentity{
			Winery:      w.Winery,
			Grape:       w.Grape,
			Vintage:     w.Vintage,
			OwnerName:   w.OwnerName,
			DisplayName: w.DisplayName,
			ImageURL:    w.ImageURL,
			ImagePath:   w.ImagePath,
		},
	}
}
