package models

import (
	"time"

	"blindtasting/internal/report"
)

type Criterion struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	TastingID string    `json:"tastingId" gorm:"type:uuid;not null;index"`
	Label     string    `json:"label" gorm:"not null"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	ScaleMin  float64   `json:"scaleMin" gorm:"not null"`
	ScaleMax  float64   `json:"scaleMax" gorm:"not null"`
	Weight    *float64  `json:"weight,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Criterion) TableName() string {
	return "criteria"
}

func (c *Criterion) ToReport() report.Criterion {
	return report.Criterion{
		ID:       c.ID,
		Label:    c.Label,
		Order:    c.Order,
		ScaleMin: c.ScaleMin,
		ScaleMax: c.ScaleMax,
		Weight:   c.Weight,
	}
}
