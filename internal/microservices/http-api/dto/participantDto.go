package dto

import (
	"time"

	"blindtasting/internal/microservices/http-api/models"
)

// JoinRequest: payload for joining a tasting with its PIN
type JoinRequest struct {
	Name string `json:"name" binding:"required,min=1,max=40"`
	PIN  string `json:"pin" binding:"required,max=32"`
}

type ParticipantResponse struct {
	ID        string    `json:"id"`
	TastingID string    `json:"tastingId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromModelToParticipantResponse(p *models.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.ID,
		TastingID: p.TastingID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// JoinResponse is returned together with the session cookie
type JoinResponse struct {
	Participant ParticipantResponse `json:"participant"`
	PublicSlug  string              `json:"publicSlug"`
	Rejoined    bool                `json:"rejoined"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}
