package dto

import "time"

// AdminTokenResponse carries a short-lived admin bearer token
type AdminTokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
