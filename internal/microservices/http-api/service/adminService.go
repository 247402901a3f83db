package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	"blindtasting/internal/config"
	"blindtasting/internal/microservices/http-api/dto"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminSubject = "admin"
	adminIssuer  = "blindtasting"
)

var ErrInvalidAdminCredential = errors.New("invalid admin credential")

type AdminService interface {
	// Authenticate accepts the shared admin secret or an admin token issued
	// by IssueToken.
	Authenticate(credential string) error
	IssueToken() (*dto.AdminTokenResponse, error)
}

type adminService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAdminService(cfg *config.Config) AdminService {
	return &adminService{
		secret:   []byte(cfg.AdminSecret),
		tokenTTL: cfg.AdminTokenTTL,
		now:      time.Now,
	}
}

func (s *adminService) Authenticate(credential string) error {
	if credential == "" || len(s.secret) == 0 {
		return ErrInvalidAdminCredential
	}
	if secretMatches(s.secret, []byte(credential)) {
		return nil
	}
	if _, err := s.validateToken(credential); err != nil {
		return ErrInvalidAdminCredential
	}
	return nil
}

// secretMatches compares digests so the comparison time does not depend on
// the length or content of the candidate.
func secretMatches(secret, candidate []byte) bool {
	want := sha256.Sum256(secret)
	got := sha256.Sum256(candidate)
	return hmac.Equal(want[:], got[:])
}

func (s *adminService) IssueToken() (*dto.AdminTokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    adminIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &dto.AdminTokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

func (s *adminService) validateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(adminIssuer), jwt.WithSubject(adminSubject), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
