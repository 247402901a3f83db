package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/handler"
	"blindtasting/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAdminHandler_IssueToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := new(MockAdminService)
	mockService.On("Authenticate", "s3cret").Return(nil)
	mockService.On("Authenticate", "wrong").Return(errors.New("invalid admin credential"))
	mockService.On("IssueToken").Return(&dto.AdminTokenResponse{
		Token: "jwt", TokenType: "Bearer", ExpiresAt: time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC),
	}, nil)

	r := gin.New()
	h := handler.NewAdminHandler(mockService, discardLogger())
	h.RegisterRoutes(r.Group("/api/admin", middleware.RequireAdmin(mockService)))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/token", nil)
	req.Header.Set(middleware.AdminSecretHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"jwt","tokenType":"Bearer","expiresAt":"2026-03-01T19:00:00Z"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/admin/token", nil)
	req.Header.Set(middleware.AdminSecretHeader, "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNumberOfCalls(t, "IssueToken", 1)
}
