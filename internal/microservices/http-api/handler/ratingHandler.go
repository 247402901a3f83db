package handler

import (
	"log/slog"
	"net/http"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/middleware"
	"blindtasting/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
	logger        *slog.Logger
}

func NewRatingHandler(ratingService service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

// RegisterRoutes registers rating routes under /api/tastings; all of them
// need a participant session.
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, session gin.HandlerFunc) {
	ratings := router.Group("/:slug/ratings", session)
	{
		ratings.PUT("", h.Submit)
		ratings.GET("/me", h.ListMine)
	}
}

// Submit creates or merges the participant's rating of one wine
// PUT /api/tastings/:slug/ratings
func (h *RatingHandler) Submit(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "join the tasting first"})
		return
	}

	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rating, err := h.ratingService.Submit(c.Request.Context(), sess, c.Param("slug"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// ListMine returns the participant's own ratings
// GET /api/tastings/:slug/ratings/me
func (h *RatingHandler) ListMine(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "join the tasting first"})
		return
	}

	ratings, err := h.ratingService.ListMine(c.Request.Context(), sess, c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}
