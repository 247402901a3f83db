package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TastingHandler struct {
	tastingService service.TastingService
	logger         *slog.Logger
}

func NewTastingHandler(tastingService service.TastingService, logger *slog.Logger) *TastingHandler {
	registerValidators()
	return &TastingHandler{
		tastingService: tastingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public tasting route under /api/tastings
func (h *TastingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/:slug", h.Get)
}

// RegisterAdminRoutes registers tasting management under /api/admin/tastings
func (h *TastingHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("", h.Create)
	router.GET("", h.List)
	router.GET("/:slug", h.AdminGet)
	router.PATCH("/:slug/status", h.SetStatus)
	router.PUT("/:slug/wines/:blindNumber", h.UpdateWine)
	router.POST("/:slug/criteria", h.AddCriterion)
	router.GET("/:slug/participants", h.ListParticipants)
}

// Get returns tasting info with wine identity hidden until the reveal
// GET /api/tastings/:slug
func (h *TastingHandler) Get(c *gin.Context) {
	resp, err := h.tastingService.PublicView(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create creates a tasting with its criteria and wine slots
// POST /api/admin/tastings
func (h *TastingHandler) Create(c *gin.Context) {
	var req dto.CreateTastingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.tastingService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns tastings, newest first
// GET /api/admin/tastings?page=1&page_size=20
func (h *TastingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.tastingService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminGet returns the unredacted tasting
// GET /api/admin/tastings/:slug
func (h *TastingHandler) AdminGet(c *gin.Context) {
	resp, err := h.tastingService.AdminView(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetStatus moves the tasting to any status
// PATCH /api/admin/tastings/:slug/status
func (h *TastingHandler) SetStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.tastingService.SetStatus(c.Request.Context(), c.Param("slug"), req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateWine patches identity and activity of one wine slot
// PUT /api/admin/tastings/:slug/wines/:blindNumber
func (h *TastingHandler) UpdateWine(c *gin.Context) {
	blindNumber, err := strconv.Atoi(c.Param("blindNumber"))
	if err != nil || blindNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blind number"})
		return
	}

	var req dto.UpdateWineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.tastingService.UpdateWine(c.Request.Context(), c.Param("slug"), blindNumber, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddCriterion appends a scoring criterion
// POST /api/admin/tastings/:slug/criteria
func (h *TastingHandler) AddCriterion(c *gin.Context) {
	var req dto.CriterionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.tastingService.AddCriterion(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListParticipants
// GET /api/admin/tastings/:slug/participants
func (h *TastingHandler) ListParticipants(c *gin.Context) {
	resp, err := h.tastingService.ListParticipants(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": resp})
}
