package handler

import (
	"log/slog"
	"net/http"

	"blindtasting/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

func NewAdminHandler(adminService service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers admin session routes under /api/admin
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/token", h.IssueToken)
}

// IssueToken exchanges an admin credential for a short-lived bearer token
// POST /api/admin/token
func (h *AdminHandler) IssueToken(c *gin.Context) {
	token, err := h.adminService.IssueToken()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
