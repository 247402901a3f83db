package handler

import (
	"log/slog"
	"net/http"

	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the public results route under /api/tastings
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/:slug/results", h.Results)
}

// RegisterAdminRoutes registers live reports under /api/admin/tastings
func (h *ReportHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/:slug/report", h.AdminReport)
	router.GET("/:slug/ranking/weighted", h.WeightedRanking)
}

// Results is the participant-facing report; wine identity stays hidden
// until the tasting is revealed.
// GET /api/tastings/:slug/results
func (h *ReportHandler) Results(c *gin.Context) {
	view, err := h.reportService.Public(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, view)
}

// AdminReport is the unredacted live report
// GET /api/admin/tastings/:slug/report?strategy=rating_mean
func (h *ReportHandler) AdminReport(c *gin.Context) {
	strategy, err := report.ParseStrategy(c.Query("strategy"))
	if err != nil {
		badRequest(c, err)
		return
	}
	h.admin(c, strategy)
}

// WeightedRanking
// GET /api/admin/tastings/:slug/ranking/weighted
func (h *ReportHandler) WeightedRanking(c *gin.Context) {
	h.admin(c, report.StrategyWeightedCriteria)
}

func (h *ReportHandler) admin(c *gin.Context, strategy report.Strategy) {
	view, err := h.reportService.Admin(c.Request.Context(), c.Param("slug"), strategy)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, view)
}
