package handler

import (
	"log/slog"
	"net/http"
	"path"
	"time"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/middleware"
	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participantService service.ParticipantService
	cookieSecure       bool
	cookieBase         string
	logger             *slog.Logger
}

func NewParticipantHandler(participantService service.ParticipantService, cookieSecure bool, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		cookieSecure:       cookieSecure,
		logger:             logger,
	}
}

// RegisterRoutes registers join and me under /api/tastings. joinGuard runs
// before Join, session before Me. Session cookies are scoped below the
// group's base path, one per tasting.
func (h *ParticipantHandler) RegisterRoutes(router *gin.RouterGroup, joinGuard, session gin.HandlerFunc) {
	h.cookieBase = router.BasePath()
	router.POST("/:slug/join", joinGuard, h.Join)
	router.GET("/:slug/me", session, h.Me)
}

// Join checks the PIN and sets the session cookie
// POST /api/tastings/:slug/join
func (h *ParticipantHandler) Join(c *gin.Context) {
	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.participantService.Join(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	maxAge := int(time.Until(res.Response.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, res.Token, maxAge, h.cookiePath(c.Param("slug")), "", h.cookieSecure, true)

	status := http.StatusCreated
	if res.Response.Rejoined {
		status = http.StatusOK
	}
	c.JSON(status, res.Response)
}

// Me returns the participant behind the session cookie
// GET /api/tastings/:slug/me
func (h *ParticipantHandler) Me(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "join the tasting first"})
		return
	}

	resp, err := h.participantService.Me(c.Request.Context(), sess, c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// cookiePath keeps a session visible only to its own tasting's routes, so
// joining a second tasting does not replace the first session.
func (h *ParticipantHandler) cookiePath(slug string) string {
	return path.Join("/", h.cookieBase, slug)
}
