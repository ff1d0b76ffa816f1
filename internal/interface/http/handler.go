package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/activity-finder/internal/domain/activity"
	"github.com/yanqian/activity-finder/internal/infra/config"
)

// Handler wires the HTTP transport to the activity service.
type Handler struct {
	svc     activity.Service
	session config.SessionConfig
	mapsKey string
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, svc activity.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		session: cfg.HTTP.Session,
		mapsKey: cfg.Location.MapsAPIKey,
		logger:  logger.With("component", "http.handler"),
	}
}

// GetWeather fetches the weather for the posted coordinates and serves the
// first batch of open activities.
func (h *Handler) GetWeather(c *gin.Context) {
	sessionID := ensureSession(c, h.session)

	var req activity.Coordinates
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid JSON", err))
		return
	}

	resp, err := h.svc.Start(c.Request.Context(), sessionID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// NewSuggestion replaces a dismissed activity with a fresh one.
func (h *Handler) NewSuggestion(c *gin.Context) {
	sessionID, ok := readSession(c, h.session)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "missing_session", "no weather context for this session", nil))
		return
	}

	var req activity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid JSON", err))
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), sessionID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Location renders the page that asks the browser for its position.
func (h *Handler) Location(c *gin.Context) {
	c.HTML(http.StatusOK, "location.html", gin.H{"MapsAPIKey": h.mapsKey})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
