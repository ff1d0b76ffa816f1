package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/activity-finder/internal/infra/config"
)

// ensureSession returns the caller's session id, issuing a new cookie when
// the request carries none or an unparseable one.
func ensureSession(c *gin.Context, cfg config.SessionConfig) string {
	if id, ok := readSession(c, cfg); ok {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, id, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure || c.Request.TLS != nil, true)
	return id
}

func readSession(c *gin.Context, cfg config.SessionConfig) (string, bool) {
	value, err := c.Cookie(cfg.CookieName)
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
