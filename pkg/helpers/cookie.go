package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie    = "jwt"
	loggedOutValue = "loggedout"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetToken stores the session token in an HttpOnly cookie expiring with the token.
func (m *Manager) SetToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// Clear overwrites the token cookie with a short-lived placeholder.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, loggedOutValue, 10, "/", m.Domain, m.Secure, true)
}

// IsLoggedOut reports whether v is the placeholder written by Clear.
func IsLoggedOut(v string) bool { return v == loggedOutValue }

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
