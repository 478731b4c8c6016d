package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie mirroring the bearer token for browser clients.
const CookieName = "jwt"

// Manager writes and clears the jwt cookie. The cookie is always http-only;
// Secure is flipped on in production config. TTL controls the cookie
// lifetime independently of the token's own expiry.
type Manager struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

func NewCookie(domain string, secure bool, ttl time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, TTL: ttl}
}

// Set stores the token in an http-only cookie living for the manager's TTL.
func (m *Manager) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, m.maxAge(), "/", m.Domain, m.Secure, true)
}

// Clear drops the cookie.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *Manager) maxAge() int {
	sec := int(m.TTL.Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
