package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordCookie(t *testing.T, write func(c *gin.Context)) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	res := w.Result()
	defer func() { _ = res.Body.Close() }()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCookieSetUsesConfiguredTTL(t *testing.T) {
	m := NewCookie("example.com", true, 90*24*time.Hour)

	ck := recordCookie(t, func(c *gin.Context) { m.Set(c, "tok-123") })

	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, "tok-123", ck.Value)
	assert.Equal(t, int((90 * 24 * time.Hour).Seconds()), ck.MaxAge)
	assert.Equal(t, "example.com", ck.Domain)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
}

func TestCookieClearExpiresImmediately(t *testing.T) {
	m := NewCookie("", false, time.Hour)

	ck := recordCookie(t, func(c *gin.Context) { m.Clear(c) })

	assert.Equal(t, CookieName, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}
