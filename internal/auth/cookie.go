package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "token"

// CookiePolicy is the single place the session cookie attributes are defined.
// The cookie is always http-only; Secure and SameSite follow the deployment
// topology via config.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, policy CookiePolicy) {
	c.SetSameSite(policy.SameSite)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", policy.Secure, true)
}

func ClearSessionCookie(c *gin.Context, policy CookiePolicy) {
	c.SetSameSite(policy.SameSite)
	c.SetCookie(SessionCookieName, "", -1, "/", "", policy.Secure, true)
}
