package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
)

const (
	// SessionCookieName is the admin session cookie.
	SessionCookieName = "admin_session"

	// ContextKeyAdmin is the Gin context key for the verified admin principal.
	ContextKeyAdmin = "admin"
)

// SessionCookies issues, clears and reads the admin session cookie.
type SessionCookies struct {
	codec  *service.SessionCodec
	secure bool
}

// NewSessionCookies creates a cookie manager. secure marks cookies Secure (production).
func NewSessionCookies(codec *service.SessionCodec, secure bool) *SessionCookies {
	return &SessionCookies{codec: codec, secure: secure}
}

// Attach issues a token for p and sets it on the response.
func (m *SessionCookies) Attach(c *gin.Context, p model.AdminPrincipal) error {
	token, err := m.codec.Issue(p)
	if err != nil {
		return err
	}
	m.set(c, token, int(m.codec.TTL().Seconds()))
	return nil
}

// Clear overwrites the cookie with an empty, immediately expiring value.
func (m *SessionCookies) Clear(c *gin.Context) {
	m.set(c, "", -1)
}

// Extract returns the cookie value, or "" when absent.
func (m *SessionCookies) Extract(c *gin.Context) string {
	v, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return v
}

// Verify extracts and verifies the session token.
func (m *SessionCookies) Verify(c *gin.Context) (*model.AdminPrincipal, error) {
	token := m.Extract(c)
	if token == "" {
		return nil, service.ErrTokenMalformed
	}
	return m.codec.Verify(token)
}

func (m *SessionCookies) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", m.secure, true)
}

// RequireAdminSession rejects requests without a valid admin session cookie.
// code is the 401 error code reported to the client.
func RequireAdminSession(m *SessionCookies, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := m.Verify(c)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				m.Clear(c)
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}
		if p.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}

		c.Set(ContextKeyAdmin, p)
		c.Next()
	}
}

// GetAdmin retrieves the admin principal from the Gin context.
func GetAdmin(c *gin.Context) *model.AdminPrincipal {
	val, exists := c.Get(ContextKeyAdmin)
	if !exists {
		return nil
	}
	p, ok := val.(*model.AdminPrincipal)
	if !ok {
		return nil
	}
	return p
}
