package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/response"
)

const (
	// ContextKeyIdentity is the Gin context key for the verified bearer token.
	ContextKeyIdentity = "identity"
)

// RequireIdentity validates an identity provider bearer token from the
// Authorization header.
func RequireIdentity(provider identity.Provider, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "identity_middleware").Logger()

	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		tok, err := provider.VerifyIDToken(c.Request.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrTokenExpired):
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			case errors.Is(err, identity.ErrTokenInvalid):
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			default:
				log.Error().Err(err).Str("path", c.FullPath()).Msg("Token verification failed")
				response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			}
			return
		}

		c.Set(ContextKeyIdentity, tok)
		c.Next()
	}
}

// RequireSubject rejects requests whose token subject differs from the path
// parameter param. Must run after RequireIdentity.
func RequireSubject(param string, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := GetIdentity(c)
		if tok == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if tok.UID != c.Param(param) {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the verified bearer token from the Gin context.
func GetIdentity(c *gin.Context) *identity.Token {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	tok, ok := val.(*identity.Token)
	if !ok {
		return nil
	}
	return tok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
