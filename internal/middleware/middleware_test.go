package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionCookies_AttachAndClear(t *testing.T) {
	codec := service.NewSessionCodec("secret", 2*time.Hour)
	m := NewSessionCookies(codec, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, m.Attach(c, model.AdminPrincipal{AdminID: "a1", Role: model.RoleAdmin, Username: "root"}))

	ck := findCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, 7200, ck.MaxAge)
	assert.Equal(t, "/", ck.Path)

	p, err := codec.Verify(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "root", p.Username)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.Clear(c)
	ck = findCookie(rec)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.True(t, ck.MaxAge < 0)
}

func newAdminRouter(m *SessionCookies) *gin.Engine {
	r := gin.New()
	r.GET("/admin", RequireAdminSession(m, response.ErrAdminAuthRequired), func(c *gin.Context) {
		c.String(http.StatusOK, GetAdmin(c).Username)
	})
	return r
}

func TestRequireAdminSession(t *testing.T) {
	codec := service.NewSessionCodec("secret", time.Hour)
	m := NewSessionCookies(codec, false)
	r := newAdminRouter(m)

	admin, err := codec.Issue(model.AdminPrincipal{AdminID: "a1", Role: model.RoleAdmin, Username: "root"})
	require.NoError(t, err)
	student, err := codec.Issue(model.AdminPrincipal{AdminID: "a2", Role: model.RoleStudent, Username: "kid"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"garbage", "not-a-token", http.StatusUnauthorized},
		{"wrong role", student, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "root", rec.Body.String())
			}
		})
	}
}

type stubProvider struct {
	identity.Provider
	tokens map[string]error
}

func (s stubProvider) VerifyIDToken(_ context.Context, tok string) (*identity.Token, error) {
	err, ok := s.tokens[tok]
	if !ok {
		return nil, identity.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return &identity.Token{UID: tok}, nil
}

func TestRequireIdentityAndSubject(t *testing.T) {
	p := stubProvider{tokens: map[string]error{
		"u1":      nil,
		"expired": identity.ErrTokenExpired,
		"broken":  context.DeadlineExceeded,
	}}
	r := gin.New()
	r.GET("/users/:id", RequireIdentity(p, zerolog.Nop()), RequireSubject("id", response.ErrForbidden), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		path   string
		want   int
	}{
		{"missing header", "", "/users/u1", http.StatusUnauthorized},
		{"not bearer", "Basic abc", "/users/u1", http.StatusUnauthorized},
		{"invalid", "Bearer nope", "/users/u1", http.StatusUnauthorized},
		{"expired", "Bearer expired", "/users/u1", http.StatusUnauthorized},
		{"provider failure", "Bearer broken", "/users/u1", http.StatusInternalServerError},
		{"subject mismatch", "Bearer u1", "/users/u2", http.StatusForbidden},
		{"match", "bearer u1", "/users/u1", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/a", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", CacheControl(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/b", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func brotliRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(Brotli())
	r.GET("/data", func(c *gin.Context) { c.String(http.StatusOK, body) })
	return r
}

func TestBrotli_CompressesLargeBodies(t *testing.T) {
	body := strings.Repeat(`{"title":"Web Development"},`, 100)
	r := brotliRouter(body)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
	assert.Less(t, rec.Body.Len(), len(body))

	plain, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestBrotli_PassesThrough(t *testing.T) {
	large := strings.Repeat("x", 4096)

	tests := []struct {
		name    string
		body    string
		headers map[string]string
	}{
		{"small body", "ok", map[string]string{"Accept-Encoding": "br"}},
		{"client without br", large, map[string]string{"Accept-Encoding": "gzip"}},
		{"websocket upgrade", large, map[string]string{"Accept-Encoding": "br", "Connection": "Upgrade", "Upgrade": "websocket"}},
		{"event stream", large, map[string]string{"Accept-Encoding": "br", "Accept": "text/event-stream"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/data", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			brotliRouter(tt.body).ServeHTTP(rec, req)

			assert.Empty(t, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
