package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/middleware"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
	"github.com/techincepto/portal-backend/internal/validator"
)

// AdminAuthHandler handles admin login, logout and session checks.
type AdminAuthHandler struct {
	authService *service.AuthService
	cookies     *middleware.SessionCookies
	log         zerolog.Logger
}

// NewAdminAuthHandler creates a new AdminAuthHandler.
func NewAdminAuthHandler(authService *service.AuthService, cookies *middleware.SessionCookies, log zerolog.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		authService: authService,
		cookies:     cookies,
		log:         log.With().Str("component", "admin_auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/admin/login
// Validates username-or-email + password and sets the admin session cookie.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.authService.Login(c.Request.Context(), c.ClientIP(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyAttempts):
			h.log.Warn().Str("client_ip", c.ClientIP()).Msg("Admin login rate limited")
			response.Fail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		default:
			serverError(c, h.log, err, "Admin login failed")
		}
		return
	}

	if err := h.cookies.Attach(c, admin.Principal()); err != nil {
		serverError(c, h.log, err, "Failed to issue admin session")
		return
	}

	h.log.Info().Str("admin_id", admin.AdminID).Msg("Admin logged in")
	response.Success(c, http.StatusOK, admin.View())
}

// Logout godoc
// POST /api/admin/logout
// Clears the admin session cookie. Succeeds without a session.
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	response.SuccessMessage(c, http.StatusOK, "Logged out successfully")
}

// Session godoc
// GET /api/admin/session
// Returns fresh admin fields for the session cookie's principal.
func (h *AdminAuthHandler) Session(c *gin.Context) {
	p := middleware.GetAdmin(c)
	if p == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	admin, err := h.authService.CurrentAdmin(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAdminNotFound)
			return
		}
		serverError(c, h.log, err, "Admin session lookup failed")
		return
	}

	response.Success(c, http.StatusOK, admin.View())
}
