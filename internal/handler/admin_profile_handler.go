package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
)

// AdminProfileHandler serves user profiles to admins.
type AdminProfileHandler struct {
	profileService *service.ProfileService
	log            zerolog.Logger
}

// NewAdminProfileHandler creates a new AdminProfileHandler.
func NewAdminProfileHandler(profileService *service.ProfileService, log zerolog.Logger) *AdminProfileHandler {
	return &AdminProfileHandler{
		profileService: profileService,
		log:            log.With().Str("component", "admin_profile_handler").Logger(),
	}
}

// List godoc
// GET /api/admin/profiles?search=&role=
func (h *AdminProfileHandler) List(c *gin.Context) {
	users, err := h.profileService.List(c.Request.Context(), service.ProfileFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		serverError(c, h.log, err, "Failed to list profiles")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"totalCount": len(users),
	})
}

// Get godoc
// GET /api/admin/profiles/:id
func (h *AdminProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		serverError(c, h.log, err, "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, profile)
}
