package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/middleware"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
	"github.com/techincepto/portal-backend/internal/validator"
)

// AnnouncementHandler handles announcements and reactions.
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	log                 zerolog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(announcementService *service.AnnouncementService, log zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		log:                 log.With().Str("component", "announcement_handler").Logger(),
	}
}

// List godoc
// GET /api/announcements?limit=20
// Returns recent announcements, newest first. limit is clamped to [1, 100].
func (h *AnnouncementHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.announcementService.List(c.Request.Context(), limit)
	if err != nil {
		serverError(c, h.log, err, "Failed to list announcements")
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Get godoc
// GET /api/announcements/:id
func (h *AnnouncementHandler) Get(c *gin.Context) {
	a, err := h.announcementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load announcement")
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Create godoc
// POST /api/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	admin := middleware.GetAdmin(c)
	if admin == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrAdminAuthRequired)
		return
	}

	var req model.CreateAnnouncementRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	a, err := h.announcementService.Create(c.Request.Context(), admin.AdminID, &req)
	if err != nil {
		serverError(c, h.log, err, "Failed to create announcement")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, gin.H{"id": a.ID}, "Announcement created successfully")
}

// Update godoc
// PUT /api/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req model.UpdateAnnouncementRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.announcementService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.fail(c, err, "Failed to update announcement")
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Announcement updated successfully")
}

// Delete godoc
// DELETE /api/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcementService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete announcement")
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Announcement deleted successfully")
}

// AddReaction godoc
// POST /api/announcements/:id/reactions
// Records an emoji reaction by the bearer token's user.
func (h *AnnouncementHandler) AddReaction(c *gin.Context) {
	tok := middleware.GetIdentity(c)
	if tok == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ReactionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	re, created, err := h.announcementService.AddReaction(c.Request.Context(), c.Param("id"), tok.UID, req.Emoji)
	if err != nil {
		h.fail(c, err, "Failed to add reaction")
		return
	}

	msg := "Reaction added successfully"
	if !created {
		msg = "Reaction already exists"
	}
	response.SuccessWithMessage(c, http.StatusOK, re, msg)
}

// ListReactions godoc
// GET /api/announcements/:id/reactions
func (h *AnnouncementHandler) ListReactions(c *gin.Context) {
	list, err := h.announcementService.ListReactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to list reactions")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *AnnouncementHandler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, service.ErrAnnouncementNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrAnnouncementNotFound)
		return
	}
	serverError(c, h.log, err, msg)
}
