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

// UserHandler handles end-user actions authenticated by bearer token.
// Routes with an :id parameter run behind middleware.RequireSubject.
type UserHandler struct {
	userService *service.UserService
	log         zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.With().Str("component", "user_handler").Logger(),
	}
}

// Enroll godoc
// POST /api/users/:id/enroll
// Adds the course to the user's enrolled set. Re-enrolling succeeds without change.
func (h *UserHandler) Enroll(c *gin.Context) {
	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	brief, err := h.userService.Enroll(c.Request.Context(), c.Param("id"), req.CourseID)
	if err != nil {
		h.fail(c, err, "Enrollment failed")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, gin.H{"course": brief}, "Successfully enrolled in course")
}

// EnrollmentStatus godoc
// GET /api/users/:id/enrollment/:courseId
func (h *UserHandler) EnrollmentStatus(c *gin.Context) {
	userID, courseID := c.Param("id"), c.Param("courseId")

	enrolled, err := h.userService.IsEnrolled(c.Request.Context(), userID, courseID)
	if err != nil {
		h.fail(c, err, "Enrollment check failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"enrolled": enrolled,
		"courseId": courseID,
		"userId":   userID,
	})
}

// UpdateProfile godoc
// POST /api/users/:id/update
// Applies a partial profile update.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err, "Profile update failed")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, user, "Profile updated successfully")
}

// UpdateActivity godoc
// POST /api/users/update-activity
// Refreshes lastActive for the bearer token's user.
func (h *UserHandler) UpdateActivity(c *gin.Context) {
	tok := middleware.GetIdentity(c)
	if tok == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.userService.TouchActivity(c.Request.Context(), tok.UID); err != nil {
		h.fail(c, err, "Activity update failed")
		return
	}
	response.SuccessMessage(c, http.StatusOK, "User activity updated successfully")
}

func (h *UserHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
	case errors.Is(err, service.ErrNoUpdateFields):
		response.Fail(c, http.StatusBadRequest, response.ErrNoUpdateData)
	default:
		serverError(c, h.log, err, msg)
	}
}
