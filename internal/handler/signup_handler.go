package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/response"
	"github.com/techincepto/portal-backend/internal/service"
	"github.com/techincepto/portal-backend/internal/validator"
)

// SignupHandler handles student self-registration.
type SignupHandler struct {
	userService *service.UserService
	log         zerolog.Logger
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(userService *service.UserService, log zerolog.Logger) *SignupHandler {
	return &SignupHandler{
		userService: userService,
		log:         log.With().Str("component", "signup_handler").Logger(),
	}
}

// Signup godoc
// POST /api/auth/signup
// Creates the identity account and the student record, then sends a verification link.
func (h *SignupHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.Fail(c, http.StatusBadRequest, response.ErrUsernameTaken)
		case errors.Is(err, service.ErrEmailRegistered):
			response.Fail(c, http.StatusBadRequest, response.ErrEmailRegistered)
		default:
			serverError(c, h.log, err, "Signup failed")
		}
		return
	}

	h.log.Info().Str("uid", res.UID).Msg("Student signed up")
	response.Success(c, http.StatusOK, res)
}
