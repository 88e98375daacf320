package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/response"
)

// serverError logs err with the route and answers with a generic 500.
func serverError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Str("request_id", response.RequestID(c)).
		Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
