package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// failWithError maps a service or repository error onto the response envelope.
// Unrecognised errors are logged and reported as INTERNAL_ERROR.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateEmail)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccountInactive):
		response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	case errors.Is(err, service.ErrInvalidMessage), errors.Is(err, service.ErrMissingCredentials):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"request": err.Error()})
	case errors.Is(err, service.ErrPasswordTooLong):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"password": err.Error()})
	case errors.Is(err, repository.ErrStoreUnavailable):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Store unavailable")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
