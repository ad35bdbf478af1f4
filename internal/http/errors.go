package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-service/internal/auth"
	"blog-service/internal/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// resolveError maps domain errors to a status code and a message that is
// safe to show to clients.
func resolveError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, domain.ErrDuplicateUsername.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, domain.ErrDuplicateEmail.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, auth.ErrTokenExpired.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, auth.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrAuthorNotFound):
		return http.StatusUnprocessableEntity, domain.ErrAuthorNotFound.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := resolveError(err)
	if status >= http.StatusInternalServerError {
		entry := h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) && storeErr.Err != nil {
			entry = entry.WithField("cause", storeErr.Err.Error())
		}
		entry.WithError(err).Error("unhandled error")
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func (h *Handler) respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: bindingMessage(err)})
}
