package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/auction-watch/internal/account"
	"github.com/rickgao/auction-watch/internal/api"
)

// JSONResponse sends a structured JSON response.
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response.
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// MapErrorToHTTP maps account and marketplace errors to an HTTP status and
// message.
func MapErrorToHTTP(err error) (int, string) {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, account.ErrUnknownAccount):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, account.ErrUnknownSearch):
		return http.StatusNotFound, "search not found"
	case errors.Is(err, account.ErrUnknownDomain):
		return http.StatusNotFound, "unknown domain"
	case errors.Is(err, account.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "marketplace request timed out"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "marketplace request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// handleBindError sends a standardized JSON error for binding failures.
func handleBindError(c *gin.Context, logger *slog.Logger, service string, err error) {
	wrapped := fmt.Errorf("invalid request payload: %w", err)
	JSONError(c, http.StatusBadRequest, wrapped, "invalid request payload")
	logger.Warn("binding error", "service", service, "err", err)
}

// respondError maps err and logs it at a level matching the status.
func respondError(c *gin.Context, logger *slog.Logger, service string, err error) {
	status, message := MapErrorToHTTP(err)
	JSONError(c, status, err, message)

	if status >= http.StatusInternalServerError {
		logger.Error("service failed", "service", service, "status", status, "err", err)
	} else {
		logger.Info("service rejected", "service", service, "status", status, "err", err)
	}
}
