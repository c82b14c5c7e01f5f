// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"county_lookup/platform/apperr"

	"github.com/gin-gonic/gin"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	msgInternal     = "internal server error"
)

// ErrorResponse is the standard error response format. Message carries the
// provider's explanation for upstream failures and is omitted otherwise.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RawJSON writes an already encoded JSON document without re-marshalling it.
func RawJSON(c *gin.Context, status int, body []byte) {
	c.Data(status, jsonContentType, body)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses and aborts the chain.
// If the error carries a typed *apperr.Error, its Kind determines the HTTP
// status code. Anything else becomes a generic 500 so that no raw error text
// reaches the client. The original error is attached to the gin context for
// RequestLogger.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		domainErr = apperr.Internal(msgInternal)
	}

	c.AbortWithStatusJSON(domainErr.HTTPStatus(), ErrorResponse{
		Error:   domainErr.Message,
		Message: domainErr.Details,
	})
	return true
}
