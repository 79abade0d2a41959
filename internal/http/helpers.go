package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/remote"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs err and hides it from the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// respondRemoteError maps a failure of the remote API onto a response.
// Client errors keep their status and field errors, transient remote
// failures are a bad gateway and local failures an internal error.
func respondRemoteError(c *gin.Context, err error) {
	var authErr *remote.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: authErr.Error(), Code: "remote_unauthorized"})
		return
	}

	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		resp := ErrorResponse{Error: apiErr.Detail, Code: apiErr.Code}
		if apiErr.HasFieldErrors() {
			resp.Details = apiErr.Fields
		}
		c.JSON(apiErr.StatusCode, resp)
		return
	}

	if !remote.Retryable(err) {
		respondInternalError(c, err, "sync")
		return
	}

	log.Printf("Remote error: %v", err)
	c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "remote_unavailable"})
}

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters, or
// responds with 400 and returns false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit and offset query parameters.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondBadRequest(c, "invalid limit")
			return 0, 0, false
		}
		limit = min(n, maxLimit)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondBadRequest(c, "invalid offset")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
