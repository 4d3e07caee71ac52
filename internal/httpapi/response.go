package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse is the JSON envelope for every non-2xx response,
// adapted from utils/errors.go's ErrorResponse.
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Error: message, Code: status})
}

func badRequest(c *gin.Context, message string) { respondError(c, http.StatusBadRequest, message) }
func notFound(c *gin.Context, message string)   { respondError(c, http.StatusNotFound, message) }
