package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
)

// ErrorBody is the failure envelope returned by every endpoint.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// OK writes a 200 response with the endpoint-shaped payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Fail writes the failure envelope, mapping the error classification to an
// HTTP status (ValidationError 400, NotFoundError 404, everything else 500).
func Fail(c *gin.Context, err error) {
	errType := apperrors.TypeOf(err)
	c.JSON(apperrors.HTTPStatus(errType), ErrorBody{
		Success:   false,
		Error:     apperrors.MessageOf(err),
		ErrorType: string(errType),
	})
}

// FailWith writes the failure envelope with an explicit status and type.
func FailWith(c *gin.Context, status int, message string, errType apperrors.Type) {
	c.JSON(status, ErrorBody{
		Success:   false,
		Error:     message,
		ErrorType: string(errType),
	})
}
