package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

// ErrorResponse is the JSON envelope for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error response. AppErrors decide their own status code;
// anything else becomes a 500 with a generic message.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
