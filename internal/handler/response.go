package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/careops/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps the application error taxonomy onto HTTP statuses and
// writes the error envelope. Internal errors are not leaked verbatim.
func RespondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrInvalidTransition, apperrors.ErrConflict:
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
		_ = c.Error(err)
	}
	c.JSON(status, NewErrorResponse(message))
}

// Subject returns the opaque subject id the auth middleware resolved for
// this request, or "" when the caller is unauthenticated.
func Subject(c *gin.Context) string {
	return c.GetString("subject")
}
