package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/careops/clinic-api/pkg/errors"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", apperrors.Unauthenticated(nil), http.StatusUnauthorized},
		{"forbidden", apperrors.Forbidden("", nil), http.StatusForbidden},
		{"not found", apperrors.NotFound("doctor", nil), http.StatusNotFound},
		{"validation", apperrors.Validation("bad input", nil), http.StatusBadRequest},
		{"invalid transition", apperrors.InvalidTransition("not pending", nil), http.StatusConflict},
		{"conflict", apperrors.Conflict("stale revision", nil), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "internal server error")
}
