package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &services.Error{Kind: services.KindNotFound, Message: "quiz not found"}, http.StatusNotFound},
		{"forbidden", &services.Error{Kind: services.KindForbidden, Message: "not assigned"}, http.StatusForbidden},
		{"invalid state", &services.Error{Kind: services.KindInvalidState, Message: "already submitted"}, http.StatusBadRequest},
		{"validation", &services.Error{Kind: services.KindValidation, Message: "missing field"}, http.StatusBadRequest},
		{"configuration", &services.Error{Kind: services.KindConfiguration, Message: "live session missing window"}, http.StatusInternalServerError},
		{"internal", &services.Error{Kind: services.KindInternal, Message: "db down"}, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tc.err)

			if rec.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, rec.Code)
			}
		})
	}
}
