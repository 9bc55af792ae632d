package handlers

import (
	"errors"
	"net/http"

	"github.com/SVIGHNESH/MacQuiz/internal/models"
	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Quiz = models.Quiz
type Subject = models.Subject
type QuizAttempt = models.QuizAttempt
type User = models.User

// respondError maps a service error's kind onto an HTTP status. Anything
// that is not a *services.Error is treated as internal.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindInvalidState, services.KindValidation:
		status = http.StatusBadRequest
	case services.KindConfiguration, services.KindInternal:
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{Error: svcErr.Message})
}
