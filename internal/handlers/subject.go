package handlers

import (
	"net/http"

	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	subjectService *services.SubjectService
}

func NewSubjectHandler(subjectService *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// ListSubjects godoc
// @Summary      List subjects
// @Tags         subjects
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Subject
// @Router       /api/v1/subjects [get]
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.subjectService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// CreateSubject godoc
// @Summary      Create a subject
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.SubjectInput true "Subject data"
// @Success      201 {object} Subject
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/subjects [post]
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var input services.SubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	subject, err := h.subjectService.Create(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// UpdateSubject godoc
// @Summary      Update a subject
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subject ID"
// @Param        request body services.SubjectInput true "Subject data"
// @Success      200 {object} Subject
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/subjects/{id} [put]
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	subjectID, ok := pathID(c)
	if !ok {
		return
	}

	var input services.SubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	subject, err := h.subjectService.Update(subjectID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// DeleteSubject godoc
// @Summary      Delete a subject
// @Tags         subjects
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subject ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/subjects/{id} [delete]
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	subjectID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.subjectService.Delete(subjectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "subject deleted"})
}
