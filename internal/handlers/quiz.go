package handlers

import (
	"net/http"

	"github.com/SVIGHNESH/MacQuiz/internal/middleware"
	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService        *services.QuizService
	catalogService     *services.CatalogService
	eligibilityService *services.EligibilityService
}

func NewQuizHandler(quizService *services.QuizService, catalogService *services.CatalogService, eligibilityService *services.EligibilityService) *QuizHandler {
	return &QuizHandler{
		quizService:        quizService,
		catalogService:     catalogService,
		eligibilityService: eligibilityService,
	}
}

type AssignmentsRequest struct {
	StudentIDs []uint `json:"student_ids" binding:"required"`
}

// ListQuizzes godoc
// @Summary      List quizzes
// @Description  Staff see their quizzes (admins all); students see active quizzes assigned to them.
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Quiz
// @Router       /api/v1/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var err error
	var quizzes interface{}
	if caller.IsStaff() {
		quizzes, err = h.quizService.ListQuizzesForStaff(caller)
	} else {
		quizzes, err = h.quizService.ListQuizzesForStudent(caller.UserID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// CreateQuiz godoc
// @Summary      Create a quiz with questions
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.QuizInput true "Quiz definition"
// @Success      201 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var input services.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(middleware.GetCaller(c).UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary      Get a quiz
// @Description  Students get a sanitized view without correct answers.
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} Quiz
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := pathID(c)
	if !ok {
		return
	}
	caller := middleware.GetCaller(c)

	var err error
	var quiz interface{}
	if caller.IsStaff() {
		quiz, err = h.quizService.GetQuizForStaff(quizID, caller)
	} else {
		quiz, err = h.quizService.GetQuizForStudent(quizID, caller.UserID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz godoc
// @Summary      Update a quiz
// @Description  Question edits only take effect while the quiz has no attempts.
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body services.QuizInput true "Quiz definition"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := pathID(c)
	if !ok {
		return
	}

	var input services.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, middleware.GetCaller(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary      Delete a quiz
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(quizID, middleware.GetCaller(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "quiz deleted"})
}

// ReplaceAssignments godoc
// @Summary      Replace a quiz's student roster
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body AssignmentsRequest true "Student ids"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/assignments [put]
func (h *QuizHandler) ReplaceAssignments(c *gin.Context) {
	quizID, ok := pathID(c)
	if !ok {
		return
	}

	var req AssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.quizService.ReplaceAssignments(quizID, middleware.GetCaller(c), req.StudentIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "assignments updated"})
}

// Eligibility godoc
// @Summary      Pre-flight eligibility check
// @Description  Reports whether the caller could start or resume this quiz right now, with the effective duration they would get.
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} services.EligibilityResult
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/eligibility [get]
func (h *QuizHandler) Eligibility(c *gin.Context) {
	quizID, ok := pathID(c)
	if !ok {
		return
	}

	quiz, err := h.catalogService.GetQuiz(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.eligibilityService.Check(quiz, middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
