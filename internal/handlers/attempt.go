package handlers

import (
	"net/http"
	"strconv"

	"github.com/SVIGHNESH/MacQuiz/internal/middleware"
	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService   *services.AttemptService
	reportingService *services.ReportingService
}

func NewAttemptHandler(attemptService *services.AttemptService, reportingService *services.ReportingService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, reportingService: reportingService}
}

type StartAttemptRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type SubmitAttemptRequest struct {
	Answers []services.SubmittedAnswer `json:"answers"`
}

type SaveAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text"`
}

// Start godoc
// @Summary      Start or resume an attempt
// @Description  Creates a new attempt when eligibility passes, or returns the caller's in-progress attempt unchanged. Staff always get a fresh preview.
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body StartAttemptRequest true "Quiz to attempt"
// @Success      200 {object} QuizAttempt
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/start [post]
func (h *AttemptHandler) Start(c *gin.Context) {
	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attempt, err := h.attemptService.Start(req.QuizID, middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// Submit godoc
// @Summary      Submit and grade an attempt
// @Description  Finalizes the attempt exactly once. Autosaved answers are discarded and replaced with graded rows from this payload; an empty payload completes with score zero.
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        attempt_id query int true "Attempt ID"
// @Param        request body SubmitAttemptRequest true "Final answers"
// @Success      200 {object} QuizAttempt
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/submit [post]
func (h *AttemptHandler) Submit(c *gin.Context) {
	attemptID, err := strconv.ParseUint(c.Query("attempt_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid attempt_id"})
		return
	}

	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attempt, err := h.attemptService.Submit(uint(attemptID), middleware.GetCaller(c), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// SaveAnswer godoc
// @Summary      Autosave one answer
// @Description  Upserts a provisional, ungraded answer keyed by (attempt, question).
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Param        request body SaveAnswerRequest true "Answer"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/save-answer [post]
func (h *AttemptHandler) SaveAnswer(c *gin.Context) {
	attemptID, ok := pathID(c)
	if !ok {
		return
	}

	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	err := h.attemptService.SaveAnswer(attemptID, middleware.GetCaller(c), req.QuestionID, req.AnswerText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "answer saved"})
}

// GetAnswers godoc
// @Summary      Restore autosaved answers
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {array} services.SubmittedAnswer
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/answers [get]
func (h *AttemptHandler) GetAnswers(c *gin.Context) {
	attemptID, ok := pathID(c)
	if !ok {
		return
	}

	answers, err := h.attemptService.GetAnswers(attemptID, middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}

// RemainingTime godoc
// @Summary      Remaining time for an attempt
// @Description  Seconds until the attempt's deadline; unlimited for untimed quizzes. Live sessions share one deadline for every participant.
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.RemainingTimeResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/remaining-time [get]
func (h *AttemptHandler) RemainingTime(c *gin.Context) {
	attemptID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.attemptService.RemainingTime(attemptID, middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAttempt godoc
// @Summary      Fetch one attempt with derived fields
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.AttemptDetail
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.reportingService.GetAttemptDetail(attemptID, middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// MyAttempts godoc
// @Summary      List own attempts
// @Description  Completed attempts by default; pass include_in_progress=true to also see resumable ones.
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        include_in_progress query bool false "Include in-progress attempts"
// @Success      200 {array} services.AttemptSummary
// @Router       /api/v1/attempts/my-attempts [get]
func (h *AttemptHandler) MyAttempts(c *gin.Context) {
	caller := middleware.GetCaller(c)
	includeInProgress := c.Query("include_in_progress") == "true"

	attempts, err := h.reportingService.MyAttempts(caller.UserID, includeInProgress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

// AllAttempts godoc
// @Summary      List attempts across students
// @Description  Staff only. Teachers are scoped to quizzes they created. Status is derived, including expired for in-progress attempts past deadline.
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        quiz_id query int false "Filter by quiz"
// @Param        student_id query int false "Filter by student"
// @Param        completed query bool false "Filter by completion"
// @Success      200 {array} services.AttemptSummary
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/attempts/all-attempts [get]
func (h *AttemptHandler) AllAttempts(c *gin.Context) {
	var filter services.AttemptFilter
	if v := c.Query("quiz_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz_id"})
			return
		}
		quizID := uint(id)
		filter.QuizID = &quizID
	}
	if v := c.Query("student_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
			return
		}
		studentID := uint(id)
		filter.StudentID = &studentID
	}
	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	attempts, err := h.reportingService.AllAttempts(middleware.GetCaller(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}
