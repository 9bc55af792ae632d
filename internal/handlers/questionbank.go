package handlers

import (
	"net/http"
	"strconv"

	"github.com/SVIGHNESH/MacQuiz/internal/middleware"
	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionBankHandler struct {
	bankService *services.QuestionBankService
}

func NewQuestionBankHandler(bankService *services.QuestionBankService) *QuestionBankHandler {
	return &QuestionBankHandler{bankService: bankService}
}

// ListBankQuestions godoc
// @Summary      List question bank items
// @Tags         question-bank
// @Produce      json
// @Security     BearerAuth
// @Param        subject_id query int false "Filter by subject"
// @Success      200 {array} services.QuestionBankInput
// @Router       /api/v1/question-bank [get]
func (h *QuestionBankHandler) ListBankQuestions(c *gin.Context) {
	var subjectID *uint
	if v := c.Query("subject_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subject_id"})
			return
		}
		sid := uint(id)
		subjectID = &sid
	}

	items, err := h.bankService.List(subjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateBankQuestion godoc
// @Summary      Add a question to the bank
// @Tags         question-bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.QuestionBankInput true "Question data"
// @Success      201 {object} services.QuestionBankInput
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/question-bank [post]
func (h *QuestionBankHandler) CreateBankQuestion(c *gin.Context) {
	var input services.QuestionBankInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	item, err := h.bankService.Create(middleware.GetCaller(c).UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteBankQuestion godoc
// @Summary      Remove a question from the bank
// @Tags         question-bank
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/question-bank/{id} [delete]
func (h *QuestionBankHandler) DeleteBankQuestion(c *gin.Context) {
	questionID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.bankService.Delete(questionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
