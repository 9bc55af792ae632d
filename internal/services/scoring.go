package services

import (
	"strings"

	"github.com/SVIGHNESH/MacQuiz/internal/models"
)

// SubmittedAnswer is one entry of a submit payload.
type SubmittedAnswer struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text"`
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Grade evaluates a submission against a quiz's questions. Submitted
// answers whose question no longer exists are skipped, and duplicate
// entries for one question collapse to the last one in the payload, so at
// most one answer row comes out per question. Returns the graded answer
// rows (attempt id unset), the floored total score, and the percentage
// against totalMarks.
//
// A correct answer earns the question's own marks value; marks_per_correct
// is not applied. A wrong answer costs the quiz's negative_marking, if any.
func (s *ScoringService) Grade(quiz *models.Quiz, questions []models.Question, submitted []SubmittedAnswer, totalMarks float64) ([]models.Answer, float64, float64) {
	latest := make(map[uint]SubmittedAnswer, len(submitted))
	for _, sub := range submitted {
		latest[sub.QuestionID] = sub
	}

	var answers []models.Answer
	var total float64
	for _, question := range questions {
		sub, ok := latest[question.ID]
		if !ok {
			continue
		}

		correct := answersMatch(sub.AnswerText, question.CorrectAnswer)

		var awarded float64
		if correct {
			awarded = question.Marks
		} else if quiz.NegativeMarking > 0 {
			awarded = -quiz.NegativeMarking
		}
		total += awarded

		isCorrect := correct
		answers = append(answers, models.Answer{
			QuestionID:   question.ID,
			AnswerText:   sub.AnswerText,
			IsCorrect:    &isCorrect,
			MarksAwarded: awarded,
		})
	}

	// Negative marking can empty a score but never push it below zero.
	if total < 0 {
		total = 0
	}

	var percentage float64
	if totalMarks > 0 {
		percentage = total / totalMarks * 100
	}

	return answers, total, percentage
}

// answersMatch compares answer text ignoring case and surrounding
// whitespace. Exact match only; no partial credit.
func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
