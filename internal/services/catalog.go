package services

import (
	"errors"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

// CatalogService is the read-only view of quiz and question definitions the
// attempt engine works against. It never mutates the catalog.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// GetQuiz returns a quiz whether or not it is active; callers apply their
// own visibility rules. Inactive is a different condition from absent.
func (s *CatalogService) GetQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("quiz not found")
		}
		return nil, errInternal(err)
	}
	return &quiz, nil
}

// GetQuestions returns a quiz's questions in display order, including
// correct answers. Use SanitizeQuestions before showing them to a student
// mid-attempt.
func (s *CatalogService) GetQuestions(quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("quiz_id = ?", quizID).
		Order("order_num ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, errInternal(err)
	}
	return questions, nil
}

func (s *CatalogService) GetQuestion(questionID uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("question not found")
		}
		return nil, errInternal(err)
	}
	return &question, nil
}

// SanitizeQuestions strips correct answers from a question list.
func SanitizeQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = ""
		out[i] = q
	}
	return out
}
