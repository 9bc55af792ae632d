package services

import (
	"errors"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

type QuestionBankService struct {
	db *gorm.DB
}

func NewQuestionBankService(db *gorm.DB) *QuestionBankService {
	return &QuestionBankService{db: db}
}

type QuestionBankInput struct {
	SubjectID       uint                `json:"subject_id" binding:"required"`
	QuestionText    string              `json:"question_text" binding:"required"`
	QuestionType    models.QuestionType `json:"question_type" binding:"required,oneof=mcq true_false short_answer"`
	OptionA         string              `json:"option_a"`
	OptionB         string              `json:"option_b"`
	OptionC         string              `json:"option_c"`
	OptionD         string              `json:"option_d"`
	CorrectAnswer   string              `json:"correct_answer" binding:"required"`
	DifficultyLevel string              `json:"difficulty_level"`
	Topic           string              `json:"topic"`
}

func (s *QuestionBankService) Create(createdBy uint, input QuestionBankInput) (*models.QuestionBankItem, error) {
	var subject models.Subject
	if err := s.db.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("subject not found")
		}
		return nil, errInternal(err)
	}

	item := models.QuestionBankItem{
		SubjectID:       input.SubjectID,
		QuestionText:    input.QuestionText,
		QuestionType:    input.QuestionType,
		OptionA:         input.OptionA,
		OptionB:         input.OptionB,
		OptionC:         input.OptionC,
		OptionD:         input.OptionD,
		CorrectAnswer:   input.CorrectAnswer,
		DifficultyLevel: input.DifficultyLevel,
		Topic:           input.Topic,
		CreatedBy:       &createdBy,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, errInternal(err)
	}
	return &item, nil
}

func (s *QuestionBankService) List(subjectID *uint) ([]models.QuestionBankItem, error) {
	q := s.db.Order("created_at DESC")
	if subjectID != nil {
		q = q.Where("subject_id = ?", *subjectID)
	}
	var items []models.QuestionBankItem
	if err := q.Find(&items).Error; err != nil {
		return nil, errInternal(err)
	}
	return items, nil
}

func (s *QuestionBankService) Delete(id uint) error {
	result := s.db.Delete(&models.QuestionBankItem{}, id)
	if result.Error != nil {
		return errInternal(result.Error)
	}
	if result.RowsAffected == 0 {
		return errNotFound("question not found")
	}
	return nil
}
