package services

import (
	"errors"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

type SubjectService struct {
	db *gorm.DB
}

func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{db: db}
}

type SubjectInput struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Description string `json:"description"`
	Department  string `json:"department"`
}

func (s *SubjectService) Create(input SubjectInput) (*models.Subject, error) {
	subject := models.Subject{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
		Department:  input.Department,
	}
	if err := s.db.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errValidation("subject name or code already exists")
		}
		return nil, errInternal(err)
	}
	return &subject, nil
}

func (s *SubjectService) List() ([]models.Subject, error) {
	var subjects []models.Subject
	if err := s.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, errInternal(err)
	}
	return subjects, nil
}

func (s *SubjectService) Get(id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("subject not found")
		}
		return nil, errInternal(err)
	}
	return &subject, nil
}

func (s *SubjectService) Update(id uint, input SubjectInput) (*models.Subject, error) {
	subject, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	subject.Name = input.Name
	subject.Code = input.Code
	subject.Description = input.Description
	subject.Department = input.Department
	if err := s.db.Save(subject).Error; err != nil {
		return nil, errInternal(err)
	}
	return subject, nil
}

func (s *SubjectService) Delete(id uint) error {
	result := s.db.Delete(&models.Subject{}, id)
	if result.Error != nil {
		return errInternal(result.Error)
	}
	if result.RowsAffected == 0 {
		return errNotFound("subject not found")
	}
	return nil
}
