package services

import (
	"errors"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListStudents supports staff building assignment rosters.
func (s *UserService) ListStudents() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role = ?", models.RoleStudent).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, errInternal(err)
	}
	return users, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("user not found")
		}
		return nil, errInternal(err)
	}
	return &user, nil
}
