package services

import (
	"errors"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuestionInput struct {
	QuestionText  string              `json:"question_text" binding:"required"`
	QuestionType  models.QuestionType `json:"question_type" binding:"required,oneof=mcq true_false short_answer"`
	OptionA       string              `json:"option_a"`
	OptionB       string              `json:"option_b"`
	OptionC       string              `json:"option_c"`
	OptionD       string              `json:"option_d"`
	CorrectAnswer string              `json:"correct_answer" binding:"required"`
	Marks         float64             `json:"marks" binding:"required,gt=0"`
	OrderNum      int                 `json:"order"`
}

type QuizInput struct {
	Title              string          `json:"title" binding:"required,min=1,max=255"`
	Description        string          `json:"description"`
	SubjectID          *uint           `json:"subject_id"`
	ScheduledAt        *time.Time      `json:"scheduled_at"`
	GracePeriodMinutes int             `json:"grace_period_minutes"`
	IsLiveSession      bool            `json:"is_live_session"`
	LiveStartTime      *time.Time      `json:"live_start_time"`
	DurationMinutes    *int            `json:"duration_minutes"`
	MarksPerCorrect    float64         `json:"marks_per_correct"`
	NegativeMarking    float64         `json:"negative_marking" binding:"gte=0"`
	IsActive           *bool           `json:"is_active"`
	Questions          []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuiz stores a quiz with its questions. Total marks are summed here
// once; attempts snapshot that figure so later edits cannot shift history.
func (s *QuizService) CreateQuiz(creatorID uint, input QuizInput) (*models.Quiz, error) {
	quiz := models.Quiz{
		Title:              input.Title,
		Description:        input.Description,
		CreatorID:          creatorID,
		SubjectID:          input.SubjectID,
		ScheduledAt:        input.ScheduledAt,
		GracePeriodMinutes: input.GracePeriodMinutes,
		IsLiveSession:      input.IsLiveSession,
		LiveStartTime:      input.LiveStartTime,
		DurationMinutes:    input.DurationMinutes,
		MarksPerCorrect:    input.MarksPerCorrect,
		NegativeMarking:    input.NegativeMarking,
		IsActive:           true,
	}
	if quiz.GracePeriodMinutes <= 0 {
		quiz.GracePeriodMinutes = 5
	}
	if quiz.MarksPerCorrect <= 0 {
		quiz.MarksPerCorrect = 1
	}
	if input.IsActive != nil {
		quiz.IsActive = *input.IsActive
	}

	if err := applyLiveWindow(&quiz); err != nil {
		return nil, err
	}

	for i, q := range input.Questions {
		order := q.OrderNum
		if order == 0 {
			order = i + 1
		}
		quiz.Questions = append(quiz.Questions, models.Question{
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
			OrderNum:      order,
		})
		quiz.TotalMarks += q.Marks
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, errInternal(err)
	}
	return &quiz, nil
}

// applyLiveWindow enforces the live-session invariant: a start time and a
// duration must be present, and the end time is always start + duration.
func applyLiveWindow(quiz *models.Quiz) error {
	if !quiz.IsLiveSession {
		quiz.LiveStartTime = nil
		quiz.LiveEndTime = nil
		return nil
	}
	if quiz.LiveStartTime == nil || quiz.DurationMinutes == nil {
		return errValidation("live session requires live_start_time and duration_minutes")
	}
	end := quiz.LiveStartTime.Add(time.Duration(*quiz.DurationMinutes) * time.Minute)
	quiz.LiveEndTime = &end
	return nil
}

func (s *QuizService) GetQuizForStaff(quizID uint, caller Caller) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleTeacher && quiz.CreatorID != caller.UserID {
		return nil, errForbidden("you can only view your own quizzes")
	}
	return quiz, nil
}

// GetQuizForStudent applies student visibility: the quiz must be assigned
// to them and active, and correct answers are stripped.
func (s *QuizService) GetQuizForStudent(quizID, studentID uint) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.QuizAssignment{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error; err != nil {
		return nil, errInternal(err)
	}
	if count == 0 {
		return nil, errForbidden("not assigned to this quiz")
	}
	if !quiz.IsActive {
		return nil, errInvalidState("quiz is not active")
	}

	quiz.Questions = SanitizeQuestions(quiz.Questions)
	return quiz, nil
}

func (s *QuizService) loadQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC, id ASC")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("quiz not found")
		}
		return nil, errInternal(err)
	}
	return &quiz, nil
}

// ListQuizzesForStaff returns all quizzes an admin, or a teacher's own.
func (s *QuizService) ListQuizzesForStaff(caller Caller) ([]models.Quiz, error) {
	q := s.db.Order("created_at DESC")
	if caller.Role == models.RoleTeacher {
		q = q.Where("creator_id = ?", caller.UserID)
	}
	var quizzes []models.Quiz
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, errInternal(err)
	}
	return quizzes, nil
}

// ListQuizzesForStudent returns the active quizzes assigned to a student,
// without questions.
func (s *QuizService) ListQuizzesForStudent(studentID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Joins("JOIN quiz_assignments ON quiz_assignments.quiz_id = quizzes.id").
		Where("quiz_assignments.student_id = ? AND quizzes.is_active = ?", studentID, true).
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, errInternal(err)
	}
	return quizzes, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, caller Caller, input QuizInput) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleTeacher && quiz.CreatorID != caller.UserID {
		return nil, errForbidden("you can only update your own quizzes")
	}

	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.SubjectID = input.SubjectID
	quiz.ScheduledAt = input.ScheduledAt
	if input.GracePeriodMinutes > 0 {
		quiz.GracePeriodMinutes = input.GracePeriodMinutes
	}
	quiz.IsLiveSession = input.IsLiveSession
	quiz.LiveStartTime = input.LiveStartTime
	quiz.DurationMinutes = input.DurationMinutes
	if input.MarksPerCorrect > 0 {
		quiz.MarksPerCorrect = input.MarksPerCorrect
	}
	quiz.NegativeMarking = input.NegativeMarking
	if input.IsActive != nil {
		quiz.IsActive = *input.IsActive
	}

	if err := applyLiveWindow(quiz); err != nil {
		return nil, err
	}

	// Question edits are not versioned; quizzes with existing attempts
	// keep their question set to protect historical scoring.
	var attemptCount int64
	if err := s.db.Model(&models.QuizAttempt{}).Where("quiz_id = ?", quiz.ID).Count(&attemptCount).Error; err != nil {
		return nil, errInternal(err)
	}
	if len(input.Questions) > 0 && attemptCount == 0 {
		if err := s.replaceQuestions(quiz, input.Questions); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(quiz).Error; err != nil {
		return nil, errInternal(err)
	}
	return quiz, nil
}

func (s *QuizService) replaceQuestions(quiz *models.Quiz, inputs []QuestionInput) error {
	if err := s.db.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
		return errInternal(err)
	}

	quiz.Questions = nil
	quiz.TotalMarks = 0
	for i, q := range inputs {
		order := q.OrderNum
		if order == 0 {
			order = i + 1
		}
		quiz.Questions = append(quiz.Questions, models.Question{
			QuizID:        quiz.ID,
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
			OrderNum:      order,
		})
		quiz.TotalMarks += q.Marks
	}
	return nil
}

func (s *QuizService) DeleteQuiz(quizID uint, caller Caller) error {
	q := s.db.Where("id = ?", quizID)
	if caller.Role == models.RoleTeacher {
		q = q.Where("creator_id = ?", caller.UserID)
	}
	result := q.Delete(&models.Quiz{})
	if result.Error != nil {
		return errInternal(result.Error)
	}
	if result.RowsAffected == 0 {
		return errNotFound("quiz not found")
	}
	return nil
}

// ReplaceAssignments swaps the quiz's student roster for the given list.
// Unknown user ids and non-students are rejected.
func (s *QuizService) ReplaceAssignments(quizID uint, caller Caller, studentIDs []uint) error {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleTeacher && quiz.CreatorID != caller.UserID {
		return errForbidden("you can only assign your own quizzes")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("id IN ? AND role = ?", studentIDs, models.RoleStudent).
		Count(&count).Error; err != nil {
		return errInternal(err)
	}
	if int(count) != len(studentIDs) {
		return errValidation("assignment list contains unknown or non-student users")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizAssignment{}).Error; err != nil {
			return errInternal(err)
		}
		for _, id := range studentIDs {
			assignment := models.QuizAssignment{QuizID: quizID, StudentID: id}
			if err := tx.Create(&assignment).Error; err != nil {
				return errInternal(err)
			}
		}
		return nil
	})
}
