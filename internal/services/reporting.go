package services

import (
	"errors"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

// ReportingService is the read surface over attempts. It stores nothing of
// its own; derived fields like status are recomputed on every read.
type ReportingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportingService(db *gorm.DB) *ReportingService {
	return &ReportingService{db: db, now: time.Now}
}

type AttemptSummary struct {
	models.QuizAttempt
	QuizTitle   string `json:"quiz_title"`
	StudentName string `json:"student_name,omitempty"`
	Status      string `json:"status"`
}

type AttemptDetail struct {
	AttemptSummary
	Answers []models.Answer `json:"answers"`
}

type AttemptFilter struct {
	QuizID    *uint
	StudentID *uint
	// Completed filters on is_completed when set.
	Completed *bool
}

// GetAttemptDetail returns one attempt with its answers. Students see only
// their own attempts; teachers see attempts on quizzes they created;
// admins see everything.
func (s *ReportingService) GetAttemptDetail(attemptID uint, caller Caller) (*AttemptDetail, error) {
	var attempt models.QuizAttempt
	err := s.db.Preload("Quiz").Preload("Student").Preload("Answers").
		First(&attempt, attemptID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("attempt not found")
		}
		return nil, errInternal(err)
	}

	switch caller.Role {
	case models.RoleStudent:
		if attempt.StudentID != caller.UserID {
			return nil, errForbidden("you can only view your own attempts")
		}
	case models.RoleTeacher:
		if attempt.Quiz.CreatorID != caller.UserID && attempt.StudentID != caller.UserID {
			return nil, errForbidden("you can only view attempts for your own quizzes")
		}
	}

	detail := &AttemptDetail{
		AttemptSummary: s.summarize(attempt),
		Answers:        attempt.Answers,
	}
	return detail, nil
}

// MyAttempts lists the caller's own attempts, newest first. Completed only
// by default; in-progress rows are included on request so a student can
// find a quiz to resume.
func (s *ReportingService) MyAttempts(studentID uint, includeInProgress bool) ([]AttemptSummary, error) {
	q := s.db.Preload("Quiz").Where("student_id = ?", studentID)
	if !includeInProgress {
		q = q.Where("is_completed = ?", true)
	}

	var attempts []models.QuizAttempt
	if err := q.Order("started_at DESC").Find(&attempts).Error; err != nil {
		return nil, errInternal(err)
	}

	out := make([]AttemptSummary, len(attempts))
	for i, a := range attempts {
		out[i] = s.summarize(a)
		out[i].StudentName = ""
	}
	return out, nil
}

// AllAttempts is the staff view. Teachers are scoped to quizzes they
// created; admins see every attempt.
func (s *ReportingService) AllAttempts(caller Caller, filter AttemptFilter) ([]AttemptSummary, error) {
	if !caller.IsStaff() {
		return nil, errForbidden("not enough permissions")
	}

	q := s.db.Preload("Quiz").Preload("Student").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id")

	if caller.Role == models.RoleTeacher {
		q = q.Where("quizzes.creator_id = ?", caller.UserID)
	}
	if filter.QuizID != nil {
		q = q.Where("quiz_attempts.quiz_id = ?", *filter.QuizID)
	}
	if filter.StudentID != nil {
		q = q.Where("quiz_attempts.student_id = ?", *filter.StudentID)
	}
	if filter.Completed != nil {
		q = q.Where("quiz_attempts.is_completed = ?", *filter.Completed)
	}

	var attempts []models.QuizAttempt
	if err := q.Order("quiz_attempts.started_at DESC").Find(&attempts).Error; err != nil {
		return nil, errInternal(err)
	}

	out := make([]AttemptSummary, len(attempts))
	for i, a := range attempts {
		out[i] = s.summarize(a)
	}
	return out, nil
}

func (s *ReportingService) summarize(attempt models.QuizAttempt) AttemptSummary {
	summary := AttemptSummary{
		QuizAttempt: attempt,
		QuizTitle:   attempt.Quiz.Title,
		Status:      s.deriveStatus(&attempt),
	}
	if attempt.Student.ID != 0 {
		summary.StudentName = attempt.Student.FirstName + " " + attempt.Student.LastName
	}
	summary.Answers = nil
	return summary
}

// deriveStatus computes the lifecycle state a client should display. An
// in-progress attempt past its deadline reads as expired even though the
// stored row never changes.
func (s *ReportingService) deriveStatus(attempt *models.QuizAttempt) string {
	if attempt.IsCompleted {
		return AttemptStatusCompleted
	}
	deadline, err := attemptDeadline(&attempt.Quiz, attempt)
	if err == nil && deadline != nil && s.now().After(*deadline) {
		return AttemptStatusExpired
	}
	return AttemptStatusInProgress
}
