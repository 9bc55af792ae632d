package services

import (
	"errors"
	"math"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	// EffectiveDurationMinutes is nil for untimed quizzes. For live
	// sessions it is the time remaining in the shared window, so a
	// latecomer gets a shorter run than the nominal duration.
	EffectiveDurationMinutes *int `json:"effective_duration_minutes,omitempty"`
	// Resuming is set when the caller has an in-progress attempt that
	// start would return instead of creating a new one.
	Resuming bool `json:"resuming,omitempty"`

	errKind ErrorKind
}

// Err converts an ineligible result into the error start should return:
// assignment failures are forbidden, everything else is an invalid state.
func (r *EligibilityResult) Err() error {
	if r.Eligible {
		return nil
	}
	return &Error{Kind: r.errKind, Message: r.Reason}
}

// EligibilityService decides whether a caller may begin (or resume) an
// attempt. Gates are evaluated in a fixed order and short-circuit on the
// first failure.
type EligibilityService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{db: db, now: time.Now}
}

func (s *EligibilityService) Check(quiz *models.Quiz, caller Caller) (*EligibilityResult, error) {
	if caller.IsStaff() {
		return s.checkStaff(quiz)
	}
	return s.checkStudent(quiz, caller.UserID)
}

// checkStaff implements preview mode: assignment, activity and scheduling
// gates do not apply, but a live session's wall-clock bounds still do.
func (s *EligibilityService) checkStaff(quiz *models.Quiz) (*EligibilityResult, error) {
	if !quiz.IsLiveSession {
		return &EligibilityResult{Eligible: true, EffectiveDurationMinutes: quiz.DurationMinutes}, nil
	}

	start, end, err := liveWindow(quiz)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if now.Before(start) {
		return ineligible("live session has not started yet"), nil
	}
	if now.After(end) {
		return ineligible("live session has ended"), nil
	}
	return &EligibilityResult{Eligible: true, EffectiveDurationMinutes: remainingMinutes(now, end)}, nil
}

func (s *EligibilityService) checkStudent(quiz *models.Quiz, studentID uint) (*EligibilityResult, error) {
	assigned, err := s.isAssigned(quiz.ID, studentID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return &EligibilityResult{Reason: "not assigned to this quiz", errKind: KindForbidden}, nil
	}

	if !quiz.IsActive {
		return ineligible("quiz is not active"), nil
	}

	existing, err := s.findAttempt(quiz.ID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsCompleted {
		return ineligible("already completed"), nil
	}

	now := s.now()

	// An in-progress attempt may always be resumed, except into a live
	// session that has fully ended.
	if existing != nil {
		if quiz.IsLiveSession {
			_, end, err := liveWindow(quiz)
			if err != nil {
				return nil, err
			}
			if now.After(end) {
				return ineligible("live session has ended"), nil
			}
			return &EligibilityResult{
				Eligible:                 true,
				Resuming:                 true,
				EffectiveDurationMinutes: remainingMinutes(now, end),
			}, nil
		}
		return &EligibilityResult{
			Eligible:                 true,
			Resuming:                 true,
			EffectiveDurationMinutes: quiz.DurationMinutes,
		}, nil
	}

	// Timing gate for a fresh join.
	switch {
	case quiz.IsLiveSession:
		start, end, err := liveWindow(quiz)
		if err != nil {
			return nil, err
		}
		if now.Before(start) {
			return ineligible("live session has not started yet"), nil
		}
		if now.After(end) {
			return ineligible("live session has ended"), nil
		}
		if now.After(start.Add(models.LiveJoinGraceMinutes * time.Minute)) {
			return ineligible("grace period to join has expired"), nil
		}
		return &EligibilityResult{Eligible: true, EffectiveDurationMinutes: remainingMinutes(now, end)}, nil

	case quiz.ScheduledAt != nil:
		if now.Before(*quiz.ScheduledAt) {
			return ineligible("quiz has not started yet"), nil
		}
		closeAt := quiz.ScheduledAt.Add(time.Duration(quiz.GracePeriodMinutes) * time.Minute)
		if now.After(closeAt) {
			return ineligible("grace period to start has expired"), nil
		}
	}

	return &EligibilityResult{Eligible: true, EffectiveDurationMinutes: quiz.DurationMinutes}, nil
}

func (s *EligibilityService) isAssigned(quizID, studentID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.QuizAssignment{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	if err != nil {
		return false, errInternal(err)
	}
	return count > 0, nil
}

func (s *EligibilityService) findAttempt(quizID, studentID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("started_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errInternal(err)
	}
	return &attempt, nil
}

func ineligible(reason string) *EligibilityResult {
	return &EligibilityResult{Eligible: false, Reason: reason, errKind: KindInvalidState}
}

// liveWindow returns a live session's bounds, failing with a configuration
// error when the quiz creator left them unset.
func liveWindow(quiz *models.Quiz) (time.Time, time.Time, error) {
	if quiz.LiveStartTime == nil || quiz.LiveEndTime == nil {
		return time.Time{}, time.Time{}, errConfiguration("live session is missing start or end time")
	}
	return *quiz.LiveStartTime, *quiz.LiveEndTime, nil
}

// remainingMinutes rounds the time left until end up to whole minutes,
// never below one. A partial minute still counts as usable time.
func remainingMinutes(now, end time.Time) *int {
	mins := int(math.Ceil(end.Sub(now).Minutes()))
	if mins < 1 {
		mins = 1
	}
	return &mins
}
