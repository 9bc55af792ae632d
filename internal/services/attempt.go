package services

import (
	"errors"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Attempt lifecycle states as reported to clients. Expired is derived from
// the quiz timing at read time; it is never stored.
const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
	AttemptStatusExpired    = "expired"
)

// AttemptService owns the attempt lifecycle: start/resume, autosave of
// provisional answers, the one-way submit transition, and derived time
// queries. All expiry is evaluated lazily on access; nothing flips an
// attempt's state in the background.
type AttemptService struct {
	db          *gorm.DB
	catalog     *CatalogService
	eligibility *EligibilityService
	scoring     *ScoringService
	now         func() time.Time
}

func NewAttemptService(db *gorm.DB, catalog *CatalogService, eligibility *EligibilityService, scoring *ScoringService) *AttemptService {
	return &AttemptService{
		db:          db,
		catalog:     catalog,
		eligibility: eligibility,
		scoring:     scoring,
		now:         time.Now,
	}
}

// Start begins or resumes an attempt. For students it is idempotent: an
// in-progress attempt is returned unchanged, so a page refresh never loses
// work or errors out. Staff get a fresh preview every time; any stale
// in-progress preview of theirs is discarded first.
func (s *AttemptService) Start(quizID uint, caller Caller) (*models.QuizAttempt, error) {
	quiz, err := s.catalog.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	result, err := s.eligibility.Check(quiz, caller)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return nil, result.Err()
	}

	if caller.IsStaff() {
		err := s.db.Where("quiz_id = ? AND student_id = ? AND is_completed = ?", quiz.ID, caller.UserID, false).
			Delete(&models.QuizAttempt{}).Error
		if err != nil {
			return nil, errInternal(err)
		}
		return s.createAttempt(quiz, caller.UserID)
	}

	if existing, err := s.findInProgress(quiz.ID, caller.UserID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	attempt, err := s.createAttempt(quiz, caller.UserID)
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) && svcErr.Kind == KindInvalidState {
			// Lost a concurrent start race; the other request's row wins.
			if existing, findErr := s.findInProgress(quiz.ID, caller.UserID); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) createAttempt(quiz *models.Quiz, studentID uint) (*models.QuizAttempt, error) {
	attempt := models.QuizAttempt{
		QuizID:     quiz.ID,
		StudentID:  studentID,
		TotalMarks: quiz.TotalMarks,
		StartedAt:  s.now(),
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errInvalidState("attempt already in progress")
		}
		return nil, errInternal(err)
	}
	return &attempt, nil
}

func (s *AttemptService) findInProgress(quizID, studentID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("quiz_id = ? AND student_id = ? AND is_completed = ?", quizID, studentID, false).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errInternal(err)
	}
	return &attempt, nil
}

// SaveAnswer persists one provisional, ungraded answer. Upsert keyed by
// (attempt, question), so retries and repeated saves never duplicate rows.
func (s *AttemptService) SaveAnswer(attemptID uint, caller Caller, questionID uint, answerText string) error {
	attempt, err := s.getOwnedAttempt(attemptID, caller)
	if err != nil {
		return err
	}
	if attempt.IsCompleted {
		return errInvalidState("attempt already submitted")
	}

	question, err := s.catalog.GetQuestion(questionID)
	if err != nil {
		return err
	}
	if question.QuizID != attempt.QuizID {
		return errValidation("question does not belong to this quiz")
	}

	answer := models.Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		AnswerText: answerText,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_text"}),
	}).Create(&answer).Error
	if err != nil {
		return errInternal(err)
	}
	return nil
}

// GetAnswers returns the attempt's saved answers so a reconnecting client
// can restore its form state. Correctness fields stay unset until submit.
func (s *AttemptService) GetAnswers(attemptID uint, caller Caller) ([]models.Answer, error) {
	attempt, err := s.getOwnedAttempt(attemptID, caller)
	if err != nil {
		return nil, err
	}

	var answers []models.Answer
	if err := s.db.Where("attempt_id = ?", attempt.ID).Order("question_id ASC").Find(&answers).Error; err != nil {
		return nil, errInternal(err)
	}
	return answers, nil
}

// Submit grades the payload and completes the attempt exactly once. All
// autosaved rows are dropped and replaced by graded rows derived from the
// payload alone, so an autosaved question missing from the final payload
// contributes nothing. An empty payload still completes with score zero.
func (s *AttemptService) Submit(attemptID uint, caller Caller, submitted []SubmittedAnswer) (*models.QuizAttempt, error) {
	attempt, err := s.getOwnedAttempt(attemptID, caller)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		return nil, errInvalidState("already submitted")
	}

	quiz, err := s.catalog.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	deadline, err := attemptDeadline(quiz, attempt)
	if err != nil {
		return nil, err
	}
	if deadline != nil && now.After(*deadline) {
		return nil, errInvalidState("quiz time expired, cannot submit")
	}

	questions, err := s.catalog.GetQuestions(quiz.ID)
	if err != nil {
		return nil, err
	}

	answers, score, percentage := s.scoring.Grade(quiz, questions, submitted, attempt.TotalMarks)

	timeTaken := int(now.Sub(attempt.StartedAt).Minutes())
	if timeTaken < 0 {
		timeTaken = 0
	}
	if quiz.DurationMinutes != nil && timeTaken > *quiz.DurationMinutes {
		timeTaken = *quiz.DurationMinutes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional update is the exactly-once guard: of two racing
		// submits only one flips is_completed, the other sees zero rows.
		res := tx.Model(&models.QuizAttempt{}).
			Where("id = ? AND is_completed = ?", attempt.ID, false).
			Updates(map[string]interface{}{
				"score":              score,
				"percentage":         percentage,
				"submitted_at":       now,
				"time_taken_minutes": timeTaken,
				"is_completed":       true,
				"is_graded":          true,
			})
		if res.Error != nil {
			return errInternal(res.Error)
		}
		if res.RowsAffected == 0 {
			return errInvalidState("already submitted")
		}

		if err := tx.Where("attempt_id = ?", attempt.ID).Delete(&models.Answer{}).Error; err != nil {
			return errInternal(err)
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return errInternal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.QuizAttempt
	if err := s.db.First(&updated, attempt.ID).Error; err != nil {
		return nil, errInternal(err)
	}
	return &updated, nil
}

type RemainingTimeResult struct {
	Unlimited        bool       `json:"unlimited"`
	RemainingSeconds *int       `json:"remaining_seconds,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// RemainingTime is a pure view over the clock: live sessions share one
// deadline, self-paced timed quizzes measure from the attempt's own start,
// untimed quizzes report unlimited.
func (s *AttemptService) RemainingTime(attemptID uint, caller Caller) (*RemainingTimeResult, error) {
	attempt, err := s.getOwnedAttempt(attemptID, caller)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		return nil, errInvalidState("attempt already submitted")
	}

	quiz, err := s.catalog.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	deadline, err := attemptDeadline(quiz, attempt)
	if err != nil {
		return nil, err
	}
	if deadline == nil {
		return &RemainingTimeResult{Unlimited: true}, nil
	}

	remaining := int(deadline.Sub(s.now()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &RemainingTimeResult{RemainingSeconds: &remaining, Deadline: deadline}, nil
}

// attemptDeadline computes when an attempt stops accepting a submit.
// nil means no deadline.
func attemptDeadline(quiz *models.Quiz, attempt *models.QuizAttempt) (*time.Time, error) {
	if quiz.IsLiveSession {
		_, end, err := liveWindow(quiz)
		if err != nil {
			return nil, err
		}
		return &end, nil
	}
	if quiz.DurationMinutes != nil {
		d := attempt.StartedAt.Add(time.Duration(*quiz.DurationMinutes) * time.Minute)
		return &d, nil
	}
	return nil, nil
}

func (s *AttemptService) getOwnedAttempt(attemptID uint, caller Caller) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := s.db.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("attempt not found")
		}
		return nil, errInternal(err)
	}
	if attempt.StudentID != caller.UserID {
		return nil, errForbidden("not your attempt")
	}
	return &attempt, nil
}
