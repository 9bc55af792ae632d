package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Quiz{},
		&models.Question{},
		&models.QuestionBankItem{},
		&models.QuizAssignment{},
		&models.QuizAttempt{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_attempt
		ON quiz_attempts (quiz_id, student_id)
		WHERE is_completed = false`)

	return db
}

var userSeq atomic.Uint64

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	user := models.User{
		Email:          fmt.Sprintf("%s-%d@example.com", role, userSeq.Add(1)),
		HashedPassword: "x",
		FirstName:      "Test",
		LastName:       string(role),
		Role:           role,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

type quizOption func(*models.Quiz)

func withDuration(minutes int) quizOption {
	return func(q *models.Quiz) { q.DurationMinutes = &minutes }
}

func withNegativeMarking(penalty float64) quizOption {
	return func(q *models.Quiz) { q.NegativeMarking = penalty }
}

func withSchedule(at time.Time, graceMinutes int) quizOption {
	return func(q *models.Quiz) {
		q.ScheduledAt = &at
		q.GracePeriodMinutes = graceMinutes
	}
}

func withLiveSession(start time.Time, durationMinutes int) quizOption {
	return func(q *models.Quiz) {
		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		q.IsLiveSession = true
		q.LiveStartTime = &start
		q.LiveEndTime = &end
		q.DurationMinutes = &durationMinutes
	}
}

func inactive() quizOption {
	return func(q *models.Quiz) { q.IsActive = false }
}

// createQuiz stores a two-question quiz (marks 1 and 2, answers "Paris"
// and "True") owned by creator, with options applied on top.
func createQuiz(t *testing.T, db *gorm.DB, creatorID uint, opts ...quizOption) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		Title:              "Capitals",
		CreatorID:          creatorID,
		GracePeriodMinutes: 5,
		MarksPerCorrect:    1,
		IsActive:           true,
		TotalMarks:         3,
		Questions: []models.Question{
			{
				QuestionText:  "Capital of France?",
				QuestionType:  models.QuestionTypeShortAnswer,
				CorrectAnswer: "Paris",
				Marks:         1,
				OrderNum:      1,
			},
			{
				QuestionText:  "The Seine flows through Paris.",
				QuestionType:  models.QuestionTypeTrueFalse,
				CorrectAnswer: "True",
				Marks:         2,
				OrderNum:      2,
			},
		},
	}
	for _, opt := range opts {
		opt(&quiz)
	}
	wantActive := quiz.IsActive
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	// GORM skips zero-value fields that carry a default tag, so a false
	// IsActive is silently stored (and written back) as true on Create;
	// deactivate explicitly afterwards.
	if !wantActive {
		if err := db.Model(&quiz).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate quiz: %v", err)
		}
		quiz.IsActive = false
	}
	return &quiz
}

func assign(t *testing.T, db *gorm.DB, quizID, studentID uint) {
	t.Helper()
	if err := db.Create(&models.QuizAssignment{QuizID: quizID, StudentID: studentID}).Error; err != nil {
		t.Fatalf("assign quiz: %v", err)
	}
}

// newAttemptService builds the service stack over db with a fixed clock.
func newAttemptService(db *gorm.DB, now time.Time) *AttemptService {
	eligibility := NewEligibilityService(db)
	eligibility.now = func() time.Time { return now }

	svc := NewAttemptService(db, NewCatalogService(db), eligibility, NewScoringService())
	svc.now = func() time.Time { return now }
	return svc
}

func studentCaller(u *models.User) Caller {
	return Caller{UserID: u.ID, Role: u.Role}
}
