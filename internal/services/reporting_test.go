package services

import (
	"errors"
	"testing"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"

	"gorm.io/gorm"
)

func newReportingService(db *gorm.DB, now time.Time) *ReportingService {
	svc := NewReportingService(db)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDerivedStatusExpired(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)
	quiz := createQuiz(t, db, teacher.ID, withDuration(30))
	assign(t, db, quiz.ID, student.ID)

	attempts := newAttemptService(db, testClock)
	attempt, err := attempts.Start(quiz.ID, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}

	reporting := newReportingService(db, testClock.Add(10*time.Minute))
	detail, err := reporting.GetAttemptDetail(attempt.ID, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != AttemptStatusInProgress {
		t.Errorf("before the deadline the attempt is in progress, got %q", detail.Status)
	}

	// Nothing touched the row; only the clock moved.
	reporting.now = func() time.Time { return testClock.Add(31 * time.Minute) }
	detail, err = reporting.GetAttemptDetail(attempt.ID, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if detail.Status != AttemptStatusExpired {
		t.Errorf("past the deadline the attempt reads as expired, got %q", detail.Status)
	}
	if detail.IsCompleted {
		t.Error("expired is derived, the stored row must stay incomplete")
	}
}

func TestGetAttemptDetailOwnership(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	otherTeacher := createUser(t, db, models.RoleTeacher)
	admin := createUser(t, db, models.RoleAdmin)
	student := createUser(t, db, models.RoleStudent)
	intruder := createUser(t, db, models.RoleStudent)
	quiz := createQuiz(t, db, teacher.ID)
	assign(t, db, quiz.ID, student.ID)

	attempts := newAttemptService(db, testClock)
	attempt, err := attempts.Start(quiz.ID, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}

	reporting := newReportingService(db, testClock)

	if _, err := reporting.GetAttemptDetail(attempt.ID, studentCaller(student)); err != nil {
		t.Errorf("owner must see their attempt: %v", err)
	}
	if _, err := reporting.GetAttemptDetail(attempt.ID, Caller{UserID: teacher.ID, Role: teacher.Role}); err != nil {
		t.Errorf("quiz creator must see attempts on their quiz: %v", err)
	}
	if _, err := reporting.GetAttemptDetail(attempt.ID, Caller{UserID: admin.ID, Role: admin.Role}); err != nil {
		t.Errorf("admin must see every attempt: %v", err)
	}

	for name, caller := range map[string]Caller{
		"foreign student": studentCaller(intruder),
		"foreign teacher": {UserID: otherTeacher.ID, Role: otherTeacher.Role},
	} {
		_, err := reporting.GetAttemptDetail(attempt.ID, caller)
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != KindForbidden {
			t.Errorf("%s must be forbidden, got %v", name, err)
		}
	}
}

func TestMyAttemptsDefaultsToCompleted(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)
	finished := createQuiz(t, db, teacher.ID)
	open := createQuiz(t, db, teacher.ID)
	assign(t, db, finished.ID, student.ID)
	assign(t, db, open.ID, student.ID)

	attempts := newAttemptService(db, testClock)
	done, err := attempts.Start(finished.ID, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := attempts.Submit(done.ID, studentCaller(student), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := attempts.Start(open.ID, studentCaller(student)); err != nil {
		t.Fatal(err)
	}

	reporting := newReportingService(db, testClock)

	completed, err := reporting.MyAttempts(student.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 1 || completed[0].QuizID != finished.ID {
		t.Fatalf("default view is completed attempts only, got %d rows", len(completed))
	}

	all, err := reporting.MyAttempts(student.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("include_in_progress view should list both attempts, got %d", len(all))
	}
}

func TestAllAttemptsTeacherScoping(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	otherTeacher := createUser(t, db, models.RoleTeacher)
	admin := createUser(t, db, models.RoleAdmin)
	student := createUser(t, db, models.RoleStudent)

	mine := createQuiz(t, db, teacher.ID)
	theirs := createQuiz(t, db, otherTeacher.ID)
	assign(t, db, mine.ID, student.ID)
	assign(t, db, theirs.ID, student.ID)

	attempts := newAttemptService(db, testClock)
	for _, quiz := range []uint{mine.ID, theirs.ID} {
		attempt, err := attempts.Start(quiz, studentCaller(student))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := attempts.Submit(attempt.ID, studentCaller(student), nil); err != nil {
			t.Fatal(err)
		}
	}

	reporting := newReportingService(db, testClock)

	scoped, err := reporting.AllAttempts(Caller{UserID: teacher.ID, Role: teacher.Role}, AttemptFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || scoped[0].QuizID != mine.ID {
		t.Fatalf("teacher must only see attempts on their own quizzes, got %d rows", len(scoped))
	}

	everything, err := reporting.AllAttempts(Caller{UserID: admin.ID, Role: admin.Role}, AttemptFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(everything) != 2 {
		t.Fatalf("admin must see every attempt, got %d", len(everything))
	}

	_, err = reporting.AllAttempts(studentCaller(student), AttemptFilter{})
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindForbidden {
		t.Fatalf("students must not reach the staff view, got %v", err)
	}
}

func TestAllAttemptsFilters(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	studentA := createUser(t, db, models.RoleStudent)
	studentB := createUser(t, db, models.RoleStudent)
	quiz := createQuiz(t, db, teacher.ID)
	assign(t, db, quiz.ID, studentA.ID)
	assign(t, db, quiz.ID, studentB.ID)

	attempts := newAttemptService(db, testClock)
	a, err := attempts.Start(quiz.ID, studentCaller(studentA))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := attempts.Submit(a.ID, studentCaller(studentA), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := attempts.Start(quiz.ID, studentCaller(studentB)); err != nil {
		t.Fatal(err)
	}

	reporting := newReportingService(db, testClock)
	caller := Caller{UserID: teacher.ID, Role: teacher.Role}

	completed := true
	rows, err := reporting.AllAttempts(caller, AttemptFilter{Completed: &completed})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].StudentID != studentA.ID {
		t.Fatalf("completed filter should match one attempt, got %d", len(rows))
	}

	rows, err = reporting.AllAttempts(caller, AttemptFilter{StudentID: &studentB.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].StudentID != studentB.ID {
		t.Fatalf("student filter should match one attempt, got %d", len(rows))
	}
}
