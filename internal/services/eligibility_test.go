package services

import (
	"errors"
	"testing"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/models"
)

func TestEligibilityNotAssigned(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)
	quiz := createQuiz(t, db, teacher.ID)

	svc := NewEligibilityService(db)
	result, err := svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible {
		t.Fatal("unassigned student must be ineligible")
	}
	if result.Reason != "not assigned to this quiz" {
		t.Errorf("unexpected reason %q", result.Reason)
	}
}

func TestEligibilityInactiveQuiz(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)
	quiz := createQuiz(t, db, teacher.ID, inactive())
	assign(t, db, quiz.ID, student.ID)

	svc := NewEligibilityService(db)
	result, err := svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible || result.Reason != "quiz is not active" {
		t.Errorf("inactive quiz must be ineligible, got %+v", result)
	}
}

func TestEligibilityAlreadyCompletedBeatsTiming(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)
	// Scheduled window wide open; completion must still block.
	quiz := createQuiz(t, db, teacher.ID, withSchedule(time.Now().Add(-time.Minute), 60))
	assign(t, db, quiz.ID, student.ID)

	attempt := models.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID,
		TotalMarks: quiz.TotalMarks, StartedAt: time.Now(),
		IsCompleted: true, IsGraded: true,
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewEligibilityService(db)
	result, err := svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible || result.Reason != "already completed" {
		t.Errorf("completed attempt must block regardless of window, got %+v", result)
	}
}

func TestEligibilityScheduledWindow(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)

	scheduledAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := createQuiz(t, db, teacher.ID, withSchedule(scheduledAt, 10))
	assign(t, db, quiz.ID, student.ID)

	svc := NewEligibilityService(db)

	cases := []struct {
		name       string
		now        time.Time
		eligible   bool
		wantReason string
	}{
		{"before start", scheduledAt.Add(-time.Minute), false, "quiz has not started yet"},
		{"within grace", scheduledAt.Add(5 * time.Minute), true, ""},
		{"after grace", scheduledAt.Add(11 * time.Minute), false, "grace period to start has expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc.now = func() time.Time { return tc.now }
			result, err := svc.Check(quiz, studentCaller(student))
			if err != nil {
				t.Fatal(err)
			}
			if result.Eligible != tc.eligible {
				t.Fatalf("eligible=%v want %v (reason %q)", result.Eligible, tc.eligible, result.Reason)
			}
			if tc.wantReason != "" && result.Reason != tc.wantReason {
				t.Errorf("reason %q, want %q", result.Reason, tc.wantReason)
			}
		})
	}
}

func TestEligibilityLiveSessionLatecomer(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := createQuiz(t, db, teacher.ID, withLiveSession(start, 20))
	assign(t, db, quiz.ID, student.ID)

	svc := NewEligibilityService(db)
	// Joining at 10:03: inside the 5-minute join grace, 17 minutes left.
	svc.now = func() time.Time { return start.Add(3 * time.Minute) }

	result, err := svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Eligible {
		t.Fatalf("latecomer inside grace must be eligible, reason %q", result.Reason)
	}
	if result.EffectiveDurationMinutes == nil || *result.EffectiveDurationMinutes != 17 {
		t.Errorf("latecomer at 10:03 of a 10:00-10:20 session should get 17 minutes, got %v", result.EffectiveDurationMinutes)
	}

	// A partial minute rounds up: 16m30s left still reads as 17.
	svc.now = func() time.Time { return start.Add(3*time.Minute + 30*time.Second) }
	result, err = svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if result.EffectiveDurationMinutes == nil || *result.EffectiveDurationMinutes != 17 {
		t.Errorf("latecomer at 10:03:30 should get 17 minutes, got %v", result.EffectiveDurationMinutes)
	}
}

func TestEligibilityLiveSessionGates(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := createQuiz(t, db, teacher.ID, withLiveSession(start, 20))
	assign(t, db, quiz.ID, student.ID)

	svc := NewEligibilityService(db)

	cases := []struct {
		name       string
		now        time.Time
		wantReason string
	}{
		{"before start", start.Add(-time.Minute), "live session has not started yet"},
		{"join grace expired", start.Add(6 * time.Minute), "grace period to join has expired"},
		{"after end", start.Add(21 * time.Minute), "live session has ended"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc.now = func() time.Time { return tc.now }
			result, err := svc.Check(quiz, studentCaller(student))
			if err != nil {
				t.Fatal(err)
			}
			if result.Eligible || result.Reason != tc.wantReason {
				t.Errorf("got %+v, want reason %q", result, tc.wantReason)
			}
		})
	}
}

func TestEligibilityResumptionExemptFromJoinGrace(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := createQuiz(t, db, teacher.ID, withLiveSession(start, 20))
	assign(t, db, quiz.ID, student.ID)

	attempt := models.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID,
		TotalMarks: quiz.TotalMarks, StartedAt: start.Add(2 * time.Minute),
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewEligibilityService(db)
	// 10 minutes in: far past the join grace, but resumable.
	svc.now = func() time.Time { return start.Add(10 * time.Minute) }

	result, err := svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Eligible || !result.Resuming {
		t.Fatalf("in-progress attempt should resume past join grace, got %+v", result)
	}

	// But never past the session's end.
	svc.now = func() time.Time { return start.Add(25 * time.Minute) }
	result, err = svc.Check(quiz, studentCaller(student))
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible || result.Reason != "live session has ended" {
		t.Errorf("ended live session must block resumption, got %+v", result)
	}
}

func TestEligibilityStaffBypassesGates(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	// Inactive, unassigned, scheduled in the future: staff preview ignores all.
	quiz := createQuiz(t, db, teacher.ID, inactive(), withSchedule(time.Now().Add(time.Hour), 5), withDuration(30))

	svc := NewEligibilityService(db)
	result, err := svc.Check(quiz, Caller{UserID: teacher.ID, Role: teacher.Role})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Eligible {
		t.Fatalf("staff must bypass assignment/activity/scheduling gates, got %+v", result)
	}
	if result.EffectiveDurationMinutes == nil || *result.EffectiveDurationMinutes != 30 {
		t.Errorf("staff preview keeps the nominal duration, got %v", result.EffectiveDurationMinutes)
	}
}

func TestEligibilityStaffStillBoundByLiveWindow(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := createQuiz(t, db, teacher.ID, withLiveSession(start, 20))

	svc := NewEligibilityService(db)
	svc.now = func() time.Time { return start.Add(30 * time.Minute) }

	result, err := svc.Check(quiz, Caller{UserID: teacher.ID, Role: teacher.Role})
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible || result.Reason != "live session has ended" {
		t.Errorf("ended live session binds staff too, got %+v", result)
	}
}

func TestEligibilityLiveSessionMisconfigured(t *testing.T) {
	db := setupTestDB(t)
	teacher := createUser(t, db, models.RoleTeacher)
	student := createUser(t, db, models.RoleStudent)

	quiz := createQuiz(t, db, teacher.ID)
	quiz.IsLiveSession = true // start/end left nil
	if err := db.Save(quiz).Error; err != nil {
		t.Fatal(err)
	}
	assign(t, db, quiz.ID, student.ID)

	svc := NewEligibilityService(db)
	_, err := svc.Check(quiz, studentCaller(student))
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Kind != KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
