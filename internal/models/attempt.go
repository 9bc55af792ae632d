package models

import "time"

// QuizAttempt is one student's pass at a quiz. It is created in-progress
// and flips to completed exactly once at submit; there is no stored
// "expired" state, expiry is derived from the quiz timing at read time.
type QuizAttempt struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	QuizID    uint `gorm:"not null;index" json:"quiz_id"`
	Quiz      Quiz `gorm:"foreignKey:QuizID" json:"-"`
	StudentID uint `gorm:"not null;index" json:"student_id"`
	Student   User `gorm:"foreignKey:StudentID" json:"-"`

	Score float64 `gorm:"not null;default:0" json:"score"`
	// TotalMarks is snapshotted from the quiz at start so later edits to
	// the quiz cannot change historical percentages.
	TotalMarks float64 `gorm:"not null" json:"total_marks"`
	Percentage float64 `gorm:"not null;default:0" json:"percentage"`

	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	TimeTakenMinutes *int       `json:"time_taken_minutes,omitempty"`

	// Always set together today; kept separate so grading could become
	// asynchronous without a schema change.
	IsCompleted bool `gorm:"not null;default:false" json:"is_completed"`
	IsGraded    bool `gorm:"not null;default:false" json:"is_graded"`

	Answers []Answer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}
