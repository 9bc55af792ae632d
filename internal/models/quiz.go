package models

import "time"

// LiveJoinGraceMinutes is how long after a live session's start a new
// participant may still join. Resuming an existing attempt is exempt.
const LiveJoinGraceMinutes = 5

type Quiz struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	CreatorID   uint   `gorm:"not null;index" json:"creator_id"`
	Creator     User   `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID   *uint  `gorm:"index" json:"subject_id,omitempty"`

	// Scheduling. A quiz is either unscheduled, scheduled (ScheduledAt +
	// grace window), or a live session with a shared wall-clock window.
	ScheduledAt        *time.Time `json:"scheduled_at,omitempty"`
	GracePeriodMinutes int        `gorm:"not null;default:5" json:"grace_period_minutes"`
	IsLiveSession      bool       `gorm:"not null;default:false" json:"is_live_session"`
	LiveStartTime      *time.Time `json:"live_start_time,omitempty"`
	LiveEndTime        *time.Time `json:"live_end_time,omitempty"`

	// DurationMinutes nil means untimed.
	DurationMinutes *int `json:"duration_minutes,omitempty"`

	// MarksPerCorrect is retained for older clients; grading awards each
	// question's own marks value instead.
	MarksPerCorrect float64 `gorm:"not null;default:1" json:"marks_per_correct"`
	NegativeMarking float64 `gorm:"not null;default:0" json:"negative_marking"`

	TotalMarks float64    `gorm:"not null;default:0" json:"total_marks"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	Questions  []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// QuizAssignment restricts which students may see and attempt a quiz.
// No row for a student means the quiz is invisible to them.
type QuizAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;uniqueIndex:idx_assignment_unique" json:"quiz_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_assignment_unique;index" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}
