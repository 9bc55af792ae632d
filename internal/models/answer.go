package models

// Answer is one response within an attempt. Autosave upserts rows keyed by
// (attempt, question) with IsCorrect unset; submit replaces every row for
// the attempt with graded ones.
type Answer struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	AttemptID    uint    `gorm:"not null;uniqueIndex:idx_answer_unique" json:"attempt_id"`
	QuestionID   uint    `gorm:"not null;uniqueIndex:idx_answer_unique" json:"question_id"`
	AnswerText   string  `gorm:"type:text" json:"answer_text"`
	IsCorrect    *bool   `json:"is_correct,omitempty"`
	MarksAwarded float64 `gorm:"not null;default:0" json:"marks_awarded"`
}
