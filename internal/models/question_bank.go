package models

import "time"

// QuestionBankItem is a reusable question owned by a subject, copied into
// quizzes at creation time rather than referenced.
type QuestionBankItem struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	SubjectID       uint         `gorm:"not null;index" json:"subject_id"`
	QuestionText    string       `gorm:"type:text;not null" json:"question_text"`
	QuestionType    QuestionType `gorm:"size:50;not null" json:"question_type"`
	OptionA         string       `gorm:"size:500" json:"option_a,omitempty"`
	OptionB         string       `gorm:"size:500" json:"option_b,omitempty"`
	OptionC         string       `gorm:"size:500" json:"option_c,omitempty"`
	OptionD         string       `gorm:"size:500" json:"option_d,omitempty"`
	CorrectAnswer   string       `gorm:"size:500;not null" json:"correct_answer"`
	DifficultyLevel string       `gorm:"size:20" json:"difficulty_level,omitempty"`
	Topic           string       `gorm:"size:200" json:"topic,omitempty"`
	CreatedBy       *uint        `json:"created_by,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (QuestionBankItem) TableName() string {
	return "question_bank"
}
