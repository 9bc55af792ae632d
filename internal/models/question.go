package models

type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeTrueFalse   QuestionType = "true_false"
	QuestionTypeShortAnswer QuestionType = "short_answer"
)

type Question struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	QuizID        uint         `gorm:"not null;index" json:"quiz_id"`
	QuestionText  string       `gorm:"type:text;not null" json:"question_text"`
	QuestionType  QuestionType `gorm:"size:50;not null" json:"question_type"`
	OptionA       string       `gorm:"size:500" json:"option_a,omitempty"`
	OptionB       string       `gorm:"size:500" json:"option_b,omitempty"`
	OptionC       string       `gorm:"size:500" json:"option_c,omitempty"`
	OptionD       string       `gorm:"size:500" json:"option_d,omitempty"`
	CorrectAnswer string       `gorm:"size:500;not null" json:"correct_answer,omitempty"`
	Marks         float64      `gorm:"not null;default:1" json:"marks"`
	OrderNum      int          `gorm:"not null;default:0" json:"order"`
}
