package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz question types
const (
	QuizMultipleChoice = "multiple_choice"
	QuizTrueFalse      = "true_false"
	QuizText           = "text"
)

// Quiz is an objectively-scored question attached to a lesson.
// Options is a JSON array of strings and must be present exactly
// when QuizType is multiple_choice.
type Quiz struct {
	gorm.Model
	LessonID  uint           `json:"lesson_id" gorm:"index;not null"`
	Question  string         `json:"question" gorm:"type:text;not null"`
	QuizType  string         `json:"quiz_type" gorm:"default:'multiple_choice'"`
	Options   datatypes.JSON `json:"options"`
	Answer    string         `json:"answer" gorm:"not null"`
	Points    int            `json:"points" gorm:"default:1"` // 1-100
	IsDeleted bool           `gorm:"default:false"`
}

// QuizAttempt records one scored submission of a lesson's quiz set.
type QuizAttempt struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index;not null"`
	LessonID     uint   `json:"lesson_id" gorm:"index;not null"`
	Answers      string `json:"answers" gorm:"type:text"` // JSON map of quiz id -> submitted answer
	CorrectCount int    `json:"correct_count"`
	Total        int    `json:"total"`
	Percentage   int    `json:"percentage"`
	IsDeleted    bool   `gorm:"default:false"`
}
