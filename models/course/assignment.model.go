package course

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is an instructor-graded task attached to a lesson
type Assignment struct {
	gorm.Model
	LessonID            uint       `json:"lesson_id" gorm:"index;not null"`
	CourseID            uint       `json:"course_id" gorm:"index;not null"`
	Title               string     `json:"title"`
	Description         string     `json:"description" gorm:"type:text"`
	DueDate             *time.Time `json:"due_date"`
	MaxPoints           int        `json:"max_points" gorm:"default:100"` // 1-1000
	AllowLateSubmission bool       `json:"allow_late_submission" gorm:"default:false"`
	LatePenaltyPercent  int        `json:"late_penalty_percent" gorm:"default:0"` // 0-100
	IsDeleted           bool       `gorm:"default:false"`
}

// IsClosed reports whether new submissions are rejected: the due date
// has passed and late submissions are not allowed.
func (a *Assignment) IsClosed(now time.Time) bool {
	if a.DueDate == nil {
		return false
	}
	return now.After(*a.DueDate) && !a.AllowLateSubmission
}
