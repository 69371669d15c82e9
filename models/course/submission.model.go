package course

import (
	"time"

	"gorm.io/gorm"
)

// Submission is a student's answer to an assignment. At most one
// active submission per (assignment, user) pair; re-submission is
// rejected so an instructor's grade is never silently invalidated.
// Version is bumped on every grade write; graders must send the
// version they read, a mismatch means a concurrent modification.
type Submission struct {
	gorm.Model
	AssignmentID uint      `json:"assignment_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Content      string    `json:"content" gorm:"type:text"` // optional, but content or file required
	FileURL      string    `json:"file_url"`                 // optional
	SubmittedAt  time.Time `json:"submitted_at"`
	IsLate       bool      `json:"is_late" gorm:"default:false"`
	Grade        *int      `json:"grade"` // raw grade, 0..assignment.MaxPoints; penalty applied at read time
	Feedback     string    `json:"feedback" gorm:"type:text"`
	GradedBy     *uint     `json:"graded_by"`
	GradedAt     *time.Time `json:"graded_at"`
	Version      int       `json:"version" gorm:"default:1"`
	IsDeleted    bool      `gorm:"default:false"`
}
