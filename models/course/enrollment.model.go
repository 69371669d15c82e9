package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. COMPLETED and WITHDRAWN are terminal for the
// current enrollment cycle; enrolling again after a withdrawal starts
// a fresh cycle at progress 0.
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentWithdrawn = "WITHDRAWN"
)

// Enrollment ties a user to a course with progress. The unique index
// guarantees one record per (user, course) pair; re-enrolling after a
// withdrawal reuses the row but starts a logically fresh cycle.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	Status      string     `json:"status" gorm:"default:'ACTIVE'"`
	Progress    int        `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	WithdrawnAt *time.Time `json:"withdrawn_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// IsActive reports whether the enrollment still grants content access.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive || e.Status == EnrollmentCompleted
}
