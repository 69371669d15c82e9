package course

import "gorm.io/gorm"

// Lesson represents a single unit of content within a module.
// OrderIndex is unique per course so lessons form a total order
// used for progress and next/previous navigation.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`                       // optional
	TextContent string `json:"text_content" gorm:"type:text"`   // optional
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// LessonCompletion tracks a user's completion of a lesson.
// The unique index enforces at most one row per (user, course, lesson);
// completing twice is a no-op. Re-enrolling after a withdrawal removes
// the old cycle's rows so the index stays satisfiable.
type LessonCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_completion_user_course_lesson;not null"`
	CourseID  uint `json:"course_id" gorm:"uniqueIndex:idx_completion_user_course_lesson;not null"`
	LessonID  uint `json:"lesson_id" gorm:"uniqueIndex:idx_completion_user_course_lesson;not null"`
	IsDeleted bool `gorm:"default:false"`
}
