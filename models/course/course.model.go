package course

import "gorm.io/gorm"

// Course represents a learning course owned by an instructor
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description" gorm:"type:text"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	CategoryID   uint   `json:"category_id" gorm:"index"`
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED
	ThumbnailURL string `json:"thumbnail_url"`
	IsDeleted    bool   `gorm:"default:false"`
}

// IsPublished reports whether students may see the course
func (c *Course) IsPublished() bool {
	return c.Status == "PUBLISHED"
}
