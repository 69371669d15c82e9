package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
)

// InitializeReminderScheduler sets up the assignment due-date reminder job
func InitializeReminderScheduler() {
	log.Println("[REMINDER-SCHEDULER] Initializing assignment reminder scheduler...")

	c := cron.New()

	// Run daily at 9 AM to remind students about upcoming deadlines
	c.AddFunc("0 9 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily assignment reminder check...")
		ProcessDueSoonAssignments()
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Reminder scheduler started - runs daily at 9 AM")
}

// ProcessDueSoonAssignments emails enrolled students who have not yet
// submitted an assignment due within the next 24 hours
func ProcessDueSoonAssignments() {
	db := database.Database.Db
	now := time.Now()
	cutoff := now.Add(24 * time.Hour)

	var assignments []courseModels.Assignment
	if err := db.
		Where("due_date IS NOT NULL AND is_deleted = ?", false).
		Where("due_date BETWEEN ? AND ?", now, cutoff).
		Find(&assignments).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching due assignments: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d assignments due soon", len(assignments))

	for _, asg := range assignments {
		var course courseModels.Course
		if err := db.Where("id = ?", asg.CourseID).First(&course).Error; err != nil {
			continue
		}

		var enrollments []courseModels.Enrollment
		if err := db.
			Where("course_id = ? AND status = ? AND is_deleted = ?",
				asg.CourseID, courseModels.EnrollmentActive, false).
			Find(&enrollments).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching enrollments for course %d: %v", asg.CourseID, err)
			continue
		}

		for _, enrollment := range enrollments {
			// Skip students who already submitted
			var submitted int64
			db.Model(&courseModels.Submission{}).
				Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", asg.ID, enrollment.UserID, false).
				Count(&submitted)
			if submitted > 0 {
				continue
			}

			var user models.User
			if err := db.Where("id = ?", enrollment.UserID).First(&user).Error; err != nil {
				continue
			}

			SendDueSoonEmail(user.Email, user.Name, asg.Title, course.Title, asg.DueDate.Format("January 2, 2006 at 3:04 PM"))
			log.Printf("[REMINDER-SCHEDULER] Sent due-soon reminder for assignment %d to %s", asg.ID, user.Email)
		}
	}
}
