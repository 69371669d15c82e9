package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// NotifyCourseCompleted posts a completion event to the configured
// webhook URL. No-op when no URL is configured.
func NotifyCourseCompleted(userID uint, courseID uint, courseTitle string) {
	webhookURL := config.AppConfig.WebhookURL
	if webhookURL == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":        "course.completed",
			"user_id":      userID,
			"course_id":    courseID,
			"course_title": courseTitle,
			"completed_at": time.Now().UTC().Format(time.RFC3339),
		}).
		Post(webhookURL)
	if err != nil {
		log.Printf("Failed to deliver completion webhook: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Completion webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}
}
