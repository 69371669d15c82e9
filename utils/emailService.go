package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #43A047; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #43A047; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. Browse the course catalog and start learning today.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<p>Your progress starts at 0%%. Complete lessons to move toward your certificate.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open the course and start with the first lesson.
		</div>
	`, name, courseTitle)

	SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 3. Course Completed
func SendCourseCompletedEmail(email, name, courseTitle string) {
	subject := "Congratulations! You completed " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have completed every lesson in <strong>%s</strong>. Well done!</p>
		<p>You can now request your course certificate from your dashboard.</p>
		<a href="#" class="btn">Request Certificate</a>
	`, name, courseTitle)

	SendEmail([]string{email}, subject, getEmailTemplate("Course Completed", body))
}

// 4. Assignment Graded
func SendGradeEmail(email, name, assignmentTitle string, grade int) {
	subject := "Your assignment has been graded: " + assignmentTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your submission for <strong>%s</strong> has been graded.</p>
		<div class="info-box">
			<strong>Grade:</strong> %d
		</div>
		<p>Open the assignment to read your instructor's feedback.</p>
	`, name, assignmentTitle, grade)

	SendEmail([]string{email}, subject, getEmailTemplate("Assignment Graded", body))
}

// 5. Certificate Issued
func SendCertificateEmail(email, name, courseTitle, certNumber string) {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> has been issued.</p>
		<div class="info-box">
			<strong>Certificate Number:</strong> %s
		</div>
		<p>You can download it anytime from your dashboard.</p>
	`, name, courseTitle, certNumber)

	SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// 6. Assignment Due Soon (reminder scheduler)
func SendDueSoonEmail(email, name, assignmentTitle, courseTitle, dueStr string) {
	subject := "Reminder: " + assignmentTitle + " is due soon"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The assignment <strong>%s</strong> in <strong>%s</strong> is due on <strong>%s</strong>.</p>
		<p>Submit before the deadline to avoid a late penalty.</p>
	`, name, assignmentTitle, courseTitle, dueStr)

	SendEmail([]string{email}, subject, getEmailTemplate("Assignment Due Soon", body))
}
