package access

import (
	"lms/models"
	courseModels "lms/models/course"
)

// Deny reasons returned to callers. Storage failures are not a deny;
// they must surface as their own error before Evaluate is called.
const (
	ReasonCourseUnavailable  = "CourseUnavailable"
	ReasonEnrollmentRequired = "EnrollmentRequired"
)

// Decision is the outcome of an access check
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Evaluate decides whether a user may view content belonging to a
// course. Rules are checked in order, first match wins:
//  1. Admins and the course instructor are always allowed.
//  2. An unpublished course is unavailable to everyone else.
//  3. Without an active enrollment the user must enroll first.
//
// The enrollment argument is nil when no record exists. Controllers
// must run this check before serving lessons, quizzes or assignments;
// a client-supplied enrollment flag is never trusted.
func Evaluate(user models.User, crs courseModels.Course, enrollment *courseModels.Enrollment) Decision {
	if user.Role == "ADMIN" || user.ID == crs.InstructorID {
		return allow()
	}
	if !crs.IsPublished() {
		return deny(ReasonCourseUnavailable)
	}
	if enrollment == nil || !enrollment.IsActive() {
		return deny(ReasonEnrollmentRequired)
	}
	return allow()
}
