package progress

import courseModels "lms/models/course"

// Compute returns the completion percentage for an enrollment:
// floor(100 * completed / total) against the lesson count at the time
// of the call. Progress is always recomputed from counts, never
// incremented, so re-running the same completion converges to the
// same value. A course that gains lessons later lowers existing
// percentages; that is intended.
func Compute(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	if completed < 0 {
		return 0
	}
	return completed * 100 / total
}

// StatusFor maps a progress percentage to the enrollment status for
// the current cycle. Only 100 completes an enrollment.
func StatusFor(pct int) string {
	if pct >= 100 {
		return courseModels.EnrollmentCompleted
	}
	return courseModels.EnrollmentActive
}
