package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	courseModels "lms/models/course"
)

func TestComputeFloors(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty course", 0, 0, 0},
		{"nothing done", 0, 4, 0},
		{"one of three floors down", 1, 3, 33},
		{"two of three floors down", 2, 3, 66},
		{"half", 2, 4, 50},
		{"all done", 4, 4, 100},
		{"more completions than lessons clamps", 5, 4, 100},
		{"negative completed clamps", -1, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.completed, tt.total))
		})
	}
}

// Course with 4 lessons: completing 1 and 2 gives 50% active,
// completing 3 and 4 gives 100% completed.
func TestFourLessonScenario(t *testing.T) {
	total := 4

	p := Compute(2, total)
	assert.Equal(t, 50, p)
	assert.Equal(t, courseModels.EnrollmentActive, StatusFor(p))

	p = Compute(4, total)
	assert.Equal(t, 100, p)
	assert.Equal(t, courseModels.EnrollmentCompleted, StatusFor(p))
}

func TestRecomputeConverges(t *testing.T) {
	// Re-running the same inputs always yields the same percentage.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 75, Compute(3, 4))
	}
}

func TestCourseGainingLessonsLowersProgress(t *testing.T) {
	assert.Equal(t, 100, Compute(4, 4))
	assert.Equal(t, 80, Compute(4, 5))
}
