package grading

import (
	"strings"

	courseModels "lms/models/course"
)

// Result is the outcome of scoring one quiz set
type Result struct {
	CorrectCount int `json:"correct_count"`
	Total        int `json:"total"`
	Percentage   int `json:"percentage"`
}

// AnswerMatches compares a submitted answer with the stored one.
// Matching is exact after trimming whitespace and ignoring case;
// there is no partial credit.
func AnswerMatches(submitted, stored string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(stored))
}

// ScoreQuizSet scores a set of quizzes against a map of quiz id to
// submitted answer. Unanswered quizzes count as wrong. The same
// inputs always produce the same result.
func ScoreQuizSet(quizzes []courseModels.Quiz, answers map[uint]string) Result {
	res := Result{Total: len(quizzes)}
	for _, q := range quizzes {
		if ans, ok := answers[q.ID]; ok && AnswerMatches(ans, q.Answer) {
			res.CorrectCount++
		}
	}
	if res.Total > 0 {
		res.Percentage = (res.CorrectCount*100 + res.Total/2) / res.Total
	}
	return res
}

// ApplyLatePenalty returns the displayed grade for a late submission.
// The stored grade stays raw so it remains auditable against the
// instructor's input; the penalty is a read-time view.
func ApplyLatePenalty(grade, penaltyPercent int) int {
	if penaltyPercent <= 0 {
		return grade
	}
	if penaltyPercent >= 100 {
		return 0
	}
	return grade * (100 - penaltyPercent) / 100
}

// DisplayGrade resolves the grade shown to callers for a submission,
// applying the assignment's late penalty when it applies. Returns nil
// when the submission has not been graded.
func DisplayGrade(sub courseModels.Submission, asg courseModels.Assignment) *int {
	if sub.Grade == nil {
		return nil
	}
	g := *sub.Grade
	if sub.IsLate && asg.AllowLateSubmission {
		g = ApplyLatePenalty(g, asg.LatePenaltyPercent)
	}
	return &g
}
