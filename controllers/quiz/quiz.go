package quizController

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/access"
	"lms/services/grading"
)

// QuizInput is the validated shape for quiz create/update
type QuizInput struct {
	LessonID uint     `json:"lesson_id"`
	Question string   `json:"question"`
	QuizType string   `json:"quiz_type"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Points   int      `json:"points"`
}

// QuizBulkInput is the validated shape for creating several quizzes
// on one lesson in a single request
type QuizBulkInput struct {
	Quizzes []QuizInput `json:"quizzes"`
}

// quizFromInput builds the storable row; multiple choice options are
// serialized into the JSON column
func quizFromInput(lessonID uint, reqData QuizInput) (courseModels.Quiz, error) {
	quiz := courseModels.Quiz{
		LessonID: lessonID,
		Question: reqData.Question,
		QuizType: reqData.QuizType,
		Answer:   reqData.Answer,
		Points:   reqData.Points,
	}

	if reqData.QuizType == courseModels.QuizMultipleChoice {
		raw, err := json.Marshal(reqData.Options)
		if err != nil {
			return quiz, err
		}
		quiz.Options = datatypes.JSON(raw)
	}

	return quiz, nil
}

// lessonCourse loads the lesson and its course, writing the 404
// response itself on a miss
func lessonCourse(c *fiber.Ctx, lessonID uint) (*courseModels.Lesson, *courseModels.Course) {
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		return nil, nil
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, nil
	}

	return &lesson, &course
}

// CreateQuiz adds a quiz to a lesson. Only the course instructor or
// an admin may create quizzes.
func CreateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, course := lessonCourse(c, reqData.LessonID)
	if lesson == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	quiz, err := quizFromInput(lesson.ID, *reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid options!", nil)
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// BulkCreateQuizzes adds several quizzes to a lesson in one request.
// The batch is transactional, either every quiz is created or none.
func BulkCreateQuizzes(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuizzes").(*QuizBulkInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	lesson, course := lessonCourse(c, uint(lessonID))
	if lesson == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	quizzes := make([]courseModels.Quiz, 0, len(reqData.Quizzes))
	for _, input := range reqData.Quizzes {
		quiz, err := quizFromInput(lesson.ID, input)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid options!", nil)
		}
		quizzes = append(quizzes, quiz)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		for i := range quizzes {
			if err := tx.Create(&quizzes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error bulk creating quizzes for lesson %d: %v", lessonID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quizzes created successfully!", quizzes)
}

// GetQuiz returns a single quiz with its answer (course owner or admin)
func GetQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	_, course := lessonCourse(c, quiz.LessonID)
	if course == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

// DuplicateQuiz copies a quiz onto the same lesson so instructors can
// tweak a variant without retyping it
func DuplicateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	_, course := lessonCourse(c, quiz.LessonID)
	if course == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	clone := courseModels.Quiz{
		LessonID: quiz.LessonID,
		Question: quiz.Question,
		QuizType: quiz.QuizType,
		Options:  quiz.Options,
		Answer:   quiz.Answer,
		Points:   quiz.Points,
	}
	if err := database.Database.Db.Create(&clone).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to duplicate quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz duplicated successfully!", clone)
}

// UpdateQuiz replaces a quiz's fields
func UpdateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	_, course := lessonCourse(c, quiz.LessonID)
	if course == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz.Question = reqData.Question
	quiz.QuizType = reqData.QuizType
	quiz.Answer = reqData.Answer
	quiz.Points = reqData.Points
	quiz.Options = nil

	if reqData.QuizType == courseModels.QuizMultipleChoice {
		raw, err := json.Marshal(reqData.Options)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid options!", nil)
		}
		quiz.Options = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// DeleteQuiz soft deletes a quiz
func DeleteQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	_, course := lessonCourse(c, quiz.LessonID)
	if course == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	quiz.IsDeleted = true
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// studentQuizView hides the stored answer from students
type studentQuizView struct {
	ID       uint           `json:"id"`
	LessonID uint           `json:"lesson_id"`
	Question string         `json:"question"`
	QuizType string         `json:"quiz_type"`
	Options  datatypes.JSON `json:"options,omitempty"`
	Points   int            `json:"points"`
}

// GetLessonQuizzes lists a lesson's quizzes. Access is gated like the
// lesson itself; students never receive the correct answers.
func GetLessonQuizzes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	lesson, course := lessonCourse(c, uint(lessonID))
	if lesson == nil {
		return nil
	}

	enrollment, err := loadEnrollment(userID, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}

	decision := access.Evaluate(user, *course, enrollment)
	if !decision.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", decision)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Order("id asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	// Instructors and admins see the answers
	if user.Role == "ADMIN" || user.ID == course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
	}

	views := make([]studentQuizView, len(quizzes))
	for i, q := range quizzes {
		views[i] = studentQuizView{
			ID:       q.ID,
			LessonID: q.LessonID,
			Question: q.Question,
			QuizType: q.QuizType,
			Options:  q.Options,
			Points:   q.Points,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", views)
}

// SubmitQuizAnswers scores a student's answers for a lesson's quiz
// set and records the attempt
func SubmitQuizAnswers(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	lesson, course := lessonCourse(c, uint(lessonID))
	if lesson == nil {
		return nil
	}

	enrollment, err := loadEnrollment(userID, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}

	decision := access.Evaluate(user, *course, enrollment)
	if !decision.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", decision)
	}

	reqData, ok := c.Locals("validatedAnswers").(*struct {
		Answers map[uint]string `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Order("id asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	if len(quizzes) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No quizzes for this lesson!", nil)
	}

	result := grading.ScoreQuizSet(quizzes, reqData.Answers)

	answersJSON, _ := json.Marshal(reqData.Answers)
	attempt := courseModels.QuizAttempt{
		UserID:       userID,
		LessonID:     lesson.ID,
		Answers:      string(answersJSON),
		CorrectCount: result.CorrectCount,
		Total:        result.Total,
		Percentage:   result.Percentage,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		log.Printf("Error saving quiz attempt for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"attempt": attempt,
		"result":  result,
	})
}

// GetQuizStats summarizes attempts for a lesson's quiz set
// (instructor or admin only)
func GetQuizStats(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	lesson, course := lessonCourse(c, uint(lessonID))
	if lesson == nil {
		return nil
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	var attempts int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Count(&attempts)

	var avgPercentage float64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Select("COALESCE(AVG(percentage), 0)").Scan(&avgPercentage)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz stats fetched successfully!", fiber.Map{
		"attempts":       attempts,
		"avg_percentage": avgPercentage,
	})
}

// loadEnrollment fetches a non-withdrawn enrollment, nil when absent
func loadEnrollment(userID uint, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
			userID, courseID, courseModels.EnrollmentWithdrawn, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}
