package store

import "project/backend/models"

// ProgressStore is the datastore facade the activity and progress engines talk
// to. Reads of absent rows return (nil, nil); only transport/query failures are
// errors. Writes save whole rows keyed by user (and lesson/quiz where noted).
type ProgressStore interface {
	GetActivityState(userID uint) (*models.ActivityState, error)
	PutActivityState(userID uint, state *models.ActivityState) error

	GetLessonProgress(userID, lessonID uint) (*models.LessonProgress, error)
	PutLessonProgress(userID, lessonID uint, progress *models.LessonProgress) error
	ListLessonProgress(userID, courseID uint) ([]models.LessonProgress, error)

	AppendQuizAttempt(userID, quizID uint, attempt *models.QuizAttempt) error
	ListQuizAttempts(userID, quizID uint) ([]models.QuizAttempt, error)

	// Catalog lookups used for validation and course-level aggregation.
	UserExists(userID uint) (bool, error)
	QuizExists(quizID uint) (bool, error)
	LessonExists(lessonID uint) (bool, error)
	CountCourseLessons(courseID uint) (int64, error)
	LessonBelongsToCourse(lessonID, courseID uint) (bool, error)
}
