package store

import (
	"errors"
	"fmt"

	"project/backend/models"

	"gorm.io/gorm"
)

// GormStore implements ProgressStore on top of a gorm connection.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetActivityState(userID uint) (*models.ActivityState, error) {
	var state models.ActivityState
	if err := s.DB.Where("user_id = ?", userID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity state: %w", err)
	}
	return &state, nil
}

func (s *GormStore) PutActivityState(userID uint, state *models.ActivityState) error {
	state.UserID = userID
	if err := s.DB.Save(state).Error; err != nil {
		return fmt.Errorf("put activity state: %w", err)
	}
	return nil
}

func (s *GormStore) GetLessonProgress(userID, lessonID uint) (*models.LessonProgress, error) {
	var progress models.LessonProgress
	if err := s.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson progress: %w", err)
	}
	return &progress, nil
}

func (s *GormStore) PutLessonProgress(userID, lessonID uint, progress *models.LessonProgress) error {
	progress.UserID = userID
	progress.LessonID = lessonID
	if err := s.DB.Save(progress).Error; err != nil {
		return fmt.Errorf("put lesson progress: %w", err)
	}
	return nil
}

func (s *GormStore) ListLessonProgress(userID, courseID uint) ([]models.LessonProgress, error) {
	var progresses []models.LessonProgress
	err := s.DB.
		Joins("JOIN content_items ON content_items.id = lesson_progresses.lesson_id").
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("lesson_progresses.user_id = ? AND course_modules.course_id = ? AND content_items.type = ?",
			userID, courseID, models.ContentLesson).
		Find(&progresses).Error
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	return progresses, nil
}

func (s *GormStore) AppendQuizAttempt(userID, quizID uint, attempt *models.QuizAttempt) error {
	attempt.UserID = userID
	attempt.QuizID = quizID
	if err := s.DB.Create(attempt).Error; err != nil {
		return fmt.Errorf("append quiz attempt: %w", err)
	}
	return nil
}

func (s *GormStore) ListQuizAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("submitted_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	return attempts, nil
}

func (s *GormStore) UserExists(userID uint) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) QuizExists(quizID uint) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check quiz: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) LessonExists(lessonID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ContentItem{}).
		Where("id = ? AND type = ?", lessonID, models.ContentLesson).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check lesson: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) CountCourseLessons(courseID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ContentItem{}).
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("course_modules.course_id = ? AND content_items.type = ?", courseID, models.ContentLesson).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count course lessons: %w", err)
	}
	return count, nil
}

func (s *GormStore) LessonBelongsToCourse(lessonID, courseID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ContentItem{}).
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("content_items.id = ? AND course_modules.course_id = ? AND content_items.type = ?",
			lessonID, courseID, models.ContentLesson).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check lesson course: %w", err)
	}
	return count > 0, nil
}
