package models

import (
	"time"

	"gorm.io/gorm"
)

// Lesson progress statuses. Transitions only move forward:
// not_started -> in_progress -> completed.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// StatusRank orders the lesson statuses for forward-only transitions.
// Unknown values rank below not_started so they can never overwrite anything.
func StatusRank(status string) int {
	switch status {
	case StatusNotStarted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// ValidStatus reports whether status is one of the known lesson statuses.
func ValidStatus(status string) bool {
	return StatusRank(status) >= 0
}

type LessonProgress struct {
	gorm.Model
	UserID         uint   `gorm:"index:idx_lesson_progress_user_lesson,unique"`
	LessonID       uint   `gorm:"index:idx_lesson_progress_user_lesson,unique"`
	Status         string `gorm:"default:not_started"`
	WatchedSeconds int    `gorm:"default:0"`
	CompletedAt    *time.Time
}

// CourseProgress is derived from the lesson progress rows of a course.
// It is never stored; callers recompute it after any status change.
type CourseProgress struct {
	CourseID   uint `json:"course_id"`
	Completed  int  `json:"completed"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
}
