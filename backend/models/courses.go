package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string
	ShortDesc   string
	Description string
	Difficulty  string // beginner, intermediate, advanced
	Topic       string
	AuthorID    uint
	LogoURL     string
	Modules     []CourseModule
}

type CourseModule struct {
	gorm.Model
	CourseID      uint
	Title         string
	SequenceOrder int
	Contents      []ContentItem `gorm:"foreignKey:ModuleID"`
}

// Content item types.
const (
	ContentLesson  = "lesson"
	ContentReading = "reading"
	ContentQuiz    = "quiz"
)

// ContentItem is one entry inside a module: a video lesson, a reading, or a
// quiz pointer. Lesson progress rows key on the content item ID.
type ContentItem struct {
	gorm.Model
	ModuleID        uint
	Type            string `gorm:"default:lesson"`
	Title           string
	Body            string
	VideoURL        string
	DurationSeconds int
	SequenceOrder   int
	QuizID          uint // set when Type == quiz
}
