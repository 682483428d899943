package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	gorm.Model
	Title     string
	ShortDesc string
	AuthorID  uint
	Questions []QuizQuestion
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint
	Question      string
	Options       string // JSON array of options
	CorrectAnswer int
	SequenceOrder int
}

// QuizAttempt is an append-only record of one submission. Attempts are never
// updated or deleted; the "best" attempt is derived when queried.
type QuizAttempt struct {
	gorm.Model
	UserID      uint `gorm:"index:idx_quiz_attempts_user_quiz"`
	QuizID      uint `gorm:"index:idx_quiz_attempts_user_quiz"`
	Score       float64
	Answers     string // JSON array of submitted answers
	SubmittedAt time.Time
}
