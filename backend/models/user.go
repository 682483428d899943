package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"password_hash"`
	Role         string `gorm:"default:user" json:"role"` // user, admin
}

// ActivityState is the singleton per-user engagement row. Created implicitly on
// the first activity event, always written back as a whole row.
type ActivityState struct {
	gorm.Model
	UserID                uint       `gorm:"uniqueIndex;not null"`
	CurrentStreak         int        `gorm:"default:0"`
	LastActivityDate      *time.Time // UTC calendar day, nil before first activity
	TotalWatchTimeSeconds int        `gorm:"default:0"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
