package models

import "time"

// User roles stored alongside credentials.
const (
	UserRoleAdmin   = "admin"
	UserRoleStudent = "student"
)

// Default learning preferences applied to new and unknown accounts.
const (
	DefaultLearningStyle = "Visual"
	DefaultInterest      = "Computer Science"
)

// User is an account in the credential store. Student accounts use the
// numeric student id as username.
type User struct {
	Username       string    `gorm:"primaryKey;size:64" json:"username"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"size:32;not null;default:student" json:"role"`
	FullName       string    `gorm:"size:255" json:"full_name"`
	LearningStyle  string    `gorm:"size:64;default:Visual" json:"learning_style"`
	Interest       string    `gorm:"size:128;default:'Computer Science'" json:"interest"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
