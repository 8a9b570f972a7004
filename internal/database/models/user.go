package models

import (
	"time"
)

// User represents an account that owns decisions
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Decisions []Decision `gorm:"foreignKey:UserID" json:"decisions,omitempty"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
