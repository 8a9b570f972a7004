package models

import (
	"time"
)

// Decision is a single pro/con deliberation owned by one user.
// UpdatedAt is a watermark: any mutation of the decision or one of its
// items re-stamps it, and list views are ordered by it.
type Decision struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Archived  bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Items partitioned by type, populated by the service layer
	Pros []Item `gorm:"-" json:"pros"`
	Cons []Item `gorm:"-" json:"cons"`
}

// TableName overrides the table name
func (Decision) TableName() string {
	return "decisions"
}
