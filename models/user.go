package models

import "time"

// User is a registered account on the platform.
type User struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"`
	ProfileImg string `json:"profile_img,omitempty"`
	Role       string `json:"role" gorm:"index;not null"` // e.g. "admin", "editor"
}

// TableName sets the explicit table name for GORM.
func (User) TableName() string {
	return "users"
}
