package models

import "time"

// Content moderation states.
const (
	StatusPending  = "pending"
	StatusArchived = "archived"
	StatusOnline   = "online"
)

// Content represents one CMS article (markdown body plus hero image).
type Content struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string `json:"title" gorm:"not null"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"image_url" gorm:"default:''"`
	Body     string `json:"body" gorm:"type:text;not null"`

	CreatedByID uint   `json:"created_by" gorm:"index;not null"`
	Status      string `json:"status" gorm:"index;default:'pending'"` // pending, archived, online
	EstReadTime int    `json:"est_read_time" gorm:"default:0"`        // minutes
	IsApproved  bool   `json:"is_approved" gorm:"default:false"`
}

// TableName sets the explicit table name for GORM.
func (Content) TableName() string {
	return "contents"
}
