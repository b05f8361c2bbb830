package models

import "time"

// ContentLike records a like on a piece of content. Authenticated likes are
// keyed by user, anonymous likes by client IP (UserID stays NULL).
type ContentLike struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ContentID uint   `json:"content" gorm:"index;not null"`
	UserID    *uint  `json:"user,omitempty" gorm:"index"`
	IPAddress string `json:"-" gorm:"index;not null"`
}

// TableName sets the explicit table name for GORM.
func (ContentLike) TableName() string {
	return "content_likes"
}

// Comment is a comment on a piece of content, authenticated or anonymous.
type Comment struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContentID   uint   `json:"content" gorm:"index;not null"`
	Body        string `json:"body" gorm:"type:text;not null"`
	CreatedByID *uint  `json:"created_by,omitempty" gorm:"index"` // NULL implies anonymous
	IPAddress   string `json:"-" gorm:"index;not null"`
	LikeCnt     int    `json:"like_cnt" gorm:"default:0"`
}

// TableName sets the explicit table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
