package models

import "time"

// Like marks a review as useful to a user.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_likes_user_message"`
	User      *User     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	MessageID uint      `json:"message_id" gorm:"not null;index;uniqueIndex:idx_likes_user_message"`
	Message   *Message  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
