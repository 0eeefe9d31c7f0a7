package models

import "time"

// Message is a review a user writes about a meal they liked, eaten at one of
// the restaurants they linked to that like.
type Message struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;index"`
	User           *User      `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Text           string     `json:"text" gorm:"not null"`
	MealsLikedID   uint       `json:"meals_liked_id" gorm:"not null;index"`
	MealLiked      *MealLiked `json:"meal_liked,omitempty" gorm:"foreignKey:MealsLikedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RestaurantInfo string     `json:"restaurant_info" gorm:"not null"` // yelp id picked in the form
	Timestamp      time.Time  `json:"timestamp" gorm:"not null;autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

// CreateMessageRequest is the new review form.
type CreateMessageRequest struct {
	Restaurant string `form:"restaurant" validate:"required"`
	Meal       uint   `form:"meal" validate:"required"`
	Text       string `form:"text" validate:"required"`
}
