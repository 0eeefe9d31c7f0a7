package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultUserImage is shown when a user signs up without an avatar URL.
const DefaultUserImage = "/static/images/default-pic.png"

// User is a registered Food Roulette account.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	ImageURL  string    `json:"image_url" gorm:"default:/static/images/default-pic.png"`
	Location  string    `json:"location" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SignupRequest is the signup form.
type SignupRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6"`
	Location string `form:"location" validate:"required"`
	ImageURL string `form:"image_url" validate:"omitempty,url"`
}

// LoginRequest is the login form; the JSON tags serve the token endpoint.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"min=6"`
}

// UpdateUserRequest is the profile edit form. Password must be the current one.
type UpdateUserRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	ImageURL string `form:"image_url" validate:"omitempty,url"`
	Location string `form:"location" validate:"required"`
	Password string `form:"password"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
