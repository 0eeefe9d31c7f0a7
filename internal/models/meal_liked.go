package models

// MealLiked records that a user liked a meal. Unliking clears IsActive instead
// of deleting the row, so the (user, meal) pair stays unique across re-likes.
type MealLiked struct {
	ID       uint  `json:"id" gorm:"primaryKey"`
	MealID   uint  `json:"meal_id" gorm:"not null;index;uniqueIndex:idx_meals_liked_meal_user"`
	Meal     *Meal `json:"meal,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID   uint  `json:"user_id" gorm:"not null;index;uniqueIndex:idx_meals_liked_meal_user"`
	User     *User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IsActive bool  `json:"is_active" gorm:"not null;default:true"`
}

func (MealLiked) TableName() string {
	return "meals_liked"
}

// Active reports whether the like is currently shown.
func (m *MealLiked) Active() bool {
	return m.IsActive
}

// SetActive flips the soft-delete flag.
func (m *MealLiked) SetActive(on bool) {
	m.IsActive = on
}
