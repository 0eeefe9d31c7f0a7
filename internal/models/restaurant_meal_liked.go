package models

// DefaultRestaurantPhoto is stored when the business search returns no photo.
const DefaultRestaurantPhoto = "/static/images/default-restaurant.png"

// RestaurantMealLiked links a liked meal to a restaurant that serves it. The
// restaurant fields are copied from the business search at like time.
//
// A user may like the same restaurant for several meals, so (yelp id, user)
// is not unique; only (meal like, yelp id) is.
type RestaurantMealLiked struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	RestaurantName    string     `json:"restaurant_name" gorm:"not null"`
	RestaurantYelpID  string     `json:"restaurant_yelp_id" gorm:"not null;index;uniqueIndex:idx_restaurant_meal_liked_pair"`
	RestaurantAddress string     `json:"restaurant_address" gorm:"not null"`
	RestaurantRating  float64    `json:"restaurant_rating"`
	RestaurantURL     string     `json:"restaurant_url" gorm:"not null"`
	RestaurantPhoto   string     `json:"restaurant_photo" gorm:"default:/static/images/default-restaurant.png"`
	MealsLikedID      uint       `json:"meals_liked_id" gorm:"not null;uniqueIndex:idx_restaurant_meal_liked_pair"`
	MealLiked         *MealLiked `json:"meal_liked,omitempty" gorm:"foreignKey:MealsLikedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID            uint       `json:"user_id" gorm:"not null;index"`
	User              *User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	IsActive          bool       `json:"is_active" gorm:"not null;default:true"`
}

func (RestaurantMealLiked) TableName() string {
	return "restaurants_meals_liked"
}

// Active reports whether the like is currently shown.
func (r *RestaurantMealLiked) Active() bool {
	return r.IsActive
}

// SetActive flips the soft-delete flag.
func (r *RestaurantMealLiked) SetActive(on bool) {
	r.IsActive = on
}

// RestaurantSummary is one distinct restaurant across a user's meal likes.
type RestaurantSummary struct {
	RestaurantYelpID string `json:"yelp_id"`
	RestaurantName   string `json:"name"`
	RestaurantURL    string `json:"url,omitempty"`
	RestaurantPhoto  string `json:"photo,omitempty"`
}

// RestaurantOption is the JSON shape used by the review form to list the
// restaurants liked for one meal.
type RestaurantOption struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	MealLikedID uint   `json:"meal_liked_id"`
	YelpID      string `json:"yelp_id"`
}

// LikeRestaurantRequest is the form posted from the restaurant search page.
type LikeRestaurantRequest struct {
	RestaurantName    string   `form:"restaurant_name" validate:"required"`
	YelpID            string   `form:"yelp_id" validate:"required"`
	MealsLikedID      uint     `form:"meals_liked_id" validate:"required"`
	RestaurantAddress []string `form:"restaurant_address"`
	Rating            float64  `form:"rating" validate:"min=0,max=5"`
	RestaurantURL     string   `form:"restaurant_url" validate:"required"`
	Photo             string   `form:"photo"`
}
