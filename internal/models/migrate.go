package models

// All lists every persisted model in dependency order, for AutoMigrate and
// for dropping tables when the catalog is reseeded.
func All() []any {
	return []any{
		&User{},
		&Cuisine{},
		&Category{},
		&Meal{},
		&MealLiked{},
		&RestaurantMealLiked{},
		&Message{},
		&Like{},
	}
}
