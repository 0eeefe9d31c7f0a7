package models

// Cuisine groups meals by area of origin ("Italian", "British", ...).
type Cuisine struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null;uniqueIndex"`
	Image string `json:"image" gorm:"not null"`
}

func (Cuisine) TableName() string {
	return "cuisines"
}

// Category groups meals by course or main ingredient ("Dessert", "Seafood", ...).
type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null;uniqueIndex"`
	Image string `json:"image" gorm:"not null"`
}

func (Category) TableName() string {
	return "categories"
}

// Meal is a dish known to the recipe API, indexed locally by its unique name.
type Meal struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null;uniqueIndex"`
	CuisineID  uint      `json:"cuisine_id" gorm:"not null;index"`
	Cuisine    *Cuisine  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Category   *Category `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ImageURL   string    `json:"image_url"`
}

func (Meal) TableName() string {
	return "meals"
}
