package repositories

import (
	"context"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"gorm.io/gorm"
)

const mealLikeKind = "meal"

// MealLikeRepository defines the interface for meal like operations
type MealLikeRepository interface {
	LikeMeal(ctx context.Context, userID, mealID uint) (*models.MealLiked, error)
	UnlikeMeal(ctx context.Context, userID, mealID uint) error
	GetMealLike(ctx context.Context, userID, mealID uint) (*models.MealLiked, error)
	GetMealLikeByID(ctx context.Context, id uint) (*models.MealLiked, error)
	ListActiveLikedMeals(ctx context.Context, userID uint) ([]models.Meal, error)
	ListMealLikeIDsForMeal(ctx context.Context, mealID uint) ([]uint, error)
}

// PostgresMealLikeRepository implements MealLikeRepository
type PostgresMealLikeRepository struct {
	db *gorm.DB
}

// NewPostgresMealLikeRepository creates a new PostgresMealLikeRepository
func NewPostgresMealLikeRepository(db *gorm.DB) *PostgresMealLikeRepository {
	return &PostgresMealLikeRepository{db: db}
}

// LikeMeal switches on the user's like of a meal, reusing a soft-deleted row.
func (r *PostgresMealLikeRepository) LikeMeal(ctx context.Context, userID, mealID uint) (*models.MealLiked, error) {
	return toggleOn(ctx, r.db, mealLikeKind,
		map[string]any{"user_id": userID, "meal_id": mealID},
		&models.MealLiked{UserID: userID, MealID: mealID},
	)
}

// UnlikeMeal soft-deletes the user's like of a meal.
func (r *PostgresMealLikeRepository) UnlikeMeal(ctx context.Context, userID, mealID uint) error {
	n, err := switchOff(ctx, r.db, &models.MealLiked{}, mealLikeKind,
		map[string]any{"user_id": userID, "meal_id": mealID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMealLike returns the user's like record for a meal whether or not it is active.
func (r *PostgresMealLikeRepository) GetMealLike(ctx context.Context, userID, mealID uint) (*models.MealLiked, error) {
	var like models.MealLiked
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND meal_id = ?", userID, mealID).
		Take(&like).Error
	if err != nil {
		return nil, classify(err)
	}
	return &like, nil
}

func (r *PostgresMealLikeRepository) GetMealLikeByID(ctx context.Context, id uint) (*models.MealLiked, error) {
	var like models.MealLiked
	if err := r.db.WithContext(ctx).Preload("Meal").First(&like, id).Error; err != nil {
		return nil, classify(err)
	}
	return &like, nil
}

// ListActiveLikedMeals returns the meals a user currently likes.
func (r *PostgresMealLikeRepository) ListActiveLikedMeals(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.WithContext(ctx).
		Joins("JOIN meals_liked ON meals_liked.meal_id = meals.id").
		Where("meals_liked.user_id = ? AND meals_liked.is_active = ?", userID, true).
		Order("meals.name").
		Find(&meals).Error
	return meals, err
}

// ListMealLikeIDsForMeal returns the ids of every user's like of a meal,
// active or not, so reviews written under a later-removed like stay visible.
func (r *PostgresMealLikeRepository) ListMealLikeIDsForMeal(ctx context.Context, mealID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.MealLiked{}).
		Where("meal_id = ?", mealID).
		Pluck("id", &ids).Error
	return ids, err
}
