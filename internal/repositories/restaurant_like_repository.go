package repositories

import (
	"context"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"gorm.io/gorm"
)

const restaurantLikeKind = "restaurant"

// RestaurantLikeRepository manages the restaurants a user linked to their liked meals
type RestaurantLikeRepository interface {
	LikeRestaurant(ctx context.Context, like *models.RestaurantMealLiked) (*models.RestaurantMealLiked, error)
	UnlinkRestaurant(ctx context.Context, userID, mealLikedID uint, yelpID string) error
	RemoveRestaurant(ctx context.Context, userID uint, yelpID string) (int64, error)
	ListByMealLike(ctx context.Context, userID, mealLikedID uint) ([]models.RestaurantMealLiked, error)
	ListActiveByMealLike(ctx context.Context, mealLikedID uint) ([]models.RestaurantMealLiked, error)
	ListDistinctByUser(ctx context.Context, userID uint) ([]models.RestaurantSummary, error)
	ListActiveRestaurantsByUser(ctx context.Context, userID uint) ([]models.RestaurantSummary, error)
	ListActiveByUserAndYelpID(ctx context.Context, userID uint, yelpID string) ([]models.RestaurantMealLiked, error)
	RestaurantNames(ctx context.Context) (map[string]string, error)
}

// PostgresRestaurantLikeRepository implements RestaurantLikeRepository
type PostgresRestaurantLikeRepository struct {
	db *gorm.DB
}

// NewPostgresRestaurantLikeRepository creates a new PostgresRestaurantLikeRepository
func NewPostgresRestaurantLikeRepository(db *gorm.DB) *PostgresRestaurantLikeRepository {
	return &PostgresRestaurantLikeRepository{db: db}
}

// LikeRestaurant links a restaurant to one of the user's meal likes. The pair
// (meal like, yelp id) identifies the row; restaurant details of an existing
// row are kept as first recorded.
func (r *PostgresRestaurantLikeRepository) LikeRestaurant(ctx context.Context, like *models.RestaurantMealLiked) (*models.RestaurantMealLiked, error) {
	if like.RestaurantPhoto == "" {
		like.RestaurantPhoto = models.DefaultRestaurantPhoto
	}
	return toggleOn(ctx, r.db, restaurantLikeKind,
		map[string]any{"meals_liked_id": like.MealsLikedID, "restaurant_yelp_id": like.RestaurantYelpID},
		like,
	)
}

// UnlinkRestaurant soft-deletes one (meal like, restaurant) pair of the user.
func (r *PostgresRestaurantLikeRepository) UnlinkRestaurant(ctx context.Context, userID, mealLikedID uint, yelpID string) error {
	n, err := switchOff(ctx, r.db, &models.RestaurantMealLiked{}, restaurantLikeKind, map[string]any{
		"user_id":            userID,
		"meals_liked_id":     mealLikedID,
		"restaurant_yelp_id": yelpID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveRestaurant soft-deletes the restaurant across every meal the user
// linked it to and returns how many links were switched off.
func (r *PostgresRestaurantLikeRepository) RemoveRestaurant(ctx context.Context, userID uint, yelpID string) (int64, error) {
	return switchOff(ctx, r.db, &models.RestaurantMealLiked{}, restaurantLikeKind, map[string]any{
		"user_id":            userID,
		"restaurant_yelp_id": yelpID,
	})
}

// ListByMealLike returns every link under a meal like, soft-deleted ones
// included, so the search page can offer "like again".
func (r *PostgresRestaurantLikeRepository) ListByMealLike(ctx context.Context, userID, mealLikedID uint) ([]models.RestaurantMealLiked, error) {
	var rows []models.RestaurantMealLiked
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND meals_liked_id = ?", userID, mealLikedID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *PostgresRestaurantLikeRepository) ListActiveByMealLike(ctx context.Context, mealLikedID uint) ([]models.RestaurantMealLiked, error) {
	var rows []models.RestaurantMealLiked
	err := r.db.WithContext(ctx).
		Where("meals_liked_id = ? AND is_active = ?", mealLikedID, true).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// ListDistinctByUser returns each restaurant the user ever linked, once, for
// the review form.
func (r *PostgresRestaurantLikeRepository) ListDistinctByUser(ctx context.Context, userID uint) ([]models.RestaurantSummary, error) {
	var rows []models.RestaurantSummary
	err := r.db.WithContext(ctx).Model(&models.RestaurantMealLiked{}).
		Distinct("restaurant_yelp_id", "restaurant_name").
		Where("user_id = ?", userID).
		Order("restaurant_name").
		Scan(&rows).Error
	return rows, err
}

// ListActiveRestaurantsByUser returns each currently liked restaurant once.
func (r *PostgresRestaurantLikeRepository) ListActiveRestaurantsByUser(ctx context.Context, userID uint) ([]models.RestaurantSummary, error) {
	var rows []models.RestaurantSummary
	err := r.db.WithContext(ctx).Model(&models.RestaurantMealLiked{}).
		Distinct("restaurant_yelp_id", "restaurant_name", "restaurant_url", "restaurant_photo").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("restaurant_name").
		Scan(&rows).Error
	return rows, err
}

// ListActiveByUserAndYelpID returns the active links of one restaurant with
// their meal likes and meals loaded.
func (r *PostgresRestaurantLikeRepository) ListActiveByUserAndYelpID(ctx context.Context, userID uint, yelpID string) ([]models.RestaurantMealLiked, error) {
	var rows []models.RestaurantMealLiked
	err := r.db.WithContext(ctx).
		Preload("MealLiked.Meal").
		Where("user_id = ? AND restaurant_yelp_id = ? AND is_active = ?", userID, yelpID, true).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// RestaurantNames maps every known yelp id to the restaurant's display name.
func (r *PostgresRestaurantLikeRepository) RestaurantNames(ctx context.Context) (map[string]string, error) {
	var rows []models.RestaurantSummary
	err := r.db.WithContext(ctx).Model(&models.RestaurantMealLiked{}).
		Distinct("restaurant_yelp_id", "restaurant_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.RestaurantYelpID] = row.RestaurantName
	}
	return names, nil
}
