package repositories

import (
	"context"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for review operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id uint) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uint) error
	ListRecent(ctx context.Context, limit int) ([]models.Message, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Message, error)
	ListByMeal(ctx context.Context, mealID uint) ([]models.Message, error)
	ListLikedByUser(ctx context.Context, userID uint) ([]models.Message, error)
}

// PostgresMessageRepository implements MessageRepository
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("MealLiked.Meal").
		Order("messages.timestamp DESC, messages.id DESC")
}

func (r *PostgresMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return classify(r.db.WithContext(ctx).Create(message).Error)
}

func (r *PostgresMessageRepository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		return nil, classify(err)
	}
	return &message, nil
}

// DeleteMessage hard-deletes a review; its likes go with it.
func (r *PostgresMessageRepository) DeleteMessage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecent returns the newest reviews across all users.
func (r *PostgresMessageRepository) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.withDetails(ctx).Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) ListByUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.withDetails(ctx).Where("messages.user_id = ?", userID).Find(&messages).Error
	return messages, err
}

// ListByMeal returns every review written under any user's like of the meal.
func (r *PostgresMessageRepository) ListByMeal(ctx context.Context, mealID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.withDetails(ctx).
		Joins("JOIN meals_liked ON meals_liked.id = messages.meals_liked_id").
		Where("meals_liked.meal_id = ?", mealID).
		Find(&messages).Error
	return messages, err
}

// ListLikedByUser returns the reviews the user marked as useful.
func (r *PostgresMessageRepository) ListLikedByUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.withDetails(ctx).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Find(&messages).Error
	return messages, err
}
