package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/observability"
	"gorm.io/gorm"
)

const messageLikeKind = "message"

// MessageLikeRepository manages the "found this review useful" relation
type MessageLikeRepository interface {
	ToggleMessageLike(ctx context.Context, userID, messageID uint) (bool, error)
	HasUserLikedMessage(ctx context.Context, userID, messageID uint) (bool, error)
	LikedMessageIDs(ctx context.Context, userID uint, messageIDs []uint) (map[uint]bool, error)
	CountLikes(ctx context.Context, messageID uint) (int64, error)
	CountLikesForMessages(ctx context.Context, messageIDs []uint) (map[uint]int64, error)
	TotalLikesReceived(ctx context.Context, userID uint) (int64, error)
}

// PostgresMessageLikeRepository implements MessageLikeRepository
type PostgresMessageLikeRepository struct {
	db *gorm.DB
}

// NewPostgresMessageLikeRepository creates a new PostgresMessageLikeRepository
func NewPostgresMessageLikeRepository(db *gorm.DB) *PostgresMessageLikeRepository {
	return &PostgresMessageLikeRepository{db: db}
}

// ToggleMessageLike likes the message if the user has not, otherwise removes
// the like, and reports whether the message is liked afterwards. Authors
// cannot like their own review; the call is a no-op for them.
func (r *PostgresMessageLikeRepository) ToggleMessageLike(ctx context.Context, userID, messageID uint) (bool, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&message, messageID).Error; err != nil {
		return false, classify(err)
	}
	if message.UserID == userID {
		return false, nil
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, classify(res.Error)
	}
	if res.RowsAffected > 0 {
		observability.LikeToggles.WithLabelValues(messageLikeKind, "deleted").Inc()
		return false, nil
	}

	err := classify(r.db.WithContext(ctx).Create(&models.Like{UserID: userID, MessageID: messageID}).Error)
	switch {
	case err == nil:
		observability.LikeToggles.WithLabelValues(messageLikeKind, "created").Inc()
	case errors.Is(err, ErrAlreadyExists):
		observability.LikeToggles.WithLabelValues(messageLikeKind, "duplicate").Inc()
	default:
		return false, err
	}
	return true, nil
}

func (r *PostgresMessageLikeRepository) HasUserLikedMessage(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// LikedMessageIDs reports which of messageIDs the user has liked.
func (r *PostgresMessageLikeRepository) LikedMessageIDs(ctx context.Context, userID uint, messageIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if len(messageIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountLikes returns how many users found the message useful.
func (r *PostgresMessageLikeRepository) CountLikes(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}

// CountLikesForMessages counts likes for a page of messages in one query.
// Messages without likes are absent from the map.
func (r *PostgresMessageLikeRepository) CountLikesForMessages(ctx context.Context, messageIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if len(messageIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		MessageID uint
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("message_id, COUNT(*) AS total").
		Where("message_id IN ?", messageIDs).
		Group("message_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.MessageID] = row.Total
	}
	return counts, nil
}

// TotalLikesReceived sums the likes over every review the user wrote.
func (r *PostgresMessageLikeRepository) TotalLikesReceived(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Joins("JOIN messages ON messages.id = likes.message_id").
		Where("messages.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
