package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMessage(t *testing.T, db *gorm.DB, f fixture) *models.Message {
	t.Helper()
	ml := likeMeal(t, db, f.alice.ID, f.rockCakes.ID)
	msg := &models.Message{UserID: f.alice.ID, MealsLikedID: ml.ID, Text: "Great", RestaurantInfo: "amazing-restaurant-boston"}
	require.NoError(t, NewPostgresMessageRepository(db).CreateMessage(context.Background(), msg))
	return msg
}

func TestMessageLikeRepository_Toggle(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	msg := seedMessage(t, db, f)
	repo := NewPostgresMessageLikeRepository(db)
	ctx := context.Background()

	count, err := repo.CountLikes(ctx, msg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	liked, err := repo.ToggleMessageLike(ctx, f.bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err = repo.CountLikes(ctx, msg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	has, err := repo.HasUserLikedMessage(ctx, f.bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, has)

	liked, err = repo.ToggleMessageLike(ctx, f.bob.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.ToggleMessageLike(ctx, f.bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err = repo.CountLikes(ctx, msg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "toggling by the same user never accumulates")
}

func TestMessageLikeRepository_AuthorCannotLikeOwnMessage(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	msg := seedMessage(t, db, f)
	repo := NewPostgresMessageLikeRepository(db)
	ctx := context.Background()

	liked, err := repo.ToggleMessageLike(ctx, f.alice.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, countRows(t, db, &models.Like{}))
}

func TestMessageLikeRepository_UnknownMessage(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresMessageLikeRepository(db)

	_, err := repo.ToggleMessageLike(context.Background(), f.bob.ID, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageLikeRepository_DuplicateLikeRejected(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	msg := seedMessage(t, db, f)

	require.NoError(t, db.Create(&models.Like{UserID: f.bob.ID, MessageID: msg.ID}).Error)
	err := classify(db.Create(&models.Like{UserID: f.bob.ID, MessageID: msg.ID}).Error)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.EqualValues(t, 1, countRows(t, db, &models.Like{}))
}

func TestMessageLikeRepository_Aggregates(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	msg := seedMessage(t, db, f)
	repo := NewPostgresMessageLikeRepository(db)
	ctx := context.Background()

	carol := &models.User{Username: "carol", Email: "carol@example.com", Location: "Austin", Password: "hash"}
	require.NoError(t, NewPostgresUserRepository(db).CreateUser(ctx, carol))

	bobPasta := likeMeal(t, db, f.bob.ID, f.pasta.ID)
	other := &models.Message{UserID: f.bob.ID, MealsLikedID: bobPasta.ID, Text: "Ok", RestaurantInfo: "pasta-place"}
	require.NoError(t, NewPostgresMessageRepository(db).CreateMessage(ctx, other))

	for _, uid := range []uint{f.bob.ID, carol.ID} {
		_, err := repo.ToggleMessageLike(ctx, uid, msg.ID)
		require.NoError(t, err)
	}

	counts, err := repo.CountLikesForMessages(ctx, []uint{msg.ID, other.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[msg.ID])
	assert.EqualValues(t, 0, counts[other.ID])

	total, err := repo.TotalLikesReceived(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	liked, err := repo.LikedMessageIDs(ctx, carol.ID, []uint{msg.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{msg.ID: true}, liked)

	empty, err := repo.CountLikesForMessages(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
