package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresMessageRepository(db)
	ctx := context.Background()

	aliceCakes := likeMeal(t, db, f.alice.ID, f.rockCakes.ID)
	bobCakes := likeMeal(t, db, f.bob.ID, f.rockCakes.ID)
	bobPasta := likeMeal(t, db, f.bob.ID, f.pasta.ID)

	m1 := &models.Message{UserID: f.alice.ID, MealsLikedID: aliceCakes.ID, Text: "Crumbly and sweet", RestaurantInfo: "amazing-restaurant-boston"}
	m2 := &models.Message{UserID: f.bob.ID, MealsLikedID: bobCakes.ID, Text: "Too dry", RestaurantInfo: "other-bakery"}
	m3 := &models.Message{UserID: f.bob.ID, MealsLikedID: bobPasta.ID, Text: "Creamy", RestaurantInfo: "pasta-place"}
	for _, m := range []*models.Message{m1, m2, m3} {
		require.NoError(t, repo.CreateMessage(ctx, m))
		assert.False(t, m.Timestamp.IsZero())
	}

	t.Run("GetMessageByID", func(t *testing.T) {
		got, err := repo.GetMessageByID(ctx, m1.ID)
		require.NoError(t, err)
		assert.Equal(t, "Crumbly and sweet", got.Text)
		require.NotNil(t, got.User)
		assert.Equal(t, "alice", got.User.Username)

		_, err = repo.GetMessageByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListByMeal spans every user's like", func(t *testing.T) {
		msgs, err := repo.ListByMeal(ctx, f.rockCakes.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		for _, m := range msgs {
			require.NotNil(t, m.MealLiked)
			require.NotNil(t, m.MealLiked.Meal)
			assert.Equal(t, "Rock Cakes", m.MealLiked.Meal.Name)
		}
	})

	t.Run("ListByUser", func(t *testing.T) {
		msgs, err := repo.ListByUser(ctx, f.bob.ID)
		require.NoError(t, err)
		assert.Len(t, msgs, 2)
	})

	t.Run("ListRecent honours the limit", func(t *testing.T) {
		msgs, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, msgs, 2)
	})

	t.Run("ListLikedByUser", func(t *testing.T) {
		likes := NewPostgresMessageLikeRepository(db)
		liked, err := likes.ToggleMessageLike(ctx, f.alice.ID, m3.ID)
		require.NoError(t, err)
		require.True(t, liked)

		msgs, err := repo.ListLikedByUser(ctx, f.alice.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, m3.ID, msgs[0].ID)
	})

	t.Run("DeleteMessage cascades likes", func(t *testing.T) {
		require.NoError(t, repo.DeleteMessage(ctx, m3.ID))
		assert.EqualValues(t, 0, countRows(t, db, &models.Like{}))
		assert.ErrorIs(t, repo.DeleteMessage(ctx, m3.ID), ErrNotFound)
	})
}
