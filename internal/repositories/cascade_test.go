package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()

	restaurants := NewPostgresRestaurantLikeRepository(db)
	messages := NewPostgresMessageRepository(db)
	likes := NewPostgresMessageLikeRepository(db)

	aliceCakes := likeMeal(t, db, f.alice.ID, f.rockCakes.ID)
	_, err := restaurants.LikeRestaurant(ctx, amazingRestaurant(aliceCakes.ID, f.alice.ID))
	require.NoError(t, err)
	msg := &models.Message{UserID: f.alice.ID, MealsLikedID: aliceCakes.ID, Text: "Lovely", RestaurantInfo: "amazing-restaurant-boston"}
	require.NoError(t, messages.CreateMessage(ctx, msg))
	_, err = likes.ToggleMessageLike(ctx, f.bob.ID, msg.ID)
	require.NoError(t, err)

	bobPasta := likeMeal(t, db, f.bob.ID, f.pasta.ID)

	require.NoError(t, NewPostgresUserRepository(db).DeleteUser(ctx, f.alice.ID))

	assert.EqualValues(t, 1, countRows(t, db, &models.MealLiked{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.RestaurantMealLiked{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Message{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Like{}))

	remaining, err := NewPostgresMealLikeRepository(db).GetMealLikeByID(ctx, bobPasta.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, remaining.UserID)
}

// Rock Cakes reviewed at Amazing restaurant LLC: soft deleting the meal like
// and the restaurant hides them from the lists but the review stays
// reachable by meal with the restaurant name resolved.
func TestRockCakesScenario(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()

	mealLikes := NewPostgresMealLikeRepository(db)
	restaurants := NewPostgresRestaurantLikeRepository(db)
	messages := NewPostgresMessageRepository(db)

	ml, err := mealLikes.LikeMeal(ctx, f.alice.ID, f.rockCakes.ID)
	require.NoError(t, err)
	_, err = restaurants.LikeRestaurant(ctx, amazingRestaurant(ml.ID, f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, messages.CreateMessage(ctx, &models.Message{
		UserID: f.alice.ID, MealsLikedID: ml.ID, Text: "Best rock cakes in town", RestaurantInfo: "amazing-restaurant-boston",
	}))

	liked, err := mealLikes.ListActiveLikedMeals(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "Rock Cakes", liked[0].Name)

	require.NoError(t, mealLikes.UnlikeMeal(ctx, f.alice.ID, f.rockCakes.ID))
	_, err = restaurants.RemoveRestaurant(ctx, f.alice.ID, "amazing-restaurant-boston")
	require.NoError(t, err)

	liked, err = mealLikes.ListActiveLikedMeals(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)
	active, err := restaurants.ListActiveRestaurantsByUser(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.EqualValues(t, 1, countRows(t, db, &models.MealLiked{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.RestaurantMealLiked{}))

	reviews, err := messages.ListByMeal(ctx, f.rockCakes.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	names, err := restaurants.RestaurantNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Amazing restaurant LLC", names[reviews[0].RestaurantInfo])
}
