package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealLikeRepository_LikeMeal(t *testing.T) {
	ctx := context.Background()

	t.Run("liking twice leaves one active row", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedFixture(t, db)
		repo := NewPostgresMealLikeRepository(db)

		first, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)
		second, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.IsActive)
		assert.EqualValues(t, 1, countRows(t, db, &models.MealLiked{}))
	})

	t.Run("like unlike like reuses the row", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedFixture(t, db)
		repo := NewPostgresMealLikeRepository(db)

		liked, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)
		require.NoError(t, repo.UnlikeMeal(ctx, f.alice.ID, f.pasta.ID))

		off, err := repo.GetMealLike(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)
		assert.False(t, off.IsActive)

		again, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)
		assert.Equal(t, liked.ID, again.ID)
		assert.True(t, again.IsActive)
		assert.EqualValues(t, 1, countRows(t, db, &models.MealLiked{}))
	})

	t.Run("likes are per user", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedFixture(t, db)
		repo := NewPostgresMealLikeRepository(db)

		a, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
		require.NoError(t, err)
		b, err := repo.LikeMeal(ctx, f.bob.ID, f.pasta.ID)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)

		ids, err := repo.ListMealLikeIDsForMeal(ctx, f.pasta.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)
	})

	t.Run("unknown meal violates the foreign key", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedFixture(t, db)
		repo := NewPostgresMealLikeRepository(db)

		_, err := repo.LikeMeal(ctx, f.alice.ID, 9999)
		assert.Error(t, err)
		assert.EqualValues(t, 0, countRows(t, db, &models.MealLiked{}))
	})
}

func TestMealLikeRepository_UnlikeMeal_NotLiked(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresMealLikeRepository(db)

	err := repo.UnlikeMeal(context.Background(), f.alice.ID, f.pasta.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMealLikeRepository_ListActiveLikedMeals(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresMealLikeRepository(db)
	ctx := context.Background()

	_, err := repo.LikeMeal(ctx, f.alice.ID, f.pasta.ID)
	require.NoError(t, err)
	_, err = repo.LikeMeal(ctx, f.alice.ID, f.rockCakes.ID)
	require.NoError(t, err)
	require.NoError(t, repo.UnlikeMeal(ctx, f.alice.ID, f.pasta.ID))

	meals, err := repo.ListActiveLikedMeals(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Rock Cakes", meals[0].Name)

	meals, err = repo.ListActiveLikedMeals(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestMealLikeRepository_GetMealLikeByID(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresMealLikeRepository(db)
	ctx := context.Background()

	like, err := repo.LikeMeal(ctx, f.alice.ID, f.rockCakes.ID)
	require.NoError(t, err)

	got, err := repo.GetMealLikeByID(ctx, like.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Meal)
	assert.Equal(t, "Rock Cakes", got.Meal.Name)

	_, err = repo.GetMealLikeByID(ctx, like.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

// A concurrent request inserting the same pair first makes our insert fail
// with 23505; the winner's row must come back instead of an error.
func TestMealLikeRepository_LikeMeal_LosesRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresMealLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "meals_liked"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meal_id", "user_id", "is_active"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "meals_liked"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "meals_liked"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meal_id", "user_id", "is_active"}).AddRow(7, 3, 1, true))

	like, err := repo.LikeMeal(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 7, like.ID)
	assert.True(t, like.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMealLikeRepository_LikeMeal_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresMealLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "meals_liked"`)).
		WillReturnError(&pgconn.PgError{Code: "57P01", Message: "terminating connection"})
	mock.ExpectRollback()

	like, err := repo.LikeMeal(context.Background(), 1, 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.Nil(t, like)
	assert.NoError(t, mock.ExpectationsWereMet())
}
