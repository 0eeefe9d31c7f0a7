package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPostgresCatalogRepository(db)
	ctx := context.Background()

	t.Run("ListMeals search is case-insensitive", func(t *testing.T) {
		meals, err := repo.ListMeals(ctx, "  rock ")
		require.NoError(t, err)
		require.Len(t, meals, 1)
		assert.Equal(t, "Rock Cakes", meals[0].Name)

		meals, err = repo.ListMeals(ctx, "")
		require.NoError(t, err)
		assert.Len(t, meals, 2)
	})

	t.Run("GetMealByName", func(t *testing.T) {
		meal, err := repo.GetMealByName(ctx, "Rock Cakes")
		require.NoError(t, err)
		assert.Equal(t, f.rockCakes.ID, meal.ID)

		_, err = repo.GetMealByName(ctx, "Unknown Pie")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cuisines and categories", func(t *testing.T) {
		cuisines, err := repo.ListCuisines(ctx)
		require.NoError(t, err)
		assert.Len(t, cuisines, 1)

		c, err := repo.GetCuisineByID(ctx, f.italian.ID)
		require.NoError(t, err)
		assert.Equal(t, "Italian", c.Name)

		cats, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 1)

		_, err = repo.GetCategoryByID(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting a cuisine cascades to its meals", func(t *testing.T) {
		require.NoError(t, db.Delete(&models.Cuisine{}, f.italian.ID).Error)
		_, err := repo.GetMealByID(ctx, f.pasta.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogRepository_LoadCatalog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCatalogRepository(db)
	ctx := context.Background()

	cuisines := []models.Cuisine{{ID: 1, Name: "British", Image: "gb.png"}}
	categories := []models.Category{{ID: 1, Name: "Dessert", Image: "d.png"}}
	meals := []models.Meal{{ID: 1, Name: "Rock Cakes", CuisineID: 1, CategoryID: 1}}
	require.NoError(t, repo.LoadCatalog(ctx, cuisines, categories, meals))

	meal, err := repo.GetMealByName(ctx, "Rock Cakes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, meal.CuisineID)

	t.Run("a failing batch rolls back everything", func(t *testing.T) {
		err := repo.LoadCatalog(ctx,
			[]models.Cuisine{{ID: 2, Name: "French", Image: "fr.png"}},
			nil,
			[]models.Meal{{ID: 2, Name: "Rock Cakes", CuisineID: 2, CategoryID: 1}},
		)
		assert.ErrorIs(t, err, ErrAlreadyExists)

		_, err = repo.GetCuisineByID(ctx, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
