package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/food-roulette/backend/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rockCakesPayload = `{"meals":[{
	"idMeal":"52991","strMeal":"Rock Cakes","strCategory":"Dessert","strArea":"British",
	"strMealThumb":"https://www.themealdb.com/images/media/meals/rock.jpg",
	"strIngredient1":"Flour","strIngredient2":"Baking Powder","strIngredient3":"Sugar",
	"strIngredient4":"","strIngredient5":null,"strIngredient6":"Raisins"
}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(upstream.NewClient(upstream.Options{Service: "mealdb", BaseURL: srv.URL, MaxRetries: 1}))
}

func TestClient_SearchByName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "Rock Cakes", r.URL.Query().Get("s"))
		_, _ = w.Write([]byte(rockCakesPayload))
	})

	meal, err := c.SearchByName(context.Background(), "Rock Cakes")
	require.NoError(t, err)
	assert.Equal(t, "52991", meal.ID)
	assert.Equal(t, "British", meal.Area)
	assert.Equal(t, []string{"Flour", "Baking Powder", "Sugar", "Raisins"}, meal.Ingredients())
}

func TestClient_NoMeals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	_, err := c.LookupByID(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoMeals)

	_, err = c.FilterByArea(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoMeals)
}

func TestClient_FilterByCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter.php", r.URL.Path)
		assert.Equal(t, "Dessert", r.URL.Query().Get("c"))
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"1","strMeal":"Rock Cakes"},{"idMeal":"2","strMeal":"Eton Mess"}]}`))
	})

	list, err := c.FilterByCategory(context.Background(), "Dessert")
	require.NoError(t, err)
	require.Len(t, list, 2)

	picked, err := PickRandom(list)
	require.NoError(t, err)
	assert.Contains(t, []string{"Rock Cakes", "Eton Mess"}, picked.Name)
}

func TestClient_Unavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Random(context.Background())
	assert.ErrorIs(t, err, upstream.ErrUnavailable)
}

func TestPickRandom_Empty(t *testing.T) {
	_, err := PickRandom(nil)
	assert.ErrorIs(t, err, ErrNoMeals)
}
