package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/pkg/mealdb"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves meals, cuisines and categories
type CatalogHandler struct {
	catalog     repositories.CatalogRepository
	mealLikes   repositories.MealLikeRepository
	messages    repositories.MessageRepository
	restaurants repositories.RestaurantLikeRepository
	recipes     mealdb.API
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	catalog repositories.CatalogRepository,
	mealLikes repositories.MealLikeRepository,
	messages repositories.MessageRepository,
	restaurants repositories.RestaurantLikeRepository,
	recipes mealdb.API,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:     catalog,
		mealLikes:   mealLikes,
		messages:    messages,
		restaurants: restaurants,
		recipes:     recipes,
	}
}

// RegisterCatalogRoutes registers meal browsing routes. requireUser gates
// everything except the meal list and meal pages.
func (h *CatalogHandler) RegisterCatalogRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/meals", h.ListMeals)
	g.GET("/meals/:meal_id", h.ShowMeal)
	g.GET("/meals/:meal_id/reviews", h.MealReviews, requireUser)
	g.GET("/cuisines", h.ListCuisines, requireUser)
	g.GET("/cuisines/:cuisine_id", h.RandomByCuisine, requireUser)
	g.GET("/categories", h.ListCategories, requireUser)
	g.GET("/categories/:category_id", h.RandomByCategory, requireUser)
	g.GET("/surprise-me", h.SurpriseMe, requireUser)
}

// mealPage is shared by every page that shows one meal with its ingredients.
type mealPage struct {
	Heading     string
	BackURL     string
	Meal        *models.Meal
	Details     *mealdb.Meal
	Ingredients []string
	MealLike    *models.MealLiked
}

// ListMeals lists every meal, or those matching ?q= case-insensitively.
func (h *CatalogHandler) ListMeals(c echo.Context) error {
	search := c.QueryParam("q")
	meals, err := h.catalog.ListMeals(c.Request().Context(), search)
	if err != nil {
		return httpError(c, err, "Meals")
	}
	return c.Render(http.StatusOK, "meals/index.html", echo.Map{
		"Meals":  meals,
		"Search": search,
	})
}

func (h *CatalogHandler) ShowMeal(c echo.Context) error {
	id, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	meal, err := h.catalog.GetMealByID(ctx, id)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	details, err := h.recipes.SearchByName(ctx, meal.Name)
	if err != nil {
		return httpError(c, err, "Meal")
	}

	page := mealPage{Heading: meal.Name, BackURL: "/meals", Meal: meal, Details: details, Ingredients: details.Ingredients()}
	if user := currentUser(c); user != nil {
		if page.MealLike, err = h.userMealLike(ctx, user.ID, meal.ID); err != nil {
			return httpError(c, err, "Meal like")
		}
	}
	return c.Render(http.StatusOK, "meals/show.html", page)
}

// MealReviews shows every review written about the meal, by anyone.
func (h *CatalogHandler) MealReviews(c echo.Context) error {
	id, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	meal, err := h.catalog.GetMealByID(ctx, id)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	messages, err := h.messages.ListByMeal(ctx, meal.ID)
	if err != nil {
		return httpError(c, err, "Reviews")
	}
	names, err := h.restaurants.RestaurantNames(ctx)
	if err != nil {
		return httpError(c, err, "Restaurants")
	}
	return c.Render(http.StatusOK, "meals/reviews.html", echo.Map{
		"Meal":     meal,
		"Messages": messages,
		"Names":    names,
	})
}

func (h *CatalogHandler) ListCuisines(c echo.Context) error {
	cuisines, err := h.catalog.ListCuisines(c.Request().Context())
	if err != nil {
		return httpError(c, err, "Cuisines")
	}
	return c.Render(http.StatusOK, "cuisines/index.html", echo.Map{"Cuisines": cuisines})
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(c, err, "Categories")
	}
	return c.Render(http.StatusOK, "categories/index.html", echo.Map{"Categories": categories})
}

// RandomByCuisine shows a random meal of the cuisine.
func (h *CatalogHandler) RandomByCuisine(c echo.Context) error {
	id, err := uintParam(c, "cuisine_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	cuisine, err := h.catalog.GetCuisineByID(ctx, id)
	if err != nil {
		return httpError(c, err, "Cuisine")
	}
	list, err := h.recipes.FilterByArea(ctx, cuisine.Name)
	if err != nil {
		return httpError(c, err, "Meals")
	}
	return h.renderRandom(c, list, cuisine.Name, "/cuisines")
}

// RandomByCategory shows a random meal of the category.
func (h *CatalogHandler) RandomByCategory(c echo.Context) error {
	id, err := uintParam(c, "category_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	category, err := h.catalog.GetCategoryByID(ctx, id)
	if err != nil {
		return httpError(c, err, "Category")
	}
	list, err := h.recipes.FilterByCategory(ctx, category.Name)
	if err != nil {
		return httpError(c, err, "Meals")
	}
	return h.renderRandom(c, list, category.Name, "/categories")
}

// SurpriseMe shows a random meal from the whole recipe catalog.
func (h *CatalogHandler) SurpriseMe(c echo.Context) error {
	ctx := c.Request().Context()
	details, err := h.recipes.Random(ctx)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	return h.renderDetails(c, details, "Surprise!", "/surprise-me")
}

func (h *CatalogHandler) renderRandom(c echo.Context, list []mealdb.Summary, heading, back string) error {
	picked, err := mealdb.PickRandom(list)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	details, err := h.recipes.LookupByID(c.Request().Context(), picked.ID)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	return h.renderDetails(c, details, heading, back)
}

// renderDetails resolves an API meal against the local catalog. Meals the
// catalog does not know cannot be liked, so they are reported as missing.
func (h *CatalogHandler) renderDetails(c echo.Context, details *mealdb.Meal, heading, back string) error {
	ctx := c.Request().Context()
	meal, err := h.catalog.GetMealByName(ctx, details.Name)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	page := mealPage{Heading: heading, BackURL: back, Meal: meal, Details: details, Ingredients: details.Ingredients()}
	if page.MealLike, err = h.userMealLike(ctx, currentUser(c).ID, meal.ID); err != nil {
		return httpError(c, err, "Meal like")
	}
	return c.Render(http.StatusOK, "meals/show.html", page)
}

// userMealLike returns the user's like record for the meal, active or not,
// or nil when the user never liked it.
func (h *CatalogHandler) userMealLike(ctx context.Context, userID, mealID uint) (*models.MealLiked, error) {
	like, err := h.mealLikes.GetMealLike(ctx, userID, mealID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return like, err
}
