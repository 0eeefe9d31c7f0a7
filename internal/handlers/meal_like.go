package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/pkg/yelp"
	"github.com/labstack/echo/v4"
)

// MealLikeHandler handles liking meals and finding restaurants that serve them
type MealLikeHandler struct {
	catalog     repositories.CatalogRepository
	mealLikes   repositories.MealLikeRepository
	restaurants repositories.RestaurantLikeRepository
	search      yelp.Searcher
}

// NewMealLikeHandler creates a new MealLikeHandler
func NewMealLikeHandler(
	catalog repositories.CatalogRepository,
	mealLikes repositories.MealLikeRepository,
	restaurants repositories.RestaurantLikeRepository,
	search yelp.Searcher,
) *MealLikeHandler {
	return &MealLikeHandler{
		catalog:     catalog,
		mealLikes:   mealLikes,
		restaurants: restaurants,
		search:      search,
	}
}

// RegisterMealLikeRoutes registers meal like routes; all of them need a user.
func (h *MealLikeHandler) RegisterMealLikeRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.POST("/like-it/:meal_name", h.LikeMeal, requireUser)
	g.GET("/like-it/:meal_name/restaurants/:address", h.RestaurantsForNewLike, requireUser)
	g.GET("/show-it/:meal_name/restaurants", h.RestaurantsForExistingLike, requireUser)
	g.POST("/meals-liked/remove-it/:meal_id", h.RemoveMealLike, requireUser)
}

// LikeMeal likes (or re-likes) the meal and continues to a restaurant search
// near the typed address, or near the user's own location.
func (h *MealLikeHandler) LikeMeal(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	meal, err := h.catalog.GetMealByName(ctx, stringParam(c, "meal_name"))
	if err != nil {
		return httpError(c, err, "Meal")
	}
	if _, err := h.mealLikes.LikeMeal(ctx, user.ID, meal.ID); err != nil {
		return httpError(c, err, "Meal like")
	}

	address := strings.TrimSpace(c.FormValue("address"))
	if address == "" {
		address = user.Location
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/like-it/%s/restaurants/%s",
		url.PathEscape(meal.Name), url.PathEscape(address)))
}

func (h *MealLikeHandler) RestaurantsForNewLike(c echo.Context) error {
	return h.renderSearch(c, stringParam(c, "meal_name"), stringParam(c, "address"))
}

func (h *MealLikeHandler) RestaurantsForExistingLike(c echo.Context) error {
	address := strings.TrimSpace(c.QueryParam("address"))
	if address == "" {
		address = currentUser(c).Location
	}
	return h.renderSearch(c, stringParam(c, "meal_name"), address)
}

type restaurantSearchPage struct {
	MealName   string
	MealLikeID uint
	Address    string
	Businesses []yelp.Business
	// Liked and SoftDeleted are keyed by yelp id.
	Liked       map[string]bool
	SoftDeleted map[string]bool
}

// renderSearch lists nearby restaurants for a liked meal, marking the ones
// already linked to the like and the ones that were unlinked.
func (h *MealLikeHandler) renderSearch(c echo.Context, mealName, address string) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	meal, err := h.catalog.GetMealByName(ctx, mealName)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	like, err := h.mealLikes.GetMealLike(ctx, user.ID, meal.ID)
	if err != nil {
		return httpError(c, err, "Meal like")
	}
	links, err := h.restaurants.ListByMealLike(ctx, user.ID, like.ID)
	if err != nil {
		return httpError(c, err, "Restaurants")
	}
	businesses, err := h.search.Search(ctx, address, meal.Name)
	if err != nil {
		return httpError(c, err, "Restaurants")
	}

	page := restaurantSearchPage{
		MealName:    meal.Name,
		MealLikeID:  like.ID,
		Address:     address,
		Businesses:  businesses,
		Liked:       make(map[string]bool, len(links)),
		SoftDeleted: make(map[string]bool),
	}
	for _, l := range links {
		if l.IsActive {
			page.Liked[l.RestaurantYelpID] = true
		} else {
			page.SoftDeleted[l.RestaurantYelpID] = true
		}
	}
	return c.Render(http.StatusOK, "restaurants/search.html", page)
}

// RemoveMealLike soft-deletes the user's like of a meal.
func (h *MealLikeHandler) RemoveMealLike(c echo.Context) error {
	user := currentUser(c)
	mealID, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	if err := h.mealLikes.UnlikeMeal(c.Request().Context(), user.ID, mealID); err != nil {
		return httpError(c, err, "Meal like")
	}
	return redirectBack(c, fmt.Sprintf("/users/%d/liked-food", user.ID))
}
