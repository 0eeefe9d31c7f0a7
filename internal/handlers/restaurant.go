package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// RestaurantHandler links restaurants to liked meals
type RestaurantHandler struct {
	mealLikes   repositories.MealLikeRepository
	restaurants repositories.RestaurantLikeRepository
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(mealLikes repositories.MealLikeRepository, restaurants repositories.RestaurantLikeRepository) *RestaurantHandler {
	return &RestaurantHandler{mealLikes: mealLikes, restaurants: restaurants}
}

// RegisterRestaurantRoutes registers restaurant like routes
func (h *RestaurantHandler) RegisterRestaurantRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.POST("/restaurant/like-it", h.LikeRestaurant, requireUser)
	g.POST("/restaurant/:yelp_id/unlink-restaurant-meal/:meal_liked_id", h.UnlinkRestaurant, requireUser)
	g.POST("/restaurant/remove-it/:yelp_id", h.RemoveRestaurant, requireUser)
	g.GET("/restaurants/:meal_id", h.RestaurantsForMeal, requireUser)
}

// LikeRestaurant links a search result to one of the user's meal likes.
func (h *RestaurantHandler) LikeRestaurant(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var req models.LikeRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mealLike, err := h.mealLikes.GetMealLikeByID(ctx, req.MealsLikedID)
	if err != nil {
		return httpError(c, err, "Meal like")
	}
	if mealLike.UserID != user.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Meal like not found")
	}

	_, err = h.restaurants.LikeRestaurant(ctx, &models.RestaurantMealLiked{
		RestaurantName:    req.RestaurantName,
		RestaurantYelpID:  req.YelpID,
		RestaurantAddress: strings.Join(req.RestaurantAddress, ","),
		RestaurantRating:  req.Rating,
		RestaurantURL:     req.RestaurantURL,
		RestaurantPhoto:   req.Photo,
		MealsLikedID:      mealLike.ID,
		UserID:            user.ID,
	})
	if err != nil {
		return httpError(c, err, "Restaurant like")
	}
	return redirectBack(c, fmt.Sprintf("/users/%d/liked-restaurants", user.ID))
}

// UnlinkRestaurant soft-deletes one (meal like, restaurant) link.
func (h *RestaurantHandler) UnlinkRestaurant(c echo.Context) error {
	user := currentUser(c)
	mealLikedID, err := uintParam(c, "meal_liked_id")
	if err != nil {
		return err
	}
	err = h.restaurants.UnlinkRestaurant(c.Request().Context(), user.ID, mealLikedID, stringParam(c, "yelp_id"))
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return httpError(c, err, "Restaurant like")
	}
	return redirectBack(c, fmt.Sprintf("/users/%d/liked-restaurants", user.ID))
}

// RemoveRestaurant soft-deletes the restaurant for every meal it was liked for.
func (h *RestaurantHandler) RemoveRestaurant(c echo.Context) error {
	user := currentUser(c)
	if _, err := h.restaurants.RemoveRestaurant(c.Request().Context(), user.ID, stringParam(c, "yelp_id")); err != nil {
		return httpError(c, err, "Restaurant like")
	}
	return redirectBack(c, fmt.Sprintf("/users/%d/liked-restaurants", user.ID))
}

// RestaurantsForMeal feeds the review form: the restaurants the user linked
// to their like of the meal.
func (h *RestaurantHandler) RestaurantsForMeal(c echo.Context) error {
	user := currentUser(c)
	mealID, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	options, err := restaurantOptions(c, h.mealLikes, h.restaurants, user.ID, mealID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": options})
}

// restaurantOptions lists every restaurant linked to the user's like of a
// meal, unlinked ones included.
func restaurantOptions(c echo.Context, mealLikes repositories.MealLikeRepository, restaurants repositories.RestaurantLikeRepository, userID, mealID uint) ([]models.RestaurantOption, error) {
	ctx := c.Request().Context()
	like, err := mealLikes.GetMealLike(ctx, userID, mealID)
	if err != nil {
		return nil, httpError(c, err, "Meal like")
	}
	links, err := restaurants.ListByMealLike(ctx, userID, like.ID)
	if err != nil {
		return nil, httpError(c, err, "Restaurants")
	}
	options := make([]models.RestaurantOption, 0, len(links))
	for _, l := range links {
		options = append(options, models.RestaurantOption{
			ID:          l.ID,
			Name:        l.RestaurantName,
			MealLikedID: l.MealsLikedID,
			YelpID:      l.RestaurantYelpID,
		})
	}
	return options, nil
}
