package handlers

import (
	"net/http"

	"github.com/anonto42/food-roulette/backend/internal/middleware"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// APIHandler serves the bearer-token JSON API
type APIHandler struct {
	mealLikes    repositories.MealLikeRepository
	restaurants  repositories.RestaurantLikeRepository
	messages     repositories.MessageRepository
	messageLikes repositories.MessageLikeRepository
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(
	mealLikes repositories.MealLikeRepository,
	restaurants repositories.RestaurantLikeRepository,
	messages repositories.MessageRepository,
	messageLikes repositories.MessageLikeRepository,
) *APIHandler {
	return &APIHandler{
		mealLikes:    mealLikes,
		restaurants:  restaurants,
		messages:     messages,
		messageLikes: messageLikes,
	}
}

// RegisterAPIRoutes registers routes on a group already protected by
// middleware.JWTAuthMiddleware.
func (h *APIHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/meals/:meal_id/restaurants", h.MealRestaurants)
	g.GET("/messages/:message_id/likes", h.MessageLikes)
}

// MealRestaurants returns the restaurants the token's user linked to a meal.
func (h *APIHandler) MealRestaurants(c echo.Context) error {
	claims := middleware.Claims(c)
	mealID, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	options, err := restaurantOptions(c, h.mealLikes, h.restaurants, claims.UserID, mealID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": options})
}

// MessageLikes returns how many users found a review useful.
func (h *APIHandler) MessageLikes(c echo.Context) error {
	id, err := uintParam(c, "message_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.messages.GetMessageByID(ctx, id); err != nil {
		return httpError(c, err, "Message")
	}
	count, err := h.messageLikes.CountLikes(ctx, id)
	if err != nil {
		return httpError(c, err, "Likes")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message_id":  id,
		"likes_count": count,
	})
}
