package handlers

import (
	"net/http"

	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// HomeHandler serves the landing page
type HomeHandler struct {
	messages     repositories.MessageRepository
	messageLikes repositories.MessageLikeRepository
	restaurants  repositories.RestaurantLikeRepository
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(messages repositories.MessageRepository, messageLikes repositories.MessageLikeRepository, restaurants repositories.RestaurantLikeRepository) *HomeHandler {
	return &HomeHandler{messages: messages, messageLikes: messageLikes, restaurants: restaurants}
}

func (h *HomeHandler) RegisterHomeRoutes(g *echo.Group) {
	g.GET("/", h.Home)
}

// Home shows the latest reviews to logged-in users and a welcome page otherwise.
func (h *HomeHandler) Home(c echo.Context) error {
	if currentUser(c) == nil {
		return c.Render(http.StatusOK, "home_anon.html", nil)
	}
	msgs, err := h.messages.ListRecent(c.Request().Context(), messagePageSize)
	if err != nil {
		return httpError(c, err, "Messages")
	}
	feed, err := buildFeed(c, h.messageLikes, h.restaurants, msgs)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "home.html", echo.Map{"Feed": feed})
}
