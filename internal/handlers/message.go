package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/internal/validators"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles reviews
type MessageHandler struct {
	messages     repositories.MessageRepository
	messageLikes repositories.MessageLikeRepository
	mealLikes    repositories.MealLikeRepository
	restaurants  repositories.RestaurantLikeRepository
	users        repositories.UserRepository
	sessions     *session.Manager
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messages repositories.MessageRepository,
	messageLikes repositories.MessageLikeRepository,
	mealLikes repositories.MealLikeRepository,
	restaurants repositories.RestaurantLikeRepository,
	users repositories.UserRepository,
	sessions *session.Manager,
) *MessageHandler {
	return &MessageHandler{
		messages:     messages,
		messageLikes: messageLikes,
		mealLikes:    mealLikes,
		restaurants:  restaurants,
		users:        users,
		sessions:     sessions,
	}
}

// RegisterMessageRoutes registers review routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/messages/new", h.NewMessageForm, requireUser)
	g.POST("/messages/new", h.CreateMessage, requireUser)
	g.POST("/messages/:message_id/delete", h.DeleteMessage, requireUser)
	g.GET("/users/:user_id/messages", h.UserMessages, requireUser)
	g.POST("/users/add_like/:message_id", h.ToggleLike, requireUser)
	g.GET("/users/:user_id/liked-messages", h.LikedMessages, requireUser)
}

// messageFeed is a list of reviews with what the templates need next to
// each one.
type messageFeed struct {
	Messages []models.Message
	// Counts and LikedByMe are keyed by message id.
	Counts    map[uint]int64
	LikedByMe map[uint]bool
	// Names resolves a review's yelp id to the restaurant's name.
	Names map[string]string
}

func buildFeed(c echo.Context, likes repositories.MessageLikeRepository, restaurants repositories.RestaurantLikeRepository, msgs []models.Message) (messageFeed, error) {
	ctx := c.Request().Context()
	ids := make([]uint, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}

	feed := messageFeed{Messages: msgs}
	var err error
	if feed.Counts, err = likes.CountLikesForMessages(ctx, ids); err != nil {
		return feed, httpError(c, err, "Likes")
	}
	if user := currentUser(c); user != nil {
		if feed.LikedByMe, err = likes.LikedMessageIDs(ctx, user.ID, ids); err != nil {
			return feed, httpError(c, err, "Likes")
		}
	}
	if feed.Names, err = restaurants.RestaurantNames(ctx); err != nil {
		return feed, httpError(c, err, "Restaurants")
	}
	return feed, nil
}

type messageForm struct {
	Form        models.CreateMessageRequest
	Errors      map[string]string
	Meals       []models.Meal
	Restaurants []models.RestaurantSummary
}

func (h *MessageHandler) formChoices(c echo.Context, form *messageForm) error {
	user := currentUser(c)
	ctx := c.Request().Context()
	var err error
	if form.Meals, err = h.mealLikes.ListActiveLikedMeals(ctx, user.ID); err != nil {
		return httpError(c, err, "Meals")
	}
	if form.Restaurants, err = h.restaurants.ListDistinctByUser(ctx, user.ID); err != nil {
		return httpError(c, err, "Restaurants")
	}
	return nil
}

func (h *MessageHandler) NewMessageForm(c echo.Context) error {
	var form messageForm
	if err := h.formChoices(c, &form); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "messages/new.html", form)
}

// CreateMessage posts a review about one of the user's liked meals.
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(req); err != nil {
		form := messageForm{Form: req, Errors: validators.Messages(err)}
		if err := h.formChoices(c, &form); err != nil {
			return err
		}
		return c.Render(http.StatusOK, "messages/new.html", form)
	}

	like, err := h.mealLikes.GetMealLike(ctx, user.ID, req.Meal)
	if err != nil {
		return httpError(c, err, "Meal like")
	}

	msg := &models.Message{
		UserID:         user.ID,
		Text:           req.Text,
		MealsLikedID:   like.ID,
		RestaurantInfo: req.Restaurant,
	}
	if err := h.messages.CreateMessage(ctx, msg); err != nil {
		return httpError(c, err, "Message")
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/messages", user.ID))
}

// UserMessages shows a user's reviews and how many likes they earned.
func (h *MessageHandler) UserMessages(c echo.Context) error {
	userID, err := uintParam(c, "user_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(c, err, "User")
	}
	msgs, err := h.messages.ListByUser(ctx, user.ID)
	if err != nil {
		return httpError(c, err, "Messages")
	}
	feed, err := buildFeed(c, h.messageLikes, h.restaurants, msgs)
	if err != nil {
		return err
	}
	total, err := h.messageLikes.TotalLikesReceived(ctx, user.ID)
	if err != nil {
		return httpError(c, err, "Likes")
	}
	return c.Render(http.StatusOK, "users/messages.html", echo.Map{
		"Profile":    user,
		"Feed":       feed,
		"TotalLikes": total,
	})
}

// DeleteMessage removes one of the current user's reviews.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	user := currentUser(c)
	id, err := uintParam(c, "message_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	msg, err := h.messages.GetMessageByID(ctx, id)
	if err != nil {
		return httpError(c, err, "Message")
	}
	if msg.UserID != user.ID {
		addFlash(c, h.sessions, "danger", "Access unauthorized.")
		return c.Redirect(http.StatusFound, "/")
	}
	if err := h.messages.DeleteMessage(ctx, msg.ID); err != nil {
		return httpError(c, err, "Message")
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/messages", user.ID))
}

// ToggleLike flips the current user's "found this useful" mark on a review.
func (h *MessageHandler) ToggleLike(c echo.Context) error {
	user := currentUser(c)
	id, err := uintParam(c, "message_id")
	if err != nil {
		return err
	}
	if _, err := h.messageLikes.ToggleMessageLike(c.Request().Context(), user.ID, id); err != nil {
		return httpError(c, err, "Message")
	}
	return redirectBack(c, "/")
}

// LikedMessages shows the reviews a user found useful.
func (h *MessageHandler) LikedMessages(c echo.Context) error {
	userID, err := uintParam(c, "user_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(c, err, "User")
	}
	msgs, err := h.messages.ListLikedByUser(ctx, user.ID)
	if err != nil {
		return httpError(c, err, "Messages")
	}
	feed, err := buildFeed(c, h.messageLikes, h.restaurants, msgs)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "users/liked_messages.html", echo.Map{
		"Profile": user,
		"Feed":    feed,
	})
}
