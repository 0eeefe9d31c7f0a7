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
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles profiles and the per-user favourite lists
type UserHandler struct {
	users        repositories.UserRepository
	catalog      repositories.CatalogRepository
	mealLikes    repositories.MealLikeRepository
	restaurants  repositories.RestaurantLikeRepository
	messages     repositories.MessageRepository
	messageLikes repositories.MessageLikeRepository
	sessions     *session.Manager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	users repositories.UserRepository,
	catalog repositories.CatalogRepository,
	mealLikes repositories.MealLikeRepository,
	restaurants repositories.RestaurantLikeRepository,
	messages repositories.MessageRepository,
	messageLikes repositories.MessageLikeRepository,
	sessions *session.Manager,
) *UserHandler {
	return &UserHandler{
		users:        users,
		catalog:      catalog,
		mealLikes:    mealLikes,
		restaurants:  restaurants,
		messages:     messages,
		messageLikes: messageLikes,
		sessions:     sessions,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/users/profile", h.EditProfileForm, requireUser)
	g.POST("/users/profile", h.UpdateProfile, requireUser)
	g.POST("/users/delete", h.DeleteUser, requireUser)
	g.GET("/users/:user_id", h.ShowUser, requireUser)
	g.GET("/users/:user_id/liked-food", h.LikedFood, requireUser)
	g.GET("/users/:user_id/liked-food/:meal_id", h.LikedFoodDetail, requireUser)
	g.GET("/users/:user_id/liked-restaurants", h.LikedRestaurants, requireUser)
	g.GET("/users/:user_id/liked-restaurants/:yelp_id", h.LikedRestaurantDetail, requireUser)
}

func (h *UserHandler) profile(c echo.Context) (*models.User, error) {
	id, err := uintParam(c, "user_id")
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return nil, httpError(c, err, "User")
	}
	return user, nil
}

func (h *UserHandler) ShowUser(c echo.Context) error {
	user, err := h.profile(c)
	if err != nil {
		return err
	}
	msgs, err := h.messages.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(c, err, "Messages")
	}
	feed, err := buildFeed(c, h.messageLikes, h.restaurants, msgs)
	if err != nil {
		return err
	}
	total, err := h.messageLikes.TotalLikesReceived(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(c, err, "Likes")
	}
	return c.Render(http.StatusOK, "users/show.html", echo.Map{
		"Profile":    user,
		"Feed":       feed,
		"TotalLikes": total,
	})
}

type profileForm struct {
	Form   models.UpdateUserRequest
	Errors map[string]string
}

func (h *UserHandler) EditProfileForm(c echo.Context) error {
	user := currentUser(c)
	return c.Render(http.StatusOK, "users/edit.html", profileForm{Form: models.UpdateUserRequest{
		Username: user.Username,
		Email:    user.Email,
		ImageURL: user.ImageURL,
		Location: user.Location,
	}})
}

// UpdateProfile saves profile changes after checking the current password.
// Clashing usernames or emails are refused with a flash.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "users/edit.html", profileForm{Form: req, Errors: validators.Messages(err)})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		addFlash(c, h.sessions, "danger", "Invalid password!")
		return c.Redirect(http.StatusFound, "/users/profile")
	}

	taken, err := h.users.UsernameTaken(ctx, req.Username, user.ID)
	if err != nil {
		return httpError(c, err, "User")
	}
	if taken {
		addFlash(c, h.sessions, "danger", "this username already exists!")
		return c.Redirect(http.StatusFound, "/users/profile")
	}
	taken, err = h.users.EmailTaken(ctx, req.Email, user.ID)
	if err != nil {
		return httpError(c, err, "User")
	}
	if taken {
		addFlash(c, h.sessions, "danger", "this email already exists!")
		return c.Redirect(http.StatusFound, "/users/profile")
	}

	user.Username = req.Username
	user.Email = req.Email
	user.ImageURL = req.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultUserImage
	}
	user.Location = req.Location
	if err := h.users.UpdateUser(ctx, user); err != nil {
		return httpError(c, err, "User")
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// DeleteUser logs out and deletes the account with everything it owns.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	user := currentUser(c)
	if err := h.sessions.Logout(c.Response(), c.Request()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to end session")
	}
	if err := h.users.DeleteUser(c.Request().Context(), user.ID); err != nil {
		return httpError(c, err, "User")
	}
	return c.Redirect(http.StatusFound, "/signup")
}

func (h *UserHandler) LikedFood(c echo.Context) error {
	user, err := h.profile(c)
	if err != nil {
		return err
	}
	meals, err := h.mealLikes.ListActiveLikedMeals(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(c, err, "Meals")
	}
	return c.Render(http.StatusOK, "users/liked_food.html", echo.Map{
		"Profile": user,
		"Meals":   meals,
	})
}

// LikedFoodDetail shows the restaurants a user currently links to a liked meal.
func (h *UserHandler) LikedFoodDetail(c echo.Context) error {
	user, err := h.profile(c)
	if err != nil {
		return err
	}
	mealID, err := uintParam(c, "meal_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	meal, err := h.catalog.GetMealByID(ctx, mealID)
	if err != nil {
		return httpError(c, err, "Meal")
	}
	like, err := h.mealLikes.GetMealLike(ctx, user.ID, meal.ID)
	if err != nil {
		return httpError(c, err, "Meal like")
	}
	restaurants, err := h.restaurants.ListActiveByMealLike(ctx, like.ID)
	if err != nil {
		return httpError(c, err, "Restaurants")
	}
	return c.Render(http.StatusOK, "users/liked_food_detail.html", echo.Map{
		"Profile":     user,
		"Meal":        meal,
		"MealLike":    like,
		"Restaurants": restaurants,
	})
}

func (h *UserHandler) LikedRestaurants(c echo.Context) error {
	user, err := h.profile(c)
	if err != nil {
		return err
	}
	restaurants, err := h.restaurants.ListActiveRestaurantsByUser(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(c, err, "Restaurants")
	}
	return c.Render(http.StatusOK, "users/liked_restaurants.html", echo.Map{
		"Profile":     user,
		"Restaurants": restaurants,
	})
}

// LikedRestaurantDetail shows one liked restaurant with the meals it was
// liked for. With nothing active left it falls back to the list.
func (h *UserHandler) LikedRestaurantDetail(c echo.Context) error {
	user, err := h.profile(c)
	if err != nil {
		return err
	}
	rows, err := h.restaurants.ListActiveByUserAndYelpID(c.Request().Context(), user.ID, stringParam(c, "yelp_id"))
	if err != nil {
		return httpError(c, err, "Restaurants")
	}
	if len(rows) == 0 {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/liked-restaurants", user.ID))
	}

	var mealLikes []*models.MealLiked
	for _, r := range rows {
		if r.MealLiked != nil && r.MealLiked.IsActive {
			mealLikes = append(mealLikes, r.MealLiked)
		}
	}
	return c.Render(http.StatusOK, "users/liked_restaurant_detail.html", echo.Map{
		"Profile":    user,
		"Restaurant": rows[0],
		"MealLikes":  mealLikes,
	})
}
