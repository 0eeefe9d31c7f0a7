package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/internal/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an API bearer token stays valid.
const tokenTTL = 72 * time.Hour

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *session.Manager
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, sessions *session.Manager, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/signup", h.SignupForm)
	g.POST("/signup", h.Signup)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login)
	g.GET("/logout", h.Logout)
}

// RegisterAPIAuthRoutes registers the bearer token endpoint
func (h *AuthHandler) RegisterAPIAuthRoutes(g *echo.Group) {
	g.POST("/auth/token", h.IssueToken)
}

type signupForm struct {
	Form   models.SignupRequest
	Errors map[string]string
}

func (h *AuthHandler) SignupForm(c echo.Context) error {
	if currentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "users/signup.html", signupForm{})
}

// Signup creates the account, logs it in and goes home. A taken username or
// email re-renders the form with a flash for each clash.
func (h *AuthHandler) Signup(c echo.Context) error {
	if currentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "users/signup.html", signupForm{Form: req, Errors: validators.Messages(err)})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Location: req.Location,
		ImageURL: req.ImageURL,
		Password: string(hashedPassword),
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultUserImage
	}

	ctx := c.Request().Context()
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, repositories.ErrAlreadyExists) {
			return httpError(c, err, "User")
		}
		if taken, _ := h.userRepository.UsernameTaken(ctx, req.Username, 0); taken {
			addFlash(c, h.sessions, "danger", "Username already taken")
		}
		if taken, _ := h.userRepository.EmailTaken(ctx, req.Email, 0); taken {
			addFlash(c, h.sessions, "danger", "This email address already signed up")
		}
		return c.Render(http.StatusOK, "users/signup.html", signupForm{Form: req})
	}

	if err := h.sessions.Login(c.Response(), c.Request(), user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	return c.Redirect(http.StatusFound, "/")
}

type loginForm struct {
	Form   models.LoginRequest
	Errors map[string]string
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	if currentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "users/login.html", loginForm{})
}

func (h *AuthHandler) Login(c echo.Context) error {
	if currentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusOK, "users/login.html", loginForm{Form: req, Errors: validators.Messages(err)})
	}

	user, err := h.authenticate(c, req.Username, req.Password)
	if err != nil {
		addFlash(c, h.sessions, "danger", "Invalid credentials.")
		return c.Render(http.StatusOK, "users/login.html", loginForm{Form: models.LoginRequest{Username: req.Username}})
	}

	if err := h.sessions.Login(c.Response(), c.Request(), user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	addFlash(c, h.sessions, "success", "Hello, "+user.Username+"!")
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect(http.StatusFound, "/")
	}
	if err := h.sessions.Logout(c.Response(), c.Request()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to end session")
	}
	addFlash(c, h.sessions, "success", "Goodbye "+user.Username+"!")
	return c.Redirect(http.StatusFound, "/")
}

// IssueToken exchanges username and password for a bearer token.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authenticate(c, req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      token,
		"expires_in": int(tokenTTL.Seconds()),
	})
}

var errInvalidCredentials = errors.New("invalid credentials")

// authenticate checks a username and plaintext password against the stored hash.
func (h *AuthHandler) authenticate(c echo.Context, username, password string) (*models.User, error) {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), strings.TrimSpace(username))
	if err != nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

// generateJWT creates a signed token for the user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
