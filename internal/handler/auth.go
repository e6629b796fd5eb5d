package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lukbre/ticketline/internal/config"
	"github.com/lukbre/ticketline/internal/model"
	"github.com/lukbre/ticketline/internal/repository"
	"github.com/lukbre/ticketline/internal/utils"
)

// AuthHandler serves registration and login. Sessions are stateless:
// login issues a short-lived HS256 access token and nothing is stored
// server side.
type AuthHandler struct {
	Store *repository.Store
	Cfg   config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store *repository.Store, cfg config.Config) *AuthHandler {
	if store == nil {
		panic("nil store passed to NewAuthHandler")
	}
	return &AuthHandler{Store: store, Cfg: cfg}
}

// Register handles POST /v1/auth/register. A duplicate email yields 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hashing failed"})
	}
	user := &model.User{
		Email:        body.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(body.FirstName),
		LastName:     strings.TrimSpace(body.LastName),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Store.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Login handles POST /v1/auth/login. Unknown email and wrong password
// are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	user, err := h.Store.UserByEmail(c.Request().Context(), body.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token signing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}
