package handler

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signaltracker/tracker-api/internal/core/domain"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// AuthHandler serves the unauthenticated boundary: registration and login.
type AuthHandler struct {
	users  ports.UserService
	auth   ports.AuthService
	appKey string
}

func NewAuthHandler(users ports.UserService, auth ports.AuthService, appKey string) *AuthHandler {
	return &AuthHandler{users: users, auth: auth, appKey: appKey}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register creates a USER-role account. The request must present the mobile
// app's client key; registration is not an open endpoint.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-App-Key  header    string           true  "Mobile app client key"
// @Param        body       body      registerRequest  true  "Account details"
// @Success      201        {object}  userResponse
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	key := c.Request().Header.Get("X-App-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.appKey)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid app key")
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.RoleUser,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/users/%d", user.ID))
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse  "Account locked by repeated failures"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}
