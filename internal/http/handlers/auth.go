package handlers

import (
	"net/http"

	"acaiteria/internal/auth"
	"acaiteria/internal/http/middleware"
	"acaiteria/pkg/models"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Register customer
// @Description Cria a conta do cliente e retorna os tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Dados do cliente"
// @Success 201 {object} auth.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Login user
// @Description Authenticate user and return JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Generate new access token from refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RefreshRequest true "Refresh token"
// @Success 200 {object} auth.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// Profile godoc
// @Summary Get profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Router /me [get]
// @Security BearerAuth
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile"
// @Success 200 {object} models.User
// @Router /me [put]
// @Security BearerAuth
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	var req models.UpdateProfileRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Param request body models.ChangePasswordRequest true "Senhas"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /me/password [put]
// @Security BearerAuth
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	var req models.ChangePasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
