package handler

import (
	"net/http"

	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/service"
	"jobpilot-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgAuthFailed = "Server error. Please try again."

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse registration request", zap.Error(err))
		return badRequest(c, "All fields are required.")
	}

	resp, err := h.auth.Register(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err, msgAuthFailed)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse login request", zap.Error(err))
		return badRequest(c, "Email/Username and password are required.")
	}

	resp, err := h.auth.Login(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err, msgAuthFailed)
	}
	return c.JSON(http.StatusOK, resp)
}
