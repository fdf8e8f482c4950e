package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository"
	"jobpilot-service/pkg/jwtutil"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserKey is the echo.Context key holding the authenticated *model.User
const UserKey = "user"

// TokenVerifier checks session tokens
type TokenVerifier interface {
	Configured() bool
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}

// UserFinder loads the account a token was issued for
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Protect requires a valid bearer token for an existing user and stores that
// user on the context.
func Protect(tokens TokenVerifier, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer") {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
			}

			var token string
			if parts := strings.Split(authHeader, " "); len(parts) > 1 {
				token = parts[1]
			}

			if !tokens.Configured() {
				log.Error("JWT secret is not configured")
				return c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "JWT_SECRET is not set on server."})
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, token failed."})
			}

			userID, err := claims.UserID()
			if err != nil {
				log.Warn("Token carries no usable subject", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, token failed."})
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					log.Warn("Token user no longer exists", zap.Uint("user_id", userID))
					prometheus.RecordAuthError("user_not_found")
					return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "User not found."})
				}
				log.Error("Failed to load token user", zap.Uint("user_id", userID), zap.Error(err))
				return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, token failed."})
			}

			c.Set(UserKey, user)
			logger.SetEcho(c, log.With(zap.Uint("user_id", user.ID)))

			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Protect
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserKey).(*model.User)
	return user, ok && user != nil
}
