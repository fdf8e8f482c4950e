package handler

import (
	"errors"
	"fmt"
	"net/http"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respondError writes err as {message, errors?}. Anything that is not an
// *apperror.Error is reported as a server error with fallback as message.
func respondError(c echo.Context, err error, fallback string) error {
	appErr := apperror.As(err, fallback)

	if appErr.Kind == apperror.KindServer {
		logger.FromEcho(c).Error(appErr.Message, zap.Error(appErr.Err))
	}

	return c.JSON(appErr.Kind.Status(), ErrorResponse{
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: message})
}

// HTTPErrorHandler answers framework errors (unknown routes, body limits,
// panics recovered by echo) with the same {message} body handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		default:
			message = fmt.Sprint(m)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("Request failed", zap.Int("status", code), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, dto.MessageResponse{Message: message})
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to write error response", zap.Error(err))
	}
}
