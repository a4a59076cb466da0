package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/service"
)

// NewHTTPErrorHandler is the single place where service errors become
// status codes. Handlers return errors; nothing renders a 500 by hand.
func NewHTTPErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Server Error"

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
			message = describeFieldErrors(validationErrs)
		case errors.Is(err, service.ErrValidation):
			status = http.StatusBadRequest
			message = rootMessage(err, "validation failed")
		case errors.Is(err, service.ErrDuplicateEmail):
			status = http.StatusBadRequest
			message = "Email already exists"
		case errors.Is(err, service.ErrDuplicate):
			status = http.StatusBadRequest
			message = rootMessage(err, "Resource already exists")
		case errors.Is(err, service.ErrInvalidResetToken):
			status = http.StatusBadRequest
			message = "Invalid or expired token"
		case errors.Is(err, service.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			message = "Invalid credentials"
		case errors.Is(err, service.ErrTokenExpired), errors.Is(err, service.ErrTokenInvalid):
			status = http.StatusUnauthorized
			message = "Not authorized, token failed"
		case errors.Is(err, service.ErrForbidden):
			status = http.StatusForbidden
			message = "Not authorized to access this resource"
		case errors.Is(err, service.ErrNotFound):
			status = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, service.ErrUpstream), errors.Is(err, service.ErrUpstreamConfig):
			status = http.StatusServiceUnavailable
			message = "Video service unavailable"
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Resource not found"
		default:
			logger.Errorw("unhandled error", "error", err, "path", c.Path())
		}

		if jsonErr := c.JSON(status, Envelope{Success: false, Message: message}); jsonErr != nil {
			logger.Errorw("render error response", "error", jsonErr)
		}
	}
}

func describeFieldErrors(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Validation failed: " + strings.Join(fields, ", ")
}

// rootMessage keeps the wrapped context but drops the sentinel suffix the
// client does not need.
func rootMessage(err error, fallback string) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		msg = msg[:idx]
	}
	if msg == "" {
		return fallback
	}
	return msg
}
