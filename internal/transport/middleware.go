package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

const bearerPrefix = "Bearer "

// AuthMiddleware gates every route except the public ones. Anything that
// is not a well-formed `Authorization: Bearer <token>` header counts as
// no token at all.
func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.publicPaths[c.Path()] {
			return next(c)
		}

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return c.JSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Message: "Not authorized to access this route",
			})
		}

		userID, err := s.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Message: "Not authorized, token failed",
			})
		}

		user := db.User{}
		if err := s.db.First(&user, userID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Errorw("load user for token", "error", err)
			}
			return c.JSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Message: "No user found with this id",
			})
		}

		c.Set("user", &user)
		return next(c)
	}
}

// RequireRole must run after AuthMiddleware; it assumes the identity is
// already attached.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := GetUserFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Envelope{
					Success: false,
					Message: "Not authorized to access this route",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, Envelope{
				Success: false,
				Message: "User role " + user.Role + " is not authorized to access this route",
			})
		}
	}
}

func requestLoggerMiddleware(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/ping"
		},
		Handler: func(c echo.Context, reqBody, _ []byte) {
			logger.Infow("request",
				"id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"body", string(censorBody(reqBody)),
			)
		},
	})
}

// censorBody blanks password-bearing fields before they hit a log line.
func censorBody(body []byte) []byte {
	if len(body) == 0 {
		return body
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	for key := range fields {
		if strings.Contains(strings.ToLower(key), "password") {
			fields[key] = "$censored"
		}
	}
	censored, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return censored
}
