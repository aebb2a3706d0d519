package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"
)

// RequireAuth accepts a bearer JWT and stores the caller as *domain.User.
// Roles come from the token claims.
func RequireAuth(tokens *util.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(authHeader) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("missing authorization header"))
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid authorization header"))
			}
			token := strings.TrimSpace(parts[1])
			claims, err := tokens.Parse(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid or expired token"))
			}
			c.Set(contextUserKey, &domain.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Roles: claims.Roles,
			})
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			if !user.HasRole(roles...) {
				return c.JSON(http.StatusForbidden, util.Error(strings.Join(roles, " or ")+" role required"))
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok && user != nil
}
