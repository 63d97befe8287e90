package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
)

const userContextKey = "user"

type AuthMiddleware struct {
	secret []byte
	users  repository.UserRepository
}

func NewAuthMiddleware(secret string, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), users: users}
}

// errorBody mirrors the handler package's error envelope without
// importing it (handler depends on this package).
func errorBody(code, message string) map[string]map[string]string {
	return map[string]map[string]string{
		"error": {"code": code, "message": message},
	}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "missing bearer token"))
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "invalid or expired token"))
		}
		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "invalid or expired token"))
		}

		user, err := m.users.FindByID(c.Request().Context(), userID)
		if err != nil || !user.IsActive {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "invalid or expired token"))
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireRole guards partner/admin endpoints. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, errorBody("authentication_failed", "not authenticated"))
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorBody("forbidden", "insufficient permissions"))
		}
	}
}

func UserFromContext(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
