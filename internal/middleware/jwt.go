package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tivastore/internal/common"
	"tivastore/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Claims is the JWT payload issued at login. The store id rides along so
// most requests skip a user lookup, but the middleware still loads the user
// to reject deactivated or deleted accounts.
type Claims struct {
	UserID  uuid.UUID  `json:"user_id"`
	StoreID *uuid.UUID `json:"store_id"`
	Role    string     `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for the user.
func SignToken(secret string, userID uuid.UUID, storeID *uuid.UUID, role string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTAuth rejects requests without a valid bearer token and attaches the
// resolved user and store ids to the request context.
func JWTAuth(secret string, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
				}
				return err
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
			}

			storeID := uuid.Nil
			if user.StoreID != nil {
				storeID = *user.StoreID
			}
			ctx := common.WithIdentity(c.Request().Context(), user.ID, storeID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// OptionalJWTAuth resolves identity the same way JWTAuth does but never
// rejects: on a missing, invalid or expired token, or an unusable account,
// the request proceeds anonymously.
func OptionalJWTAuth(secret string, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil || !user.IsActive {
				return next(c)
			}

			storeID := uuid.Nil
			if user.StoreID != nil {
				storeID = *user.StoreID
			}
			ctx := common.WithIdentity(c.Request().Context(), user.ID, storeID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireStore guards tenant-scoped routes: the authenticated user must be
// attached to a store.
func RequireStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.GetStoreIDFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusForbidden, "No store associated with this account")
			}
			return next(c)
		}
	}
}
