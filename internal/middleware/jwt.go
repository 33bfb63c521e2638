// Package middleware holds the echo middleware of the booking API:
// bearer-token auth, role checks, the Redis response cache and the Redis
// token-bucket rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// JWTAuth validates an HS256 bearer token and stores its "sub" claim as a
// uint64 user id and its "role" claim in the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims := jwt.MapClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			}

			sub, ok := claims["sub"].(float64)
			role, rok := claims["role"].(string)
			if !ok || sub < 1 || !rok {
				return utils.JSONError(c, http.StatusUnauthorized, "invalid claims")
			}
			c.Set(ctxUserID, uint64(sub))
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}
