package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// JWTAuth validates the bearer token on every request and puts the
// authenticated user id into the context under "userID". The secret
// comes from configuration; an empty secret rejects every request
// rather than falling back to a guessable default.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication is not configured")
			}

			token, err := parseBearerToken(c.Request().Header.Get("Authorization"), secret)
			if err != nil {
				return err
			}

			claims := token.Claims.(*models.JwtCustomClaims)
			c.Set("user", claims)
			c.Set("userID", claims.UserID)
			return next(c)
		}
	}
}

func parseBearerToken(header, secret string) (*jwt.Token, error) {
	if header == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}

	token, err := jwt.ParseWithClaims(parts[1], &models.JwtCustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	if !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return token, nil
}
