package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userIDContextKey is the echo context key carrying the authenticated user
// ID. Zero means guest.
const userIDContextKey = "confmate.user-id"

// authMiddleware resolves the attendee identity from a Bearer token. Every
// endpoint accepts guests; a missing or absent token degrades to user ID 0
// rather than rejecting the request, since the catalog and chat are public.
// A token that is present but invalid is rejected so stolen or expired
// credentials never silently fall back to guest.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") || s.Secret == "" {
			c.Set(userIDContextKey, int32(0))
			return next(c)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.Secret), nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		userID := userIDFromClaims(claims)
		if userID <= 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "token missing user identifier")
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// userIDFromClaims reads the subject claim. IDs are numeric; a non-numeric
// subject yields zero and the token is rejected.
func userIDFromClaims(claims jwt.MapClaims) int32 {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0
	}
	id, err := strconv.ParseInt(sub, 10, 32)
	if err != nil {
		return 0
	}
	return int32(id)
}

// currentUserID returns the user ID resolved by authMiddleware, zero for
// guests.
func currentUserID(c echo.Context) int32 {
	if id, ok := c.Get(userIDContextKey).(int32); ok {
		return id
	}
	return 0
}

// requireUser returns the user ID or an error for endpoints that have no
// meaningful guest behavior, such as agendas and profiles.
func requireUser(c echo.Context) (int32, error) {
	id := currentUserID(c)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

// GenerateToken signs an access token for the given user ID. Used by the
// CLI to mint tokens for testing and by deployments without an external
// identity provider.
func GenerateToken(secret string, userID int32, ttlSeconds int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(int64(userID), 10),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(time.Duration(ttlSeconds) * time.Second)),
		"iss": "confmate",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
