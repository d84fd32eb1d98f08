package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"wellbeing/services"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

// SessionValidator reports whether a login session may still be used.
type SessionValidator interface {
	Validate(ctx context.Context, sessionID string) bool
}

// BearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on websocket upgrades, so access_token in the query
// string is accepted as a fallback.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("access_token")
}

func AuthMiddleware(tokens *services.TokenService, blacklist *services.TokenBlacklist, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			c.Abort()
			return
		}

		if blacklist.IsRevoked(c.Request.Context(), tokenString) {
			utils.TrackAuthAttempt("failure", "blacklisted")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Token has been invalidated",
				"code":  "TOKEN_BLACKLISTED",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString, services.TokenTypeAccess)
		if err != nil {
			message := "Invalid token"
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				message = "Token has expired"
			case errors.Is(err, services.ErrInvalidTokenType):
				message = "Invalid token type"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			c.Abort()
			return
		}

		if sessions != nil && claims.SessionID != "" && !sessions.Validate(c.Request.Context(), claims.SessionID) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Set("token", tokenString)
		if claims.IssuedAt != nil {
			c.Set("token_issued_at", claims.IssuedAt.Time)
		}
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}
