package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blackjack-table-backend/internal/models"
	"blackjack-table-backend/internal/services"
)

const playerTokenCookie = "player_token"

// IdentityMiddleware gives every visitor a stable guest identity. A valid
// token in the cookie (or Authorization header, for non-browser clients)
// is honored; anything else mints a fresh player id and sets the cookie.
func IdentityMiddleware(jwtService *services.JWTService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := ""

		if tokenString := bearerToken(c); tokenString != "" {
			if id, err := jwtService.ValidatePlayerToken(tokenString); err == nil {
				playerID = id
			}
		}

		if playerID == "" {
			if cookie, err := c.Cookie(playerTokenCookie); err == nil {
				if id, err := jwtService.ValidatePlayerToken(cookie); err == nil {
					playerID = id
				}
			}
		}

		if playerID == "" {
			playerID = models.GeneratePlayerID()
			token, err := jwtService.IssuePlayerToken(playerID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish identity"})
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(playerTokenCookie, token, 7*24*60*60, "/", "", secureCookies, true)
		}

		c.Set("player_id", playerID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
