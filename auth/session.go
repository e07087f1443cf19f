package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /auth/session
//
// Mints an anonymous shopping-session token so guests can hold a cart before
// logging in. The session ID later drives cart migration at login.
func CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := uuid.NewString()

		token, err := IssueSessionToken(sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"session_id": sessionID,
			"token":      token,
			"expires_at": time.Now().Add(SessionTokenTTL),
		})
	}
}
