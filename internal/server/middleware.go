package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
)

const userContextKey = "currentUser"

// requireAuth resolves `Authorization: Bearer <token>` to a user and stores
// it on the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		var user models.User
		err := s.db.Where("api_token = ?", token).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusUnauthorized, "invalid token")
			} else {
				respondError(c, http.StatusInternalServerError, "auth lookup failed")
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// requireRole rejects users whose role is not in the allow list. Must run
// after requireAuth.
func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
