package middleware

import (
	"net/http"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := sess.Get("user_id").(uint)
		if !ok || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
				"code":    "UNAUTHORIZED",
			})
			return
		}
		c.Set("CurrentUserID", userID)
		if role, ok := sess.Get("role").(string); ok {
			c.Set("CurrentUserRole", models.UserRole(role))
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := c.Get("CurrentUserRole")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
				"code":    "UNAUTHORIZED",
			})
			return
		}
		if _, allowed := roleSet[role.(models.UserRole)]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient permissions",
				"code":    "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}
