package handlers

import (
	"net/http"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError is the single boundary mapping from errors to the JSON
// envelope. Domain errors carry their own status and code; anything else
// becomes a generic 500 whose detail leaks only in development mode.
func respondError(c *gin.Context, logger *zap.Logger, development bool, err error) {
	if ae := apperr.From(err); ae != nil {
		body := gin.H{
			"success": false,
			"message": ae.Message,
			"code":    ae.Code,
		}
		if ae.Details != nil {
			body["details"] = ae.Details
		}
		c.JSON(ae.Status, body)
		return
	}

	logger.Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	body := gin.H{
		"success": false,
		"message": "Internal server error",
		"code":    "INTERNAL_ERROR",
	}
	if development {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// sessionUserID reads the authenticated user id placed by the login
// handler; RequireAuth guarantees it exists on protected routes.
func sessionUserID(c *gin.Context) uint {
	if v, ok := c.Get("CurrentUserID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
