package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the authenticated user id, set by the upstream
// gateway. Authentication itself happens outside this service.
const userIDHeader = "X-User-Id"

// requireUserID aborts with a uniform failure when the gateway did
// not identify the caller.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing user identity"})
		return "", false
	}
	return userID, true
}
