package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hearth/utils"
)

// getLogger retrieves a Zap logger from the Gin context or falls back
// to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}
