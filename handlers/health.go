package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hearth/utils"
)

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
