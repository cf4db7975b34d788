package controllers

import (
	"net/http"

	"github.com/ShepherdBook/initializers"
	"github.com/gin-gonic/gin"
)

func Ping(c *gin.Context) {
	if initializers.DB != nil {
		if _, err := initializers.DB.ExecContext(c, "SELECT 1"); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable", "details": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
