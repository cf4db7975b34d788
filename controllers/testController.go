package controllers

import (
	"net/http"

	"github.com/ShepherdBook/services"
	"github.com/gin-gonic/gin"
)

// TestPrayerEmail sends the prayer email to one address so admins can check the
// Resend setup without using up a weekly send.
func TestPrayerEmail(c *gin.Context) {
	type TestEmailRequest struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"displayName"`
	}

	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required", "details": err.Error()})
		return
	}

	if req.DisplayName == "" {
		req.DisplayName = "Test Family"
	}

	emailService := services.GetEmailService()
	if emailService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Email service is not initialized. Check RESEND_API_KEY in .env",
		})
		return
	}

	message := services.RenderPrayerMessage(nil, req.DisplayName)
	if err := services.SendPrayerEmail(c, emailService, req.Email, message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Test email sent successfully!",
		"email":       req.Email,
		"displayName": req.DisplayName,
	})
}
