package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShepherdBook/middlewares"
	"github.com/ShepherdBook/models"
	"github.com/ShepherdBook/services"
)

const (
	defaultHistoryLimit = 12
	maxHistoryLimit     = 104
)

func GetCurrentWeeklySelection(c *gin.Context) {
	selections := services.GetWeeklySelectionService()
	if selections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weekly selection is not available"})
		return
	}

	sel, err := selections.Current(c)
	if err != nil {
		respondWeeklySelectionError(c, err, "Failed to load weekly selection", "")
		return
	}

	detail, err := selections.Detail(c, *sel)
	if err != nil {
		respondWeeklySelectionError(c, err, "Failed to load weekly selection", "")
		return
	}

	c.JSON(http.StatusOK, detail)
}

func SendWeeklyPrayer(c *gin.Context) {
	user := c.MustGet("currentUser").(models.AppUser)

	dispatcher := services.GetPrayerDispatchService()
	if dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Prayer dispatch is not available"})
		return
	}

	var req models.SendPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := dispatcher.Dispatch(c, user, req.Channel, req.CustomMessage)
	if errors.Is(err, services.ErrNoCandidatesAvailable) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No weekly selection exists and none can be created", "details": err.Error()})
		return
	}
	if err != nil {
		respondWeeklySelectionError(c, err, "Failed to send prayer message", req.Channel)
		return
	}

	c.JSON(http.StatusOK, result)
}

func GetWeeklySelectionHistory(c *gin.Context) {
	selections := services.GetWeeklySelectionService()
	if selections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weekly selection is not available"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": "limit must be between 1 and " + strconv.Itoa(maxHistoryLimit)})
			return
		}
		limit = parsed
	}

	history, err := selections.History(c, limit)
	if err != nil {
		respondWeeklySelectionError(c, err, "Failed to load selection history", "")
		return
	}

	details := make([]models.WeeklySelectionDetail, 0, len(history))
	for _, sel := range history {
		detail, err := selections.Detail(c, sel)
		if errors.Is(err, services.ErrSelectionNotFound) {
			// The member or family was removed after being selected.
			details = append(details, models.WeeklySelectionDetail{Selection: sel, WeekKey: sel.WeekKey()})
			continue
		}
		if err != nil {
			respondWeeklySelectionError(c, err, "Failed to load selection history", "")
			return
		}
		details = append(details, *detail)
	}

	c.JSON(http.StatusOK, gin.H{"selections": details})
}

func respondWeeklySelectionError(c *gin.Context, err error, fallback, channel string) {
	switch {
	case errors.Is(err, services.ErrNoCandidatesAvailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No members or families available for selection"})
	case errors.Is(err, services.ErrSendLimitExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prayer message already sent twice this week"})
	case errors.Is(err, services.ErrNoContactInfo):
		if channel == models.PrayerChannelSMS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid phone numbers found"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid emails found"})
		}
	case errors.Is(err, services.ErrUnsupportedChannel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported channel", "details": err.Error()})
	case errors.Is(err, services.ErrSelectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Weekly selection not found", "details": err.Error()})
	case errors.Is(err, services.ErrChannelUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Channel is not configured", "details": err.Error()})
	default:
		middlewares.Logger(c).Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
