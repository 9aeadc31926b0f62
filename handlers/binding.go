package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hearth/models"
	"hearth/services/binding"
)

// BindingHandler exposes the per-activity reminder binding.
type BindingHandler struct {
	Svc binding.Service
}

func NewBindingHandler(svc binding.Service) *BindingHandler {
	return &BindingHandler{Svc: svc}
}

// GetBinding re-derives the bound notification for an activity.
func (h *BindingHandler) GetBinding(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	activityType, err := models.ParseActivityType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	activityID := c.Param("id")

	n, err := h.Svc.Fetch(c.Request.Context(), activityID, activityType, userID)
	if err != nil {
		logger.Error("failed to fetch binding",
			zap.String("activityId", activityID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch reminder binding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}

// PutBinding updates (or, with a null reminder, removes) the binding.
func (h *BindingHandler) PutBinding(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	activityType, err := models.ParseActivityType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	activityID := c.Param("id")

	var input struct {
		CurrentNotificationID string               `json:"currentNotificationId"`
		Reminder              *models.ReminderData `json:"reminder"`
		ActivityName          string               `json:"activityName"`
		EventID               string               `json:"eventId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input: " + err.Error()})
		return
	}
	if input.Reminder != nil && input.Reminder.ScheduledFor.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reminder.scheduledFor is required"})
		return
	}

	in := binding.UpdateInput{
		Data:         input.Reminder,
		ActivityID:   activityID,
		ActivityType: activityType,
		UserID:       userID,
		ActivityName: input.ActivityName,
		EventID:      input.EventID,
	}
	if input.CurrentNotificationID != "" {
		in.Current = &models.Notification{ID: input.CurrentNotificationID}
	}

	n, err := h.Svc.Update(c.Request.Context(), in)
	if err != nil {
		logger.Error("failed to update binding",
			zap.String("activityId", activityID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update reminder binding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}

// DeleteBinding removes the bound notification, if any.
func (h *BindingHandler) DeleteBinding(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := requireUserID(c); !ok {
		return
	}
	notificationID := c.Query("notificationId")

	if err := h.Svc.Delete(c.Request.Context(), notificationID); err != nil {
		logger.Error("failed to delete binding",
			zap.String("notificationId", notificationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete reminder binding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
