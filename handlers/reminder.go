package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hearth/models"
	"hearth/services/reminder"
)

// ReminderHandler exposes the standalone reminder projection.
type ReminderHandler struct {
	Svc reminder.ProjectorService
}

func NewReminderHandler(svc reminder.ProjectorService) *ReminderHandler {
	return &ReminderHandler{Svc: svc}
}

// SaveReminder creates or replaces a reminder and rebuilds its
// notification projection.
func (h *ReminderHandler) SaveReminder(c *gin.Context) {
	logger := getLogger(c)
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var rem models.Reminder
	if err := c.ShouldBindJSON(&rem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid reminder: " + err.Error()})
		return
	}
	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}
	if len(rem.Recipients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reminder needs at least one recipient"})
		return
	}

	if err := h.Svc.Save(c.Request.Context(), ownerID, rem); err != nil {
		var partial *reminder.PartialWriteError
		if errors.As(err, &partial) {
			logger.Error("reminder projection partially written",
				zap.String("reminderId", rem.ID),
				zap.Int("created", partial.Created),
				zap.Int("failed", partial.Failed),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "some notifications could not be created; retry the save",
				"created": partial.Created,
				"failed":  partial.Failed,
			})
			return
		}
		logger.Error("failed to save reminder", zap.String("reminderId", rem.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save reminder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": rem.ID})
}

// DeleteReminder tears down the projection and removes the reminder.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	logger := getLogger(c)
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	reminderID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), ownerID, reminderID); err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reminder not found"})
			return
		}
		logger.Error("failed to delete reminder", zap.String("reminderId", reminderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete reminder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleReminder flips the active flag and rebuilds or removes the
// projection.
func (h *ReminderHandler) ToggleReminder(c *gin.Context) {
	logger := getLogger(c)
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	reminderID := c.Param("id")

	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "isActive is required"})
		return
	}

	if err := h.Svc.ToggleActive(c.Request.Context(), ownerID, reminderID, *input.IsActive); err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reminder not found"})
			return
		}
		logger.Error("failed to toggle reminder", zap.String("reminderId", reminderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to toggle reminder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isActive": *input.IsActive})
}
