package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hearth/database/repository/docstore"
	"hearth/models"
	"hearth/services/calendar"
	"hearth/services/event"
)

// EventHandler exposes the calendar mirror and the internal month
// shard operations.
type EventHandler struct {
	Mirror calendar.MirrorService
	Shards event.ShardStore
}

func NewEventHandler(mirror calendar.MirrorService, shards event.ShardStore) *EventHandler {
	return &EventHandler{Mirror: mirror, Shards: shards}
}

// SaveMirroredEvent pushes an event to the external calendar and
// mirrors it locally.
func (h *EventHandler) SaveMirroredEvent(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := requireUserID(c); !ok {
		return
	}

	var input struct {
		Event      models.EventInput `json:"event"`
		CalendarID string            `json:"calendarId"`
		Activities []string          `json:"activities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input: " + err.Error()})
		return
	}
	if input.CalendarID == "" || input.Event.StartTime.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "calendarId and event.startTime are required"})
		return
	}

	eventID, err := h.Mirror.Save(c.Request.Context(), input.Event, input.CalendarID, input.Activities)
	if err != nil {
		logger.Error("failed to mirror event", zap.String("calendarId", input.CalendarID), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, calendar.ErrCalendarNotResolvable) {
			status = http.StatusNotFound
		} else if errors.Is(err, calendar.ErrProviderRejected) {
			status = http.StatusBadGateway
		}
		resp := gin.H{"success": false, "error": err.Error()}
		if eventID != "" {
			// Provider accepted the event but the mirror write
			// failed; hand the id back so the caller can retry or
			// reconcile.
			resp["eventId"] = eventID
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": eventID})
}

// DeleteMirroredEvent removes an event from the provider and from the
// local mirror.
func (h *EventHandler) DeleteMirroredEvent(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := requireUserID(c); !ok {
		return
	}
	eventID := c.Param("id")
	calendarID := c.Query("calendarId")
	if calendarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "calendarId is required"})
		return
	}

	if err := h.Mirror.Delete(c.Request.Context(), eventID, calendarID); err != nil {
		logger.Error("failed to delete mirrored event", zap.String("eventId", eventID), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, calendar.ErrCalendarNotResolvable) {
			status = http.StatusNotFound
		} else if errors.Is(err, calendar.ErrProviderRejected) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SaveInternalEvent writes an internally authored event into its
// owner's month shard.
func (h *EventHandler) SaveInternalEvent(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input struct {
		OwnerEntityID string               `json:"ownerEntityId"`
		Event         models.InternalEvent `json:"event"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input: " + err.Error()})
		return
	}
	if input.OwnerEntityID == "" {
		input.OwnerEntityID = userID
	}
	if input.Event.StartTime.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "event.startTime is required"})
		return
	}
	if input.Event.Key == "" {
		input.Event.Key = uuid.New().String()
	}
	if input.Event.CreatedBy == "" {
		input.Event.CreatedBy = userID
	}

	if err := h.Shards.SaveInternalEvent(c.Request.Context(), input.OwnerEntityID, input.Event); err != nil {
		logger.Error("failed to save internal event", zap.String("eventKey", input.Event.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "eventKey": input.Event.Key})
}

// DeleteInternalEvent removes an internally authored event from its
// month shard, addressed by start time.
func (h *EventHandler) DeleteInternalEvent(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	eventKey := c.Param("key")

	startTime, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "startTime must be RFC 3339"})
		return
	}
	ownerEntityID := c.Query("ownerEntityId")
	if ownerEntityID == "" {
		ownerEntityID = userID
	}

	if err := h.Shards.DeleteInternalEvent(c.Request.Context(), eventKey, startTime, ownerEntityID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "event shard not found"})
			return
		}
		logger.Error("failed to delete internal event", zap.String("eventKey", eventKey), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
