package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/models"
	"hearth/services/binding"
)

type stubBindingService struct {
	updates []binding.UpdateInput
}

func (s *stubBindingService) Fetch(ctx context.Context, activityID string, activityType models.ActivityType, userID string) (*models.Notification, error) {
	return nil, nil
}

func (s *stubBindingService) Update(ctx context.Context, in binding.UpdateInput) (*models.Notification, error) {
	s.updates = append(s.updates, in)
	return &models.Notification{ID: "n1"}, nil
}

func (s *stubBindingService) Delete(ctx context.Context, notificationID string) error {
	return nil
}

func bindingRouter(svc binding.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBindingHandler(svc)
	r.PUT("/api/activities/:type/:id/reminder", h.PutBinding)
	return r
}

func putBinding(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/activities/chore/c1/reminder", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPutBindingRejectsMissingScheduledFor(t *testing.T) {
	svc := &stubBindingService{}
	r := bindingRouter(svc)

	w := putBinding(t, r, `{"reminder": {"isRecurring": false}, "activityName": "Dishes"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "scheduledFor")
	assert.Empty(t, svc.updates, "an unscheduled reminder must not reach the service")
}

func TestPutBindingAcceptsScheduledReminder(t *testing.T) {
	svc := &stubBindingService{}
	r := bindingRouter(svc)

	w := putBinding(t, r, `{"reminder": {"scheduledFor": "2025-07-10T18:30:00Z"}, "activityName": "Dishes"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.updates, 1)
	assert.Equal(t, "c1", svc.updates[0].ActivityID)
	assert.False(t, svc.updates[0].Data.ScheduledFor.IsZero())
}

func TestPutBindingNilReminderRemovesBinding(t *testing.T) {
	svc := &stubBindingService{}
	r := bindingRouter(svc)

	w := putBinding(t, r, `{"currentNotificationId": "n1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.updates, 1)
	assert.Nil(t, svc.updates[0].Data)
}
