package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"hearth/database/repository/docstore"
	"hearth/models"
)

const usersCollection = "users"

// FCMSender delivers notifications through Firebase Cloud Messaging.
// Device tokens live on the user document under pushTokens, one token
// per client app.
type FCMSender struct {
	Store  docstore.Client
	Client *messaging.Client
}

func (s *FCMSender) SendPush(ctx context.Context, n models.Notification) error {
	token, err := s.tokenFor(ctx, n.UserID, appFor(n))
	if err != nil {
		return err
	}

	data := map[string]string{
		"notificationId": n.NotificationID,
	}
	if screen, ok := n.Data["screen"].(string); ok && screen != "" {
		data["screen"] = screen
	}
	if n.LinkID != "" {
		data["linkId"] = n.LinkID
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-push-type": "alert",
			},
		},
	}
	if _, err := s.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push for notification %s: %w", n.ID, err)
	}
	return nil
}

// tokenFor resolves the user's device token for one client app.
func (s *FCMSender) tokenFor(ctx context.Context, userID string, app models.App) (string, error) {
	doc, err := s.Store.GetDocument(ctx, usersCollection, userID)
	if err != nil {
		return "", fmt.Errorf("could not load user %s: %w", userID, err)
	}
	tokens, _ := doc["pushTokens"].(map[string]any)
	token, _ := tokens[string(app)].(string)
	if token == "" {
		return "", fmt.Errorf("user %s has no push token for app %s", userID, app)
	}
	return token, nil
}

func appFor(n models.Notification) models.App {
	if raw, ok := n.Data["app"].(string); ok {
		if app, err := models.ParseApp(raw); err == nil {
			return app
		}
	}
	return models.AppHousehold
}
