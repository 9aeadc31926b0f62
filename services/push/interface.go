package push

import (
	"context"

	"hearth/models"
)

// Sender is the push-delivery transport. The engine only depends on
// this interface; the FCM implementation below is the production
// adapter.
type Sender interface {
	SendPush(ctx context.Context, n models.Notification) error
}
