package service

import (
	"context"

	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, pub events.Publisher, topic, key, typ string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, events.NewEvent(typ, payload)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", typ, "error", err)
	}
}
