package service

import (
	"context"
	"log/slog"
)

// Routing keys of the events the storefront publishes.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventStockChanged       = "stock.changed"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// publish is best effort; failures are only logged.
func publish(ctx context.Context, pub EventPublisher, log *slog.Logger, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, payload); err != nil {
		log.Warn("publish event", "routing_key", key, "error", err)
	}
}
