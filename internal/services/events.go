package services

import (
	"context"
	"log/slog"
)

// Event names published by the services.
const (
	EventUserRegistered    = "user.registered"
	EventTagCreated        = "tag.created"
	EventIngredientCreated = "ingredient.created"
	EventRecipeCreated     = "recipe.created"
	EventRecipeUpdated     = "recipe.updated"
	EventRecipeDeleted     = "recipe.deleted"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]any) error
}

// publish sends an event if a publisher is configured. Failures are logged
// and never propagate to the caller.
func publish(ctx context.Context, p EventPublisher, event string, payload map[string]any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event, payload); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "event", event, "error", err)
	}
}
