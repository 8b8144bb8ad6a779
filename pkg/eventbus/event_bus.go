// Package eventbus provides publish/subscribe transport for execution
// lifecycle events.
package eventbus

import (
	"context"

	"github.com/iamoneai/flowcanvas/pkg/events"
)

// EventHandler processes one decoded event.
type EventHandler func(ctx context.Context, event any) error

// EventBus publishes and subscribes to execution lifecycle events.
type EventBus interface {
	Publish(ctx context.Context, key string, event events.Event) error
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
	GenerateID() string
	Close() error
}
