package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/logger"
)

// EventHandler reacts to a domain event. Returning an error aborts the emission.
type EventHandler func(ctx context.Context, event domain.Event) error

type subscription struct {
	name    string
	handler EventHandler
}

// Bus is a synchronous in-process publish/subscribe table keyed by event type.
// Handlers run in registration order and each one completes before the next starts.
type Bus struct {
	name   string
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[domain.EventType][]subscription
}

// NewBus creates an empty bus. name identifies the owning context in logs.
func NewBus(name string, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		name:   name,
		logger: log.With(zap.String("bus", name)),
		subs:   make(map[domain.EventType][]subscription),
	}
}

// Subscribe appends handler to the subscribers of eventType.
func (b *Bus) Subscribe(eventType domain.EventType, name string, handler EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], subscription{name: name, handler: handler})
}

// Emit invokes every subscriber of event.Type() in order and stops at the first failure.
// An event nobody listens to is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event domain.Event) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}
	log := logger.WithRequestID(ctx, b.logger).With(
		zap.String("event", string(event.Type())),
		zap.String("aggregate_id", event.AggregateID()),
	)

	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[event.Type()]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		log.Warn("no subscribers for event")
		return nil
	}

	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			log.Error("event subscriber failed", zap.String("subscriber", sub.name), zap.Error(err))
			return fmt.Errorf("%s on %s: %w", sub.name, event.Type(), err)
		}
		log.Debug("event handled", zap.String("subscriber", sub.name))
	}
	return nil
}

// Subscribers returns the subscriber names for eventType in invocation order.
func (b *Bus) Subscribers(eventType domain.EventType) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.subs[eventType]))
	for _, sub := range b.subs[eventType] {
		names = append(names, sub.name)
	}
	return names
}

// Unsubscribed reports which of the given event types have no subscriber.
func (b *Bus) Unsubscribed(types ...domain.EventType) []domain.EventType {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var missing []domain.EventType
	for _, t := range types {
		if len(b.subs[t]) == 0 {
			missing = append(missing, t)
		}
	}
	return missing
}

// On subscribes a handler typed to a single event struct.
func On[E domain.Event](b *Bus, name string, fn func(ctx context.Context, event E) error) {
	var zero E
	b.Subscribe(zero.Type(), name, func(ctx context.Context, event domain.Event) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("%s: unexpected event %T for %s", name, event, zero.Type())
		}
		return fn(ctx, typed)
	})
}

// Emitter is the publishing side of a Bus, as seen by command handlers.
type Emitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

var _ Emitter = (*Bus)(nil)
