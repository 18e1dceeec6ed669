// Package direct provides an in-process lifecycle event publisher.
package direct

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// Handler receives published events synchronously.
type Handler func(ctx context.Context, event *domain.LifecycleEvent)

// Publisher implements ports.EventPublisher by logging each event and handing
// it to registered handlers in the publishing goroutine.
// This is the default implementation for single-instance deployments.
type Publisher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a new direct event publisher.
func NewPublisher(logger *slog.Logger, handlers ...Handler) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		logger:   logger,
		handlers: handlers,
	}
}

// Subscribe registers h for all subsequent events.
func (p *Publisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Publish logs the event and calls each handler in registration order.
// Events published after Close are dropped.
func (p *Publisher) Publish(ctx context.Context, event *domain.LifecycleEvent) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil
	}
	handlers := append([]Handler(nil), p.handlers...)
	p.mu.RUnlock()

	p.logger.Info("lifecycle event",
		slog.String("event_type", string(event.Type)),
		slog.String("session_id", event.SessionID),
		slog.String("user_id", event.UserID),
	)

	for _, h := range handlers {
		h(ctx, event)
	}
	return nil
}

// Close stops delivery.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
