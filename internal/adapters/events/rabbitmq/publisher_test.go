package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublish_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{exchange: DefaultExchange, channel: ch}
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	event := &domain.LifecycleEvent{
		Type:      domain.LifecycleEventCompleted,
		SessionID: "s-1",
		UserID:    "u-1",
		Timestamp: ts,
		Data:      domain.LifecycleCompletedData{OverallScore: 72.5, Persisted: true},
	}
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(ch.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(ch.sent))
	}
	got := ch.sent[0]
	if got.exchange != DefaultExchange || got.key != "session.completed" {
		t.Errorf("published to (%q, %q), want (%q, session.completed)", got.exchange, got.key, DefaultExchange)
	}
	if got.msg.ContentType != "application/json" || got.msg.DeliveryMode != amqp.Persistent {
		t.Errorf("message headers = %q/%d", got.msg.ContentType, got.msg.DeliveryMode)
	}

	var body struct {
		Type      string `json:"type"`
		SessionID string `json:"session_id"`
		Data      struct {
			OverallScore float64 `json:"overall_score"`
		} `json:"data"`
	}
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Type != "session.completed" || body.SessionID != "s-1" || body.Data.OverallScore != 72.5 {
		t.Errorf("body = %+v", body)
	}
}

func TestPublish_Errors(t *testing.T) {
	event := &domain.LifecycleEvent{Type: domain.LifecycleEventStarted, SessionID: "s-1"}

	t.Run("channel failure", func(t *testing.T) {
		brokerErr := errors.New("channel closed")
		p := &Publisher{exchange: DefaultExchange, channel: &fakeChannel{err: brokerErr}}
		if err := p.Publish(context.Background(), event); !errors.Is(err, brokerErr) {
			t.Errorf("Publish() error = %v, want %v", err, brokerErr)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ch := &fakeChannel{}
		p := &Publisher{exchange: DefaultExchange, channel: ch}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := p.Publish(ctx, event); !errors.Is(err, context.Canceled) {
			t.Errorf("Publish() error = %v, want context.Canceled", err)
		}
		if len(ch.sent) != 0 {
			t.Error("message sent despite cancelled context")
		}
	})
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{exchange: DefaultExchange, channel: ch}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}
