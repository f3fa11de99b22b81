package publishers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/acts-bd/acts-client/pkg/notify"
)

type stubPublisher struct {
	mu     sync.Mutex
	id     string
	typ    string
	err    error
	events []Event
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

type countingLogger struct {
	noopLogger
	warns int
}

func (c *countingLogger) WarnObj(string, string, interface{}) { c.warns++ }

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		nil,
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})
	if fanout.Size() != 2 {
		t.Fatalf("expected nil publisher to be skipped, size = %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	p := &stubPublisher{id: "a", typ: "sqs"}
	if err := NewFanout([]Publisher{p}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !p.closed {
		t.Fatalf("publisher was not closed")
	}
}

func TestAlertSinkPublishesNotification(t *testing.T) {
	p := &stubPublisher{id: "a", typ: "http"}
	sink := NewAlertSink("actsctl", NewFanout([]Publisher{p}), time.Second, nil)

	sink.Notify(context.Background(), notify.Danger("Request failed: HTTP error! status: 503"))

	if len(p.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(p.events))
	}
	evt := p.events[0]
	if evt.ID == "" || evt.Source != "actsctl" || evt.Severity != notify.SeverityDanger {
		t.Fatalf("unexpected event %#v", evt)
	}
	if evt.Message != "Request failed: HTTP error! status: 503" {
		t.Fatalf("message = %q", evt.Message)
	}
}

func TestAlertSinkSwallowsPublishErrors(t *testing.T) {
	log := &countingLogger{}
	p := &stubPublisher{id: "a", typ: "http", err: errors.New("down")}
	sink := NewAlertSink("actsctl", NewFanout([]Publisher{p}), time.Second, log)

	sink.Notify(context.Background(), notify.Danger("x"))

	if log.warns != 1 {
		t.Fatalf("expected one warning, got %d", log.warns)
	}
}

func TestAlertSinkPublishesAfterCallerCancel(t *testing.T) {
	p := &stubPublisher{id: "a", typ: "http"}
	sink := NewAlertSink("actsctl", NewFanout([]Publisher{p}), time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Notify(context.WithoutCancel(ctx), notify.Danger("x"))

	if len(p.events) != 1 {
		t.Fatalf("expected event to be published")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "hook" || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
