package sse

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "page.updated", Data: map[string]string{"path": "basics/overview"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: page.updated") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"basics/overview"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishContentEvent_SidebarThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger sidebar.updated.
	b.PublishContentEvent(ScopePage, "created", "a")
	// Second event immediately after should not trigger another one.
	b.PublishContentEvent(ScopeBoard, "updated", "a/boards/b.txt")

	var sidebarCount int
	deadline := time.After(time.Second)
	expected := 3 // page.created, sidebar.updated, board.updated
	for received := 0; received < expected; received++ {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "event: sidebar.updated") {
				sidebarCount++
			}
		case <-deadline:
			t.Fatalf("timeout after %d messages", received)
		}
	}
	if sidebarCount != 1 {
		t.Errorf("sidebar.updated count = %d, want 1", sidebarCount)
	}
}

func TestServeHTTP_StreamsEvents(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	req := httptest.NewRequest("GET", "/api/events", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(req.Context())
	go func() {
		b.ServeHTTP(rec, req.WithContext(ctx))
		close(done)
	}()

	// Wait until the handler has subscribed.
	for i := 0; i < 100 && b.ClientCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	b.Publish(Event{Type: "page.updated", Data: map[string]string{"path": "p"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/event-stream") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: page.updated") {
		t.Errorf("body = %q", body)
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker(time.Second)
	b.Close()
	b.Close()
	// Operations after close are no-ops.
	b.Publish(Event{Type: "x"})
	b.PublishContentEvent(ScopePage, "updated", "p")
	if b.ClientCount() != 0 {
		t.Error("closed broker should report 0 clients")
	}
}
