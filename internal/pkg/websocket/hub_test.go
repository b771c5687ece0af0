package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func attach(h *Hub, userID int64) *Client {
	c := &Client{hub: h, send: make(chan []byte, sendBuffer), userID: userID}
	h.register <- c
	return c
}

func receive(t *testing.T, c *Client) models.Notification {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatalf("client %d channel closed", c.userID)
		}
		var n models.Notification
		if err := json.Unmarshal(msg, &n); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return n
	case <-time.After(time.Second):
		t.Fatalf("client %d received nothing", c.userID)
	}
	return models.Notification{}
}

func assertIdle(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("client %d got unexpected message %s", c.userID, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishRouting(t *testing.T) {
	h := startHub(t)
	alice := attach(h, 1)
	aliceTab := attach(h, 1)
	bob := attach(h, 2)

	h.Publish(models.Notification{ID: 10, Title: "New topic", Type: models.NotificationCurriculum})
	for _, c := range []*Client{alice, aliceTab, bob} {
		if n := receive(t, c); n.ID != 10 {
			t.Fatalf("client %d got %d, want global 10", c.userID, n.ID)
		}
	}

	owner := int64(2)
	h.Publish(models.Notification{ID: 11, UserID: &owner, Title: "Quiz graded"})
	if n := receive(t, bob); n.ID != 11 {
		t.Fatalf("bob got %d, want 11", n.ID)
	}
	assertIdle(t, alice)
	assertIdle(t, aliceTab)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := attach(h, 5)
	if got := h.ClientCount(5); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}

	h.unregister <- c
	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("send channel not closed")
	}
	if got := h.ClientCount(5); got != 0 {
		t.Fatalf("ClientCount after unregister = %d", got)
	}
}

func TestRunClosesClientsOnCancel(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := attach(h, 3)
	cancel()
	<-done

	if _, ok := <-c.send; ok {
		t.Fatalf("client left open after shutdown")
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub(zerolog.Nop())
	for i := 0; i < publishBuffer+5; i++ {
		h.Publish(models.Notification{ID: int64(i)})
	}
	if got := len(h.broadcast); got != publishBuffer {
		t.Fatalf("queued %d, want %d", got, publishBuffer)
	}
}
