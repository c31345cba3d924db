package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := WidgetEvent{Page: "inventory", AreaCode: "erp.inventory.main"}
	if err := hook.WidgetUpdated(context.Background(), event); err != nil {
		t.Fatalf("WidgetUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.AreaCode != event.AreaCode {
			t.Fatalf("expected area %s, got %s", event.AreaCode, e.AreaCode)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookPageMatcher(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.SubscribeMatching(PageEvents("inventory", "ada"))
	defer cancel()

	state := records.FilterState{Category: "electronics"}
	events := []WidgetEvent{
		{Page: "users", Reason: "add"},
		{Page: "inventory", Reason: "filter", Viewer: "grace", Filter: &state},
		{Page: "inventory", Reason: "filter", Viewer: "ada", Filter: &state},
		{Page: "inventory", Reason: "add"},
	}
	for _, event := range events {
		_ = hook.WidgetUpdated(context.Background(), event)
	}

	got := []string{}
	for len(ch) > 0 {
		e := <-ch
		got = append(got, e.Reason+":"+e.Viewer)
	}
	if strings.Join(got, ",") != "filter:ada,add:" {
		t.Fatalf("unexpected events delivered: %v", got)
	}
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < 10; i++ {
		_ = hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "refresh"})
	}
	if hook.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", hook.Dropped())
	}
}

func TestBroadcastHookClose(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	hook.Close()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	late, _ := hook.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("expected closed channel after Close")
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?page=sales-orders"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{Page: "inventory", Reason: "add"})
	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{Page: "sales-orders", Reason: "refresh"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event WidgetEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Page != "sales-orders" || event.Reason != "refresh" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestBroadcastHookServeWebSocketReleasesClosedClients(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor := func(want int) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for hook.Subscribers() != want && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if got := hook.Subscribers(); got != want {
			t.Fatalf("subscribers = %d, want %d", got, want)
		}
	}

	waitFor(1)
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitFor(0)
}
