package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// EventMatcher selects the events a subscriber receives.
type EventMatcher func(WidgetEvent) bool

// PageEvents matches events of a page. Filter events are further limited to
// the viewer that produced them; an empty page matches every page.
func PageEvents(page, viewer string) EventMatcher {
	return func(event WidgetEvent) bool {
		if page != "" && event.Page != page {
			return false
		}
		if event.Filter != nil && viewer != "" && event.Viewer != viewer {
			return false
		}
		return true
	}
}

type subscriber struct {
	ch    chan WidgetEvent
	match EventMatcher
}

// BroadcastHook fans out widget and filter events to in-process subscribers.
// Slow subscribers lose events instead of blocking the publisher.
type BroadcastHook struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	next    int
	closed  bool
	dropped atomic.Uint64
}

var _ RefreshHook = (*BroadcastHook)(nil)

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]subscriber),
	}
}

// WidgetUpdated satisfies the RefreshHook interface and broadcasts events.
func (h *BroadcastHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.match != nil && !sub.match(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe returns a channel of every event and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan WidgetEvent, func()) {
	return h.SubscribeMatching(nil)
}

// SubscribeMatching returns a channel of the events accepted by match and a
// cancel func. The channel is closed on cancel or Close.
func (h *BroadcastHook) SubscribeMatching(match EventMatcher) (<-chan WidgetEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan WidgetEvent, 8)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = subscriber{ch: ch, match: match}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many events were discarded for full subscriber buffers.
func (h *BroadcastHook) Dropped() uint64 {
	return h.dropped.Load()
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func requestMatcher(r *http.Request) EventMatcher {
	q := r.URL.Query()
	return PageEvents(q.Get("page"), q.Get("viewer"))
}

// ServeWebSocket upgrades the request and streams matching events as JSON.
// The optional page and viewer query parameters narrow the stream. The
// subscription ends as soon as the client closes the connection.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeMatching(requestMatcher(r))
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go readUntilClosed(conn, stop)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// readUntilClosed drains client frames so close and ping control messages
// are processed, and calls stop once the connection fails.
func readUntilClosed(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for refresh events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeMatching(requestMatcher(r))
	defer cancel()

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return
			}
			if _, err := w.Write([]byte("event: " + event.Reason + "\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(append(payload, '\n', '\n')); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
