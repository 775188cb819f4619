package realtime

import (
	"sync"

	"github.com/llanero/admin-backend/pkg/metrics"
)

const defaultBufferSize = 32

// Hub fans change events out to in-process subscribers by table. A subscriber
// whose buffer is full misses the event; the next refetch catches it up.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	buffer  int
	metrics *metrics.RealtimeMetrics
}

// NewHub builds a hub. metrics may be nil.
func NewHub(bufferSize int, m *metrics.RealtimeMetrics) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:    make(map[string]map[*Subscription]struct{}),
		buffer:  bufferSize,
		metrics: m,
	}
}

// Subscribe registers interest in every change of table.
func (h *Hub) Subscribe(table string) *Subscription {
	sub := &Subscription{
		table:  table,
		events: make(chan Event, h.buffer),
		hub:    h,
	}
	h.mu.Lock()
	if h.subs[table] == nil {
		h.subs[table] = make(map[*Subscription]struct{})
	}
	h.subs[table][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish delivers evt to every subscriber of evt.Table without blocking.
func (h *Hub) Publish(evt Event) {
	h.metrics.IncReceived(evt.Table)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[evt.Table] {
		select {
		case sub.events <- evt:
			h.metrics.IncDelivered(evt.Table)
		default:
			h.metrics.IncDropped(evt.Table)
		}
	}
}

// Subscribers returns how many subscriptions are open for table.
func (h *Hub) Subscribers(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.table]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.table)
		}
	}
	close(sub.events)
}

// Subscription is a per-table event stream. Close must be called on teardown.
type Subscription struct {
	table  string
	events chan Event
	hub    *Hub
	once   sync.Once
}

// Events is closed after Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}
