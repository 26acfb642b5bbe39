package events

import (
	"encoding/json"
	"sync"
)

// maxPending bounds the events queued for one subscriber
const maxPending = 16

// Hub fans published events out to subscribers. Events with the same key
// that a subscriber has not read yet are coalesced into the newest one.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub { return &Hub{subs: make(map[*Subscription]struct{})} }

// Subscription queues events for one reader
type Subscription struct {
	mu     sync.Mutex
	order  []string
	latest map[string]Event
	ready  chan struct{}
	closed bool
}

func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{latest: make(map[string]Event), ready: make(chan struct{}, 1)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		s.close()
	}
	h.mu.Unlock()
}

// Subscribers returns the number of active subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends payload under name. Pending events of the same name are
// replaced.
func (h *Hub) Publish(name string, payload any) {
	h.publish(name, name, payload)
}

// PublishChange sends an engine change. Pending changes of the same kind are
// replaced.
func (h *Hub) PublishChange(ev EngineChangeEvent) {
	h.publish(EngineChange+"/"+ev.Kind, EngineChange, ev)
}

func (h *Hub) publish(key, name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for s := range h.subs {
		s.push(key, msg)
	}
	h.mu.RUnlock()
}

func (s *Subscription) push(key string, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.latest[key]; !ok {
		if len(s.order) == maxPending {
			// drop the oldest
			delete(s.latest, s.order[0])
			s.order = s.order[1:]
		}
		s.order = append(s.order, key)
	}
	s.latest[key] = ev

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value when events are pending and is closed on
// Unsubscribe
func (s *Subscription) Ready() <-chan struct{} { return s.ready }

// Next pops the oldest pending event
func (s *Subscription) Next() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return Event{}, false
	}
	key := s.order[0]
	s.order = s.order[1:]
	ev := s.latest[key]
	delete(s.latest, key)
	return ev, true
}

// Pending returns the number of queued events
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Closed reports whether the subscription was ended by Unsubscribe
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Subscription) close() {
	s.mu.Lock()
	s.closed = true
	close(s.ready)
	s.mu.Unlock()
}
