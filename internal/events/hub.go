package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// Hub delivers events to in-process subscribers of a battle. Slow
// subscribers lose events rather than block publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan Event]struct{})}
}

// Subscribe registers for the events of one battle. The returned cancel
// function unregisters and closes the channel.
func (h *Hub) Subscribe(battleID uint) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	set, ok := h.subs[battleID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[battleID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[battleID], ch)
			if len(h.subs[battleID]) == 0 {
				delete(h.subs, battleID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(_ context.Context, e Event) error {
	if e.BattleID == 0 {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[e.BattleID] {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of live subscriptions for a battle.
func (h *Hub) Subscribers(battleID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[battleID])
}
