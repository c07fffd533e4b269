package app

import (
	"sync"

	"dvg-portal/internal/domain"
)

// hub fans leaderboard snapshots out to live subscribers. There is one hub for
// the whole portal; every XP change funnels through it.
type hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[chan domain.Leaderboard]struct{})}
}

func (h *hub) subscribe(initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	ch <- initial

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *hub) broadcast(board domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- board:
		default:
			// A full buffer means the client is behind; replace the stale
			// snapshot instead of blocking the broadcast.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
