package chat

import "sync"

// DefaultHistoryCap bounds how many formatted messages each room
// retains for replay to newcomers.
const DefaultHistoryCap = 50

// History keeps a bounded FIFO log of formatted messages per room.
// When a room's log is full the oldest entry is dropped on append.
// Room logs are created lazily on first append and never destroyed.
type History struct {
	mu    sync.Mutex
	limit int
	rooms map[string][]string
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	return &History{
		limit: limit,
		rooms: make(map[string][]string),
	}
}

// Append adds a formatted message to the room's log, evicting from
// the front once the cap is reached.
func (h *History) Append(room, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.rooms[room]
	if len(log) >= h.limit {
		log = log[len(log)-h.limit+1:]
	}
	h.rooms[room] = append(log, message)
}

// Snapshot returns a copy of the room's log in append order. A room
// with no history yields an empty slice, not an error.
func (h *History) Snapshot(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.rooms[room]
	out := make([]string, len(log))
	copy(out, log)
	return out
}
