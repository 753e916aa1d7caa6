package chat

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Registry is the shared set of live sessions, keyed by transport
// handle. It is the source of truth for room membership and owns the
// broadcast fan-out. The lock covers map access only, never socket
// I/O: Broadcast snapshots its target list under the lock and
// delivers after releasing it, so one stalled peer cannot block
// message delivery or session churn for everyone else.
type Registry struct {
	mu       sync.Mutex
	sessions map[net.Conn]*Session
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[net.Conn]*Session),
		logger:   logger,
	}
}

// Register inserts a session. It fails with ErrDuplicateSession only
// if the same transport handle is already present, which should not
// happen with one handler per accepted connection.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.Conn]; exists {
		return ErrDuplicateSession
	}
	r.sessions[s.Conn] = s
	ConnectedSessions.Set(float64(len(r.sessions)))

	r.logger.Info("session registered", "id", s.ID, "name", s.Name, "room", s.Room, "addr", s.Addr)
	return nil
}

// Deregister removes the session for the given transport handle.
// Removing an absent handle is a no-op.
func (r *Registry) Deregister(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[conn]
	if !ok {
		return
	}
	delete(r.sessions, conn)
	ConnectedSessions.Set(float64(len(r.sessions)))

	r.logger.Info("session deregistered", "id", s.ID, "name", s.Name, "room", s.Room)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Broadcast delivers message, newline-terminated, to every session in
// room except the one on exclude. Delivery is best-effort: a write
// failure to one target is counted and does not abort the rest.
func (r *Registry) Broadcast(room, message string, exclude net.Conn) {
	start := time.Now()

	r.mu.Lock()
	targets := lo.FilterMap(lo.Values(r.sessions), func(s *Session, _ int) (net.Conn, bool) {
		return s.Conn, s.Room == room && s.Conn != exclude
	})
	r.mu.Unlock()

	for _, conn := range targets {
		if err := writeLine(conn, message); err != nil {
			SendFailures.Inc()
			r.logger.Debug("delivery failed", "room", room, "error", err)
		}
	}

	BroadcastDuration.WithLabelValues(room).Observe(time.Since(start).Seconds())
}

// CloseAll closes every live transport. Used during shutdown to
// unblock handlers parked in a read; deregistration stays with each
// handler's own closing path.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := lo.Values(r.sessions)
	r.mu.Unlock()

	for _, s := range sessions {
		_ = s.Conn.Close()
	}
}
