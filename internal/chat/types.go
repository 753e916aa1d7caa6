package chat

import "net"

// DefaultRoom is the room every client is placed in at join time.
// The wire protocol has no room-selection message.
const DefaultRoom = "general"

// Session is one connected client's registered state. It is owned by
// the handler goroutine that created it; the Registry only keeps a
// lookup reference keyed by Conn for broadcast targeting and removal.
type Session struct {
	ID   string // correlation id for operator logs
	Conn net.Conn
	Name string // set once at registration, not guaranteed unique
	Addr string // peer address, informational
	Room string
}

var ErrDuplicateSession = errorString("duplicate_session")

type errorString string

func (e errorString) Error() string { return string(e) }
