package chat

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
)

// readBufferSize bounds a single inbound read. A message larger than
// one read is relayed as two messages; it is not reassembled.
const readBufferSize = 1024

const namePrompt = "Enter your name: "

// handleSession runs the per-connection protocol: prompt for a name,
// join the default room, replay recent history, announce the join,
// then relay lines until the peer disconnects or the server stops.
func (s *Server) handleSession(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	// CloseAll only reaches registered transports. Closing directly on
	// cancellation unblocks a client still parked at the name prompt.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	buf := make([]byte, readBufferSize)

	if err := writePrompt(conn, namePrompt); err != nil {
		return
	}
	name, err := readTrimmed(conn, buf)
	if err != nil {
		// Peer left before naming itself; nothing was registered.
		return
	}

	sess := &Session{
		ID:   uuid.NewString(),
		Conn: conn,
		Name: name,
		Addr: conn.RemoteAddr().String(),
		Room: DefaultRoom,
	}
	if err := s.reg.Register(sess); err != nil {
		s.logger.Warn("register failed", "name", name, "error", err)
		return
	}
	defer s.reg.Deregister(conn)

	if err := writeLine(conn, "Joined room: "+sess.Room); err != nil {
		return
	}

	for _, msg := range s.history.Snapshot(sess.Room) {
		if err := writeLine(conn, msg); err != nil {
			return
		}
	}

	// The newcomer counts as the sender of its own join line.
	s.reg.Broadcast(sess.Room, sess.Name+" joined the chat", conn)
	MessagesTotal.WithLabelValues("join").Inc()

	for ctx.Err() == nil {
		text, err := readTrimmed(conn, buf)
		if err != nil {
			break
		}

		// Empty lines are relayed like any other message.
		line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), sess.Name, text)
		s.history.Append(sess.Room, line)
		s.reg.Broadcast(sess.Room, line, conn)
		MessagesTotal.WithLabelValues("chat").Inc()
	}

	s.logger.Info("session disconnected", "id", sess.ID, "name", sess.Name, "addr", sess.Addr)
}

// readTrimmed performs one bounded read and strips the trailing
// CR/LF. Any read error, including EOF, ends the session.
func readTrimmed(conn net.Conn, buf []byte) (string, error) {
	n, err := conn.Read(buf)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf[:n]), "\r\n"), nil
}
