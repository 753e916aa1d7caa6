package chat

import (
	"io"
	"net"
)

// writeLine writes message followed by a line terminator. Best-effort;
// the caller decides whether a failure matters.
func writeLine(conn net.Conn, message string) error {
	_, err := conn.Write([]byte(message + "\n"))
	return err
}

// writePrompt writes raw text with no terminator, for prompts the
// client is expected to answer on the same line.
func writePrompt(conn net.Conn, prompt string) error {
	_, err := io.WriteString(conn, prompt)
	return err
}
