// Package chatlog records every observed chat message to an append-only
// text file, one line per message.
package chatlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/zephyrtronium/selfbot/message"
)

// DefaultFile is the log file used when none is configured.
const DefaultFile = "message_log.txt"

// Sink is an append-only message log. It is safe for concurrent use;
// each record is written whole.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a sink writing to w.
// If w is also an io.Closer, Close closes it.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Open opens a log file for appending, creating it if needed.
func Open(name string) (*Sink, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("couldn't open message log: %w", err)
	}
	return New(f), nil
}

// Line formats a message as a log record, including the trailing newline.
func Line(msg *message.Received) string {
	return fmt.Sprintf("[%s] %s: %s\n", msg.Time(), msg.Author, msg.Text)
}

// Record appends a message to the log.
func (s *Sink) Record(msg *message.Received) error {
	b := []byte(Line(msg))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("couldn't write message log: %w", err)
	}
	return nil
}

// Close closes the underlying file, if there is one.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
