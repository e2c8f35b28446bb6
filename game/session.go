package game

import (
	"log"
	"sync"

	"snake-arena/codec"
)

const sendBufferSize = 256

// Session is one client connection. Frames queued on Send are written by the
// transport's writer; a full buffer closes the session.
type Session struct {
	ID    string
	Send  chan []byte
	Codec codec.Codec

	// guarded by Manager.Mutex
	roomID string

	mu     sync.Mutex
	closed bool
}

func newSession(id string, enc codec.Codec) *Session {
	return &Session{
		ID:    id,
		Send:  make(chan []byte, sendBufferSize),
		Codec: enc,
	}
}

func (s *Session) enqueue(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.Send <- frame:
	default:
		log.Printf("Send buffer full for session %s, closing", s.ID)
		s.closed = true
		close(s.Send)
	}
}

// Close stops further delivery and releases the writer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.Send)
	}
}
