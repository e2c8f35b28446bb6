package game

import (
	"log"

	"github.com/google/uuid"

	"snake-arena/codec"
	"snake-arena/constants"
)

// Connect registers a new session and greets it with its id, a session token
// and the current room listing.
func (gm *Manager) Connect(enc codec.Codec) *Session {
	s := newSession(uuid.New().String(), enc)

	gm.Mutex.Lock()
	gm.sessions[s.ID] = s
	total := len(gm.sessions)
	gm.Mutex.Unlock()

	log.Printf("Session %s connected (%s), total sessions: %d", s.ID, enc.Name(), total)

	var token string
	if gm.tokens != nil {
		var err error
		if token, err = gm.tokens.GenerateToken(s.ID, ""); err != nil {
			log.Printf("Failed to issue token for %s: %v", s.ID, err)
		}
	}

	var out Outbox
	out.ToConn(s.ID, constants.MSG_CONNECTED, ConnectedPayload{PlayerID: s.ID, Token: token})
	out.ToConn(s.ID, constants.MSG_ROOM_LIST, gm.Rooms.Summaries())
	gm.deliver(out.Envelopes())
	return s
}

// Disconnect is an implicit leave followed by closing the session.
func (gm *Manager) Disconnect(connID string) {
	gm.Mutex.Lock()
	s, exists := gm.sessions[connID]
	if !exists {
		gm.Mutex.Unlock()
		return
	}
	roomID := s.roomID
	delete(gm.sessions, connID)
	gm.Mutex.Unlock()

	s.Close()
	if gm.WebRTCManager != nil {
		gm.WebRTCManager.RemovePeer(connID)
	}
	log.Printf("Session %s disconnected", connID)

	if roomID == "" {
		return
	}
	room, _, err := gm.lockMembership(roomID, connID)
	if err != nil {
		return
	}
	var out Outbox
	gm.removeFromRoom(room, connID, &out)
	room.Mutex.Unlock()

	out.ToAll(constants.MSG_ROOM_LIST, gm.Rooms.Summaries())
	gm.deliver(out.Envelopes())
}

// SessionActive reports whether connID is still connected.
func (gm *Manager) SessionActive(connID string) bool {
	_, ok := gm.session(connID)
	return ok
}

func (gm *Manager) session(connID string) (*Session, bool) {
	gm.Mutex.RLock()
	defer gm.Mutex.RUnlock()
	s, ok := gm.sessions[connID]
	return s, ok
}

func (gm *Manager) roomOf(connID string) string {
	gm.Mutex.RLock()
	defer gm.Mutex.RUnlock()
	if s, ok := gm.sessions[connID]; ok {
		return s.roomID
	}
	return ""
}

func (gm *Manager) setRoute(connID, roomID string) {
	gm.Mutex.Lock()
	defer gm.Mutex.Unlock()
	if s, ok := gm.sessions[connID]; ok {
		s.roomID = roomID
	}
}

// audience resolves an envelope's recipients.
func (gm *Manager) audience(e Envelope) []*Session {
	gm.Mutex.RLock()
	defer gm.Mutex.RUnlock()

	switch e.Scope {
	case ScopeConn:
		if s, ok := gm.sessions[e.Target]; ok {
			return []*Session{s}
		}
		return nil
	case ScopeRoom:
		var out []*Session
		for _, s := range gm.sessions {
			if s.roomID == e.Target {
				out = append(out, s)
			}
		}
		return out
	default:
		out := make([]*Session, 0, len(gm.sessions))
		for _, s := range gm.sessions {
			out = append(out, s)
		}
		return out
	}
}

// deliver encodes each envelope once per codec in use and sends it to every
// recipient, preferring an open DataChannel over the WebSocket.
func (gm *Manager) deliver(envs []Envelope) {
	for _, e := range envs {
		frames := make(map[string][]byte)
		for _, s := range gm.audience(e) {
			frame, ok := frames[s.Codec.Name()]
			if !ok {
				var err error
				frame, err = s.Codec.Encode(e.Type, e.Payload)
				if err != nil {
					log.Printf("Failed to encode %s: %v", e.Type, err)
					break
				}
				frames[s.Codec.Name()] = frame
			}
			gm.sendFrame(s, frame)
		}
	}
}

func (gm *Manager) sendFrame(s *Session, frame []byte) {
	if gm.WebRTCManager != nil {
		sent, err := gm.WebRTCManager.Send(s.ID, frame, s.Codec.Binary())
		if err != nil {
			log.Printf("DataChannel send to %s failed, using WebSocket: %v", s.ID, err)
		}
		if sent && err == nil {
			return
		}
	}
	s.enqueue(frame)
}
