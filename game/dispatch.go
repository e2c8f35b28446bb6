package game

import (
	"log"

	"snake-arena/constants"
)

// Command is an inbound client frame. Only the fields its type needs are set.
type Command struct {
	Type       string `json:"type" jsonschema:"enum=createRoom,enum=joinRoom,enum=playerReady,enum=startGame,enum=changeDirection,enum=resetGame,enum=leaveRoom,enum=requestRoomList"`
	RoomID     string `json:"roomId,omitempty" jsonschema:"pattern=^[0-9]{6}$"`
	Name       string `json:"name,omitempty" jsonschema:"description=Display name; playerName is accepted as an alias"`
	PlayerName string `json:"playerName,omitempty"`
	GridSize   int    `json:"gridSize,omitempty" jsonschema:"minimum=0,maximum=100"`
	Direction  string `json:"direction,omitempty" jsonschema:"enum=UP,enum=DOWN,enum=LEFT,enum=RIGHT"`
}

type commandHandler func(gm *Manager, connID string, cmd Command, out *Outbox) error

var commandHandlers = map[string]commandHandler{
	constants.MSG_CREATE_ROOM:       (*Manager).createRoom,
	constants.MSG_JOIN_ROOM:         (*Manager).joinRoom,
	constants.MSG_PLAYER_READY:      (*Manager).playerReady,
	constants.MSG_START_GAME:        (*Manager).startGame,
	constants.MSG_CHANGE_DIRECTION:  (*Manager).changeDirection,
	constants.MSG_RESET_GAME:        (*Manager).resetGame,
	constants.MSG_LEAVE_ROOM:        (*Manager).leaveRoom,
	constants.MSG_REQUEST_ROOM_LIST: (*Manager).requestRoomList,
}

// Dispatch applies one command and returns the events it produced without
// sending them. A rejected command leaves every room untouched and yields a
// single error event for the caller.
func (gm *Manager) Dispatch(connID string, cmd Command) []Envelope {
	var out Outbox

	handler, ok := commandHandlers[cmd.Type]
	if !ok {
		out.Error(connID, constants.ERR_INVALID_COMMAND, "unknown command "+cmd.Type)
		return out.Envelopes()
	}

	if err := handler(gm, connID, cmd, &out); err != nil {
		var rejected Outbox
		rejected.Error(connID, ErrorCode(err), err.Error())
		return rejected.Envelopes()
	}

	if out.listingChanged {
		out.ToAll(constants.MSG_ROOM_LIST, gm.Rooms.Summaries())
	}
	return out.Envelopes()
}

// HandleCommand dispatches and delivers.
func (gm *Manager) HandleCommand(connID string, cmd Command) {
	gm.deliver(gm.Dispatch(connID, cmd))
}

// HandleFrame decodes a raw frame with the session's codec and handles it.
// WebSocket and DataChannel frames both arrive here.
func (gm *Manager) HandleFrame(connID string, frame []byte) {
	s, ok := gm.session(connID)
	if !ok {
		return
	}

	var cmd Command
	if err := s.Codec.Decode(frame, &cmd); err != nil {
		log.Printf("Error decoding frame from %s: %v", connID, err)
		var out Outbox
		out.Error(connID, constants.ERR_INVALID_COMMAND, "malformed message")
		gm.deliver(out.Envelopes())
		return
	}
	if cmd.Type == "" {
		log.Printf("Message from %s missing type field", connID)
		return
	}
	gm.HandleCommand(connID, cmd)
}
