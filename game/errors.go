package game

import (
	"errors"

	"snake-arena/constants"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrNotInRoom        = errors.New("you are not in this room")
	ErrNotOwner         = errors.New("only the room owner can do that")
	ErrPlayersNotReady  = errors.New("not all players are ready")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrInvalidDirection = errors.New("invalid direction")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrRoomNotFound, constants.ERR_ROOM_NOT_FOUND},
	{ErrRoomFull, constants.ERR_ROOM_FULL},
	{ErrGameInProgress, constants.ERR_GAME_IN_PROGRESS},
	{ErrNotInRoom, constants.ERR_NOT_IN_ROOM},
	{ErrNotOwner, constants.ERR_NOT_OWNER},
	{ErrPlayersNotReady, constants.ERR_PLAYERS_NOT_READY},
	{ErrAlreadyInRoom, constants.ERR_ALREADY_IN_ROOM},
	{ErrInvalidDirection, constants.ERR_INVALID_DIRECTION},
	{ErrInvalidCommand, constants.ERR_INVALID_COMMAND},
}

// ErrorCode maps a command error to the code sent to clients.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return constants.ERR_INVALID_COMMAND
}
