package constants

import "time"

const (
	// Game constants
	DEFAULT_GRID_SIZE = 34
	MIN_GRID_SIZE     = 10
	MAX_GRID_SIZE     = 100
	TICK_RATE         = 250 * time.Millisecond
	MAX_ROOM_PLAYERS  = 4

	REVIVE_IMMUNITY_DURATION = 3000 * time.Millisecond
	REVIVE_GHOST_DURATION    = 3000 * time.Millisecond
	CORPSE_LIFETIME          = 2000 * time.Millisecond

	DASH_SPEED_MULTIPLIER = 2
	DASH_DURATION         = 2000 * time.Millisecond
	DASH_COOLDOWN         = 3000 * time.Millisecond
	DASH_INPUT_WINDOW     = 250 * time.Millisecond

	MAGNET_RADIUS  = 5.0
	MAGNET_STEP    = 0.5
	MAGNET_CAPTURE = 0.4

	PLACEMENT_ATTEMPTS = 100
	SPAWN_SEPARATION   = 3

	// Client -> server commands
	MSG_CREATE_ROOM       = "createRoom"
	MSG_JOIN_ROOM         = "joinRoom"
	MSG_PLAYER_READY      = "playerReady"
	MSG_START_GAME        = "startGame"
	MSG_CHANGE_DIRECTION  = "changeDirection"
	MSG_RESET_GAME        = "resetGame"
	MSG_LEAVE_ROOM        = "leaveRoom"
	MSG_REQUEST_ROOM_LIST = "requestRoomList"

	// Server -> client events
	MSG_CONNECTED         = "connected"
	MSG_ROOM_CREATED      = "roomCreated"
	MSG_JOINED_ROOM       = "joinedRoom"
	MSG_UPDATE_PLAYERS    = "updatePlayers"
	MSG_GAME_STARTED      = "gameStarted"
	MSG_STATE_DELTA       = "stateDelta"
	MSG_GAME_OVER         = "gameOver"
	MSG_GAME_RESET        = "gameReset"
	MSG_ROOM_LIST         = "roomList"
	MSG_LEFT_ROOM         = "leftRoom"
	MSG_ERROR             = "error"
	MSG_FOOD_CONSUMED     = "foodConsumed"
	MSG_EFFECT_TRIGGERED  = "effectTriggered"
	MSG_PLAYER_DIED       = "playerDied"
	MSG_KILL_ANNOUNCEMENT = "killAnnouncement"

	// Error codes
	ERR_ROOM_NOT_FOUND    = "ROOM_NOT_FOUND"
	ERR_ROOM_FULL         = "ROOM_FULL"
	ERR_GAME_IN_PROGRESS  = "GAME_IN_PROGRESS"
	ERR_NOT_IN_ROOM       = "NOT_IN_ROOM"
	ERR_NOT_OWNER         = "NOT_OWNER"
	ERR_PLAYERS_NOT_READY = "PLAYERS_NOT_READY"
	ERR_INVALID_COMMAND   = "INVALID_COMMAND"
	ERR_ALREADY_IN_ROOM   = "ALREADY_IN_ROOM"
	ERR_INVALID_DIRECTION = "INVALID_DIRECTION"
)

var PLAYER_COLORS = []string{"bg-green-500", "bg-blue-500", "bg-yellow-500", "bg-purple-500"}

type Direction string

const (
	UP    Direction = "UP"
	DOWN  Direction = "DOWN"
	LEFT  Direction = "LEFT"
	RIGHT Direction = "RIGHT"
)

// ParseDirection accepts the wire names in either case.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "UP", "up":
		return UP, true
	case "DOWN", "down":
		return DOWN, true
	case "LEFT", "left":
		return LEFT, true
	case "RIGHT", "right":
		return RIGHT, true
	}
	return "", false
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case UP:
		return DOWN
	case DOWN:
		return UP
	case LEFT:
		return RIGHT
	case RIGHT:
		return LEFT
	}
	return d
}

// Offset returns the unit step for the direction.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case UP:
		return 0, -1
	case DOWN:
		return 0, 1
	case LEFT:
		return -1, 0
	case RIGHT:
		return 1, 0
	}
	return 0, 0
}
