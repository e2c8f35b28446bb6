package game

import (
	"log"
	"strings"

	"snake-arena/constants"
	"snake-arena/models"
)

const defaultPlayerName = "Player"

func playerName(cmd Command) string {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = strings.TrimSpace(cmd.PlayerName)
	}
	if name == "" {
		return defaultPlayerName
	}
	return name
}

func (gm *Manager) gridSize(requested int) int {
	switch {
	case requested <= 0:
		return gm.opts.DefaultGridSize
	case requested < constants.MIN_GRID_SIZE:
		return constants.MIN_GRID_SIZE
	case requested > constants.MAX_GRID_SIZE:
		return constants.MAX_GRID_SIZE
	}
	return requested
}

// lockMembership locks roomID and returns it with connID's player. On error
// nothing is left locked.
func (gm *Manager) lockMembership(roomID, connID string) (*models.Room, *models.Player, error) {
	room, exists := gm.Rooms.Get(roomID)
	if !exists {
		return nil, nil, ErrRoomNotFound
	}
	room.Mutex.Lock()
	player, ok := room.Players[connID]
	if !ok {
		room.Mutex.Unlock()
		return nil, nil, ErrNotInRoom
	}
	return room, player, nil
}

func (gm *Manager) createRoom(connID string, cmd Command, out *Outbox) error {
	if gm.roomOf(connID) != "" {
		return ErrAlreadyInRoom
	}
	name := playerName(cmd)

	room := gm.Rooms.Create(gm.gridSize(cmd.GridSize), gm.opts.MaxRoomPlayers, func(room *models.Room) {
		room.OwnerID = connID
		room.AddPlayer(connID, name)
	})

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	gm.setRoute(connID, room.ID)
	log.Printf("Room %s created by %s (%s), grid %d", room.ID, name, connID, room.GridSize)

	out.ToConn(connID, constants.MSG_ROOM_CREATED, RoomJoinedPayload{RoomID: room.ID, PlayerID: connID, IsOwner: true})
	out.ToRoom(room.ID, constants.MSG_UPDATE_PLAYERS, updatePlayersPayload(room))
	out.RoomListChanged()
	return nil
}

func (gm *Manager) joinRoom(connID string, cmd Command, out *Outbox) error {
	if gm.roomOf(connID) != "" {
		return ErrAlreadyInRoom
	}
	room, exists := gm.Rooms.Get(cmd.RoomID)
	if !exists {
		return ErrRoomNotFound
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	switch {
	case len(room.Players) == 0:
		// torn down between lookup and lock
		return ErrRoomNotFound
	case room.Started:
		return ErrGameInProgress
	case room.IsFull():
		return ErrRoomFull
	}

	name := playerName(cmd)
	room.AddPlayer(connID, name)
	gm.setRoute(connID, room.ID)
	log.Printf("Player %s (%s) joined room %s, %d/%d", name, connID, room.ID, len(room.Players), room.Capacity)

	out.ToConn(connID, constants.MSG_JOINED_ROOM, RoomJoinedPayload{RoomID: room.ID, PlayerID: connID, IsOwner: false})
	out.ToRoom(room.ID, constants.MSG_UPDATE_PLAYERS, updatePlayersPayload(room))
	out.RoomListChanged()
	return nil
}

func (gm *Manager) playerReady(connID string, cmd Command, out *Outbox) error {
	room, player, err := gm.lockMembership(cmd.RoomID, connID)
	if err != nil {
		return err
	}
	defer room.Mutex.Unlock()

	if room.Started {
		return ErrGameInProgress
	}
	player.IsReady = !player.IsReady
	out.ToRoom(room.ID, constants.MSG_UPDATE_PLAYERS, updatePlayersPayload(room))
	return nil
}

func (gm *Manager) startGame(connID string, cmd Command, out *Outbox) error {
	room, _, err := gm.lockMembership(cmd.RoomID, connID)
	if err != nil {
		return err
	}
	defer room.Mutex.Unlock()

	switch {
	case room.OwnerID != connID:
		return ErrNotOwner
	case room.Started:
		return ErrGameInProgress
	case !room.AllReady():
		return ErrPlayersNotReady
	}

	nowMs := gm.now().UnixMilli()
	heads := make([]models.Position, 0, len(room.Players))
	for _, p := range room.OrderedPlayers() {
		head := placeNonOverlapping(room.Rand, room.GridSize, heads, constants.SPAWN_SEPARATION)
		heads = append(heads, head)
		p.ResetForRound(twoSegmentSnake(head))
	}
	room.Foods = room.Foods[:0]
	spawnFood(room, nowMs)

	room.Started = true
	room.ResetSnapshot()
	gm.startLoop(room)
	log.Printf("Game started in room %s with %d players", room.ID, len(room.Players))

	out.ToRoom(room.ID, constants.MSG_GAME_STARTED, GameStartedPayload{
		Tick:     room.Tick,
		Players:  viewPlayers(room),
		Foods:    cloneFoods(room.Foods),
		GridSize: room.GridSize,
	})
	out.RoomListChanged()
	return nil
}

// changeDirection records the next heading. Input from players that are dead
// or frozen, and direct reversals, are dropped without an error.
func (gm *Manager) changeDirection(connID string, cmd Command, out *Outbox) error {
	direction, ok := constants.ParseDirection(cmd.Direction)
	if !ok {
		return ErrInvalidDirection
	}
	room, player, err := gm.lockMembership(cmd.RoomID, connID)
	if err != nil {
		return err
	}
	defer room.Mutex.Unlock()

	if !player.IsAlive || player.IsFrozen() || direction == player.Direction.Opposite() {
		return nil
	}

	nowMs := gm.now().UnixMilli()
	doubleTap := player.LastDashDirection == direction &&
		nowMs-player.LastDashInputAt <= constants.DASH_INPUT_WINDOW.Milliseconds()
	if doubleTap && nowMs >= player.DashAvailableAt {
		activateDash(player, room, nowMs, out)
	}

	player.NextDirection = direction
	player.LastDashDirection = direction
	player.LastDashInputAt = nowMs
	return nil
}

func (gm *Manager) resetGame(connID string, cmd Command, out *Outbox) error {
	room, _, err := gm.lockMembership(cmd.RoomID, connID)
	if err != nil {
		return err
	}
	defer room.Mutex.Unlock()

	if room.OwnerID != connID {
		return ErrNotOwner
	}

	gm.stopLoop(room)
	room.Started = false
	for _, p := range room.Players {
		p.ResetToLobby()
	}
	room.Foods = room.Foods[:0]
	room.ClearSnapshot()
	log.Printf("Room %s reset by owner", room.ID)

	out.ToRoom(room.ID, constants.MSG_GAME_RESET, GameResetPayload{RoomID: room.ID})
	out.ToRoom(room.ID, constants.MSG_UPDATE_PLAYERS, updatePlayersPayload(room))
	out.RoomListChanged()
	return nil
}

func (gm *Manager) leaveRoom(connID string, cmd Command, out *Outbox) error {
	room, _, err := gm.lockMembership(cmd.RoomID, connID)
	if err != nil {
		return err
	}
	defer room.Mutex.Unlock()

	gm.removeFromRoom(room, connID, out)
	out.ToConn(connID, constants.MSG_LEFT_ROOM, LeftRoomPayload{RoomID: room.ID})
	return nil
}

// removeFromRoom drops connID from a locked room. An emptied room is stopped
// and discarded; otherwise a departing owner hands over to the earliest
// remaining joiner.
func (gm *Manager) removeFromRoom(room *models.Room, connID string, out *Outbox) {
	player, ok := room.RemovePlayer(connID)
	if !ok {
		return
	}
	gm.setRoute(connID, "")
	log.Printf("Player %s (%s) left room %s", player.Name, connID, room.ID)

	if len(room.Players) == 0 {
		gm.stopLoop(room)
		room.Started = false
		room.ClearSnapshot()
		gm.Rooms.Remove(room.ID)
		log.Printf("Room %s is empty, removed", room.ID)
	} else {
		if room.OwnerID == connID {
			room.OwnerID = room.Order[0]
			log.Printf("Room %s ownership passed to %s", room.ID, room.OwnerID)
		}
		out.ToRoom(room.ID, constants.MSG_UPDATE_PLAYERS, updatePlayersPayload(room))
	}
	out.RoomListChanged()
}

func (gm *Manager) requestRoomList(connID string, _ Command, out *Outbox) error {
	out.ToConn(connID, constants.MSG_ROOM_LIST, gm.Rooms.Summaries())
	return nil
}
