package game

import (
	"snake-arena/constants"
	"snake-arena/models"
)

type Scope int

const (
	ScopeConn Scope = iota
	ScopeRoom
	ScopeAll
)

// Envelope is one outbound event together with its audience.
type Envelope struct {
	Scope   Scope
	Target  string
	Type    string
	Payload any
}

// Outbox collects the events produced by a command or a tick. Payloads must
// already be copies of room state: they are encoded after the room lock is
// released.
type Outbox struct {
	items          []Envelope
	listingChanged bool
}

func (o *Outbox) ToConn(connID, msgType string, payload any) {
	o.items = append(o.items, Envelope{Scope: ScopeConn, Target: connID, Type: msgType, Payload: payload})
}

func (o *Outbox) ToRoom(roomID, msgType string, payload any) {
	o.items = append(o.items, Envelope{Scope: ScopeRoom, Target: roomID, Type: msgType, Payload: payload})
}

func (o *Outbox) ToAll(msgType string, payload any) {
	o.items = append(o.items, Envelope{Scope: ScopeAll, Type: msgType, Payload: payload})
}

func (o *Outbox) Error(connID, code, message string) {
	o.ToConn(connID, constants.MSG_ERROR, ErrorPayload{Code: code, Message: message})
}

// RoomListChanged asks for a roomList broadcast once the room lock is gone.
func (o *Outbox) RoomListChanged() {
	o.listingChanged = true
}

func (o *Outbox) Envelopes() []Envelope {
	return o.items
}

// Find returns the first envelope of the given type.
func (o *Outbox) Find(msgType string) (Envelope, bool) {
	for _, e := range o.items {
		if e.Type == msgType {
			return e, true
		}
	}
	return Envelope{}, false
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LeftRoomPayload struct {
	RoomID string `json:"roomId"`
}

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token,omitempty"`
}

type RoomJoinedPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	IsOwner  bool   `json:"isOwner"`
}

// PlayerView is the public record of a player, detached from live state.
type PlayerView struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	IsReady       bool                `json:"isReady"`
	IsOwner       bool                `json:"isOwner"`
	Snake         []models.Position   `json:"snake"`
	Direction     constants.Direction `json:"direction"`
	Color         string              `json:"color"`
	IsAlive       bool                `json:"isAlive"`
	Score         int                 `json:"score"`
	Effects       []models.Effect     `json:"effects"`
	ReviveCharges int                 `json:"reviveCharges"`
	Speed         float64             `json:"speed"`
}

func viewPlayer(room *models.Room, p *models.Player) PlayerView {
	return PlayerView{
		ID:            p.ID,
		Name:          p.Name,
		IsReady:       p.IsReady,
		IsOwner:       room.OwnerID == p.ID,
		Snake:         models.CloneSnake(p.Snake),
		Direction:     p.Direction,
		Color:         p.Color,
		IsAlive:       p.IsAlive,
		Score:         p.Score,
		Effects:       models.CloneEffects(p.Effects),
		ReviveCharges: p.ReviveCharges,
		Speed:         p.Speed,
	}
}

func viewPlayers(room *models.Room) []PlayerView {
	players := room.OrderedPlayers()
	out := make([]PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, viewPlayer(room, p))
	}
	return out
}

func cloneFoods(foods []*models.Food) []models.Food {
	out := make([]models.Food, 0, len(foods))
	for _, f := range foods {
		out = append(out, *f)
	}
	return out
}

type UpdatePlayersPayload struct {
	RoomID  string       `json:"roomId"`
	OwnerID string       `json:"ownerId"`
	Players []PlayerView `json:"players"`
}

func updatePlayersPayload(room *models.Room) UpdatePlayersPayload {
	return UpdatePlayersPayload{RoomID: room.ID, OwnerID: room.OwnerID, Players: viewPlayers(room)}
}

type GameStartedPayload struct {
	Tick     uint64        `json:"tick"`
	Players  []PlayerView  `json:"players"`
	Foods    []models.Food `json:"foods"`
	GridSize int           `json:"gridSize"`
}

type GameResetPayload struct {
	RoomID string `json:"roomId"`
}

type GameOverPayload struct {
	Winner *PlayerView `json:"winner"`
}

type FoodConsumedPayload struct {
	PlayerID   string `json:"playerId"`
	FoodTypeID int    `json:"foodTypeId"`
}

type EffectTriggeredPayload struct {
	PlayerID string   `json:"playerId"`
	Effects  []string `json:"effects"`
}

type PlayerDiedPayload struct {
	PlayerID string `json:"playerId"`
	KillerID string `json:"killerId,omitempty"`
}

type KillAnnouncementPayload struct {
	KillerID   string `json:"killerId"`
	KillerName string `json:"killerName"`
	VictimID   string `json:"victimId"`
	VictimName string `json:"victimName"`
	Timestamp  int64  `json:"timestamp"`
}
