package models

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"snake-arena/constants"
)

type PlayerSnapshot struct {
	ID            string
	Snake         []Position
	Direction     constants.Direction
	IsAlive       bool
	Score         int
	Effects       []Effect
	ReviveCharges int
	Color         string
}

// RoomSnapshot is the last state broadcast to the room. It only ever holds
// copies of live state.
type RoomSnapshot struct {
	Players map[string]PlayerSnapshot
	Foods   map[string]Food
}

func NewRoomSnapshot() RoomSnapshot {
	return RoomSnapshot{
		Players: make(map[string]PlayerSnapshot),
		Foods:   make(map[string]Food),
	}
}

func SnapshotPlayer(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:            p.ID,
		Snake:         CloneSnake(p.Snake),
		Direction:     p.Direction,
		IsAlive:       p.IsAlive,
		Score:         p.Score,
		Effects:       CloneEffects(p.Effects),
		ReviveCharges: p.ReviveCharges,
		Color:         p.Color,
	}
}

type Room struct {
	ID         string
	OwnerID    string
	Players    map[string]*Player
	Order      []string
	Foods      []*Food
	GridSize   int
	Capacity   int
	Started    bool
	UsedColors map[int]bool
	Tick       uint64
	Snapshot   RoomSnapshot
	Rand       *rand.Rand
	CreatedAt  time.Time

	Ticker *time.Ticker
	Stop   chan struct{}
	Mutex  sync.Mutex
}

func NewRoom(id string, gridSize, capacity int, rng *rand.Rand) *Room {
	return &Room{
		ID:         id,
		Players:    make(map[string]*Player),
		Order:      make([]string, 0, capacity),
		Foods:      make([]*Food, 0),
		GridSize:   gridSize,
		Capacity:   capacity,
		UsedColors: make(map[int]bool),
		Snapshot:   NewRoomSnapshot(),
		Rand:       rng,
		CreatedAt:  time.Now(),
	}
}

// AddPlayer appends a player in join order and claims the first free color.
func (r *Room) AddPlayer(id, name string) *Player {
	idx := r.claimColor()
	player := NewPlayer(id, name, constants.PLAYER_COLORS[idx])
	r.Players[id] = player
	r.Order = append(r.Order, id)
	return player
}

func (r *Room) RemovePlayer(id string) (*Player, bool) {
	player, exists := r.Players[id]
	if !exists {
		return nil, false
	}
	for i, c := range constants.PLAYER_COLORS {
		if c == player.Color {
			delete(r.UsedColors, i)
			break
		}
	}
	delete(r.Players, id)
	for i, pid := range r.Order {
		if pid == id {
			r.Order = append(r.Order[:i], r.Order[i+1:]...)
			break
		}
	}
	return player, true
}

func (r *Room) claimColor() int {
	for i := range constants.PLAYER_COLORS {
		if !r.UsedColors[i] {
			r.UsedColors[i] = true
			return i
		}
	}
	return r.Rand.Intn(len(constants.PLAYER_COLORS))
}

// OrderedPlayers lists players in join order.
func (r *Room) OrderedPlayers() []*Player {
	out := make([]*Player, 0, len(r.Order))
	for _, id := range r.Order {
		if p, ok := r.Players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) AllSegments() []Position {
	var out []Position
	for _, id := range r.Order {
		out = append(out, r.Players[id].Snake...)
	}
	return out
}

func (r *Room) FoodCells() []Position {
	out := make([]Position, 0, len(r.Foods))
	for _, f := range r.Foods {
		out = append(out, f.Cell())
	}
	return out
}

func (r *Room) AliveCount() int {
	n := 0
	for _, p := range r.Players {
		if p.IsAlive {
			n++
		}
	}
	return n
}

func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= r.Capacity
}

// Joinable mirrors the public listing rule.
func (r *Room) Joinable() bool {
	return !r.IsFull() && !r.Started
}

// ResetSnapshot re-baselines delta computation on the current state.
func (r *Room) ResetSnapshot() {
	r.Tick = 0
	r.Snapshot = NewRoomSnapshot()
	for _, p := range r.Players {
		r.Snapshot.Players[p.ID] = SnapshotPlayer(p)
	}
	for _, f := range r.Foods {
		r.Snapshot.Foods[f.ID] = *f
	}
}

// ClearSnapshot forgets the broadcast baseline so the next delta is a full
// state.
func (r *Room) ClearSnapshot() {
	r.Tick = 0
	r.Snapshot = NewRoomSnapshot()
}
