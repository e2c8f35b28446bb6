package lobby

import (
	"strconv"
	"sync"

	"golang.org/x/exp/rand"

	"snake-arena/models"
)

// Summary is the public listing entry for a room.
type Summary struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	Capacity    int    `json:"capacity"`
	IsJoinable  bool   `json:"isJoinable"`
}

// Registry owns every room, keyed by id and kept in creation order. Its lock
// is never held while a room lock is taken.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
	order []string
	rng   *rand.Rand
}

func NewRegistry(seed uint64) *Registry {
	return &Registry{
		rooms: make(map[string]*models.Room),
		order: make([]string, 0),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Create allocates a fresh six digit id and registers a new room. setup runs
// before the room becomes visible to Get. Each room gets its own RNG seeded
// from the registry's.
func (r *Registry) Create(gridSize, capacity int, setup func(*models.Room)) *models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		id = strconv.Itoa(100000 + r.rng.Intn(900000))
		if _, exists := r.rooms[id]; !exists {
			break
		}
	}

	room := models.NewRoom(id, gridSize, capacity, rand.New(rand.NewSource(r.rng.Uint64())))
	if setup != nil {
		setup(room)
	}
	r.rooms[id] = room
	r.order = append(r.order, id)
	return room
}

func (r *Registry) Get(roomID string) (*models.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[roomID]
	return room, exists
}

// Remove discards a room. It reports false if the id was unknown.
func (r *Registry) Remove(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; !exists {
		return false
	}
	delete(r.rooms, roomID)
	for i, id := range r.order {
		if id == roomID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot returns the rooms in creation order.
func (r *Registry) Snapshot() []*models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Room, 0, len(r.order))
	for _, id := range r.order {
		if room, exists := r.rooms[id]; exists {
			result = append(result, room)
		}
	}
	return result
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Summaries builds the public listing. Each room is locked on its own after
// the registry lock has been released.
func (r *Registry) Summaries() []Summary {
	rooms := r.Snapshot()
	out := make([]Summary, 0, len(rooms))
	for _, room := range rooms {
		room.Mutex.Lock()
		out = append(out, Summarize(room))
		room.Mutex.Unlock()
	}
	return out
}

// Summarize describes one room. The caller holds the room lock.
func Summarize(room *models.Room) Summary {
	return Summary{
		RoomID:      room.ID,
		PlayerCount: len(room.Players),
		Capacity:    room.Capacity,
		IsJoinable:  room.Joinable(),
	}
}
