package game

import (
	"context"
	"sync"
	"time"

	"snake-arena/constants"
	"snake-arena/lobby"
	webrtcManager "snake-arena/webrtc"
)

// ScoreRecorder receives every player's final score when a round ends.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, playerName string, score int) error
}

// TokenIssuer signs the session token sent in the connected event.
type TokenIssuer interface {
	GenerateToken(playerID, username string) (string, error)
}

type Options struct {
	TickInterval    time.Duration
	DefaultGridSize int
	MaxRoomPlayers  int
	// Seed drives room ids and every room's RNG. Zero picks one from the clock.
	Seed uint64
	// ManualTicks starts no timers; rooms only advance through RunTick.
	ManualTicks bool
}

type Manager struct {
	Rooms         *lobby.Registry
	sessions      map[string]*Session
	Mutex         sync.RWMutex
	WebRTCManager *webrtcManager.Manager

	scores ScoreRecorder
	tokens TokenIssuer
	opts   Options
	now    func() time.Time

	pending sync.WaitGroup
}

func NewGameManager(opts Options, scores ScoreRecorder, tokens TokenIssuer) *Manager {
	if opts.TickInterval <= 0 {
		opts.TickInterval = constants.TICK_RATE
	}
	if opts.DefaultGridSize <= 0 {
		opts.DefaultGridSize = constants.DEFAULT_GRID_SIZE
	}
	if opts.MaxRoomPlayers <= 0 {
		opts.MaxRoomPlayers = constants.MAX_ROOM_PLAYERS
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	return &Manager{
		Rooms:    lobby.NewRegistry(opts.Seed),
		sessions: make(map[string]*Session),
		scores:   scores,
		tokens:   tokens,
		opts:     opts,
		now:      time.Now,
	}
}

func (gm *Manager) SetWebRTCManager(webrtcMgr *webrtcManager.Manager) {
	gm.WebRTCManager = webrtcMgr
}

// Shutdown stops every tick loop and waits for pending score writes.
func (gm *Manager) Shutdown() {
	for _, room := range gm.Rooms.Snapshot() {
		room.Mutex.Lock()
		gm.stopLoop(room)
		room.Mutex.Unlock()
	}
	gm.pending.Wait()
}
