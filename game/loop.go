package game

import (
	"context"
	"log"
	"time"

	"snake-arena/constants"
	"snake-arena/models"
)

const scoreWriteTimeout = 5 * time.Second

type finalScore struct {
	name  string
	score int
}

// startLoop (re)starts the room's ticker. The caller holds the room lock.
func (gm *Manager) startLoop(room *models.Room) {
	gm.stopLoop(room)
	if gm.opts.ManualTicks {
		return
	}
	ticker := time.NewTicker(gm.opts.TickInterval)
	stop := make(chan struct{})
	room.Ticker = ticker
	room.Stop = stop
	go gm.gameLoop(room.ID, ticker, stop)
}

// stopLoop halts the room's ticker if one runs. The caller holds the room lock.
func (gm *Manager) stopLoop(room *models.Room) {
	if room.Stop == nil {
		return
	}
	close(room.Stop)
	room.Ticker.Stop()
	room.Stop = nil
	room.Ticker = nil
}

func (gm *Manager) gameLoop(roomID string, ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !gm.runTick(roomID, now, stop) {
				return
			}
		}
	}
}

// RunTick advances a started room once, as its timer would. It reports
// whether the room keeps running.
func (gm *Manager) RunTick(roomID string, now time.Time) bool {
	return gm.runTick(roomID, now, nil)
}

func (gm *Manager) runTick(roomID string, now time.Time, loop chan struct{}) bool {
	room, exists := gm.Rooms.Get(roomID)
	if !exists {
		return false
	}

	out, final, running := gm.stepRoom(room, now, loop)
	if out.listingChanged {
		out.ToAll(constants.MSG_ROOM_LIST, gm.Rooms.Summaries())
	}
	gm.deliver(out.Envelopes())
	if final != nil {
		gm.recordScores(room.ID, final)
	}
	return running
}

// stepRoom runs one Step under the room lock. A panic inside the step stops
// this room's loop and drops the tick's events; other rooms are unaffected.
func (gm *Manager) stepRoom(room *models.Room, now time.Time, loop chan struct{}) (out *Outbox, final []finalScore, running bool) {
	out = &Outbox{}
	room.Mutex.Lock()
	defer room.Mutex.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Tick failed in room %s, stopping its loop: %v", room.ID, r)
			gm.stopLoop(room)
			out, final, running = &Outbox{}, nil, false
		}
	}()

	// a loop that was stopped or replaced must not tick
	if loop != nil && room.Stop != loop {
		return out, nil, false
	}
	if !room.Started {
		return out, nil, false
	}

	result := Step(room, now, gm.opts.TickInterval, out)
	if !result.GameOver {
		return out, nil, true
	}

	gm.stopLoop(room)
	out.RoomListChanged()
	log.Printf("Game over in room %s, winner %s", room.ID, result.Winner.Name)

	for _, p := range room.OrderedPlayers() {
		final = append(final, finalScore{name: p.Name, score: p.Score})
	}
	return out, final, false
}

// recordScores hands final scores to the store without blocking the loop.
func (gm *Manager) recordScores(roomID string, final []finalScore) {
	if gm.scores == nil {
		return
	}
	gm.pending.Add(1)
	go func() {
		defer gm.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), scoreWriteTimeout)
		defer cancel()
		for _, f := range final {
			if err := gm.scores.RecordScore(ctx, f.name, f.score); err != nil {
				log.Printf("Failed to record score for %s in room %s: %v", f.name, roomID, err)
			}
		}
	}()
}
