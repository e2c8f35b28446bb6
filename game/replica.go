package game

import (
	"snake-arena/models"
)

// Replica is a receiver-side copy of a room rebuilt from gameStarted and
// stateDelta events. Bots and tests use it to follow a room.
type Replica struct {
	LastTick uint64
	Players  map[string]models.PlayerSnapshot
	Foods    map[string]models.Food
}

func NewReplica() *Replica {
	return &Replica{
		Players: make(map[string]models.PlayerSnapshot),
		Foods:   make(map[string]models.Food),
	}
}

// Reset loads the full state sent with gameStarted.
func (r *Replica) Reset(started GameStartedPayload) {
	r.LastTick = started.Tick
	r.Players = make(map[string]models.PlayerSnapshot, len(started.Players))
	r.Foods = make(map[string]models.Food, len(started.Foods))
	for _, p := range started.Players {
		r.Players[p.ID] = models.PlayerSnapshot{
			ID:            p.ID,
			Snake:         models.CloneSnake(p.Snake),
			Direction:     p.Direction,
			IsAlive:       p.IsAlive,
			Score:         p.Score,
			Effects:       models.CloneEffects(p.Effects),
			ReviveCharges: p.ReviveCharges,
			Color:         p.Color,
		}
	}
	for _, f := range started.Foods {
		r.Foods[f.ID] = f
	}
}

// Apply folds a delta into the replica. Deltas not newer than the last
// applied tick are discarded and reported as false.
func (r *Replica) Apply(d *StateDelta) bool {
	if d == nil || d.Tick <= r.LastTick {
		return false
	}

	for _, pd := range d.Players {
		p := r.Players[pd.ID]
		p.ID = pd.ID
		if pd.FullSnake != nil {
			p.Snake = models.CloneSnake(*pd.FullSnake)
		}
		if pd.Movement != nil {
			keep := len(p.Snake) - pd.Movement.RemovedTail
			if keep < 0 {
				keep = 0
			}
			snake := make([]models.Position, 0, keep+1)
			snake = append(snake, pd.Movement.Head)
			p.Snake = append(snake, p.Snake[:keep]...)
		}
		if pd.Direction != nil {
			p.Direction = *pd.Direction
		}
		if pd.IsAlive != nil {
			p.IsAlive = *pd.IsAlive
		}
		if pd.Score != nil {
			p.Score = *pd.Score
		}
		if pd.Effects != nil {
			p.Effects = models.CloneEffects(*pd.Effects)
		}
		if pd.ReviveCharges != nil {
			p.ReviveCharges = *pd.ReviveCharges
		}
		if pd.Color != nil {
			p.Color = *pd.Color
		}
		r.Players[pd.ID] = p
	}
	for _, id := range d.RemovedPlayers {
		delete(r.Players, id)
	}

	if d.Foods != nil {
		for _, f := range d.Foods.Added {
			r.Foods[f.ID] = f
		}
		for _, u := range d.Foods.Updated {
			f := r.Foods[u.ID]
			f.ID = u.ID
			f.X, f.Y = u.X, u.Y
			f.SpawnTime = u.SpawnTime
			f.CustomLifetime = u.CustomLifetime
			f.IsCorpse = u.IsCorpse
			f.CorpseColor = u.CorpseColor
			r.Foods[u.ID] = f
		}
		for _, id := range d.Foods.Removed {
			delete(r.Foods, id)
		}
	}

	r.LastTick = d.Tick
	return true
}
