package game

import (
	"sort"

	"snake-arena/constants"
	"snake-arena/models"
)

// MovementDelta says: prepend Head, then drop RemovedTail cells from the tail.
type MovementDelta struct {
	Head        models.Position `json:"head"`
	RemovedTail int             `json:"removedTail"`
}

// PlayerDelta carries only the fields that changed. A player unknown to the
// receiver arrives with every field set.
type PlayerDelta struct {
	ID            string               `json:"id"`
	Movement      *MovementDelta       `json:"movement,omitempty"`
	FullSnake     *[]models.Position   `json:"fullSnake,omitempty"`
	Direction     *constants.Direction `json:"direction,omitempty"`
	IsAlive       *bool                `json:"isAlive,omitempty"`
	Score         *int                 `json:"score,omitempty"`
	Effects       *[]models.Effect     `json:"effects,omitempty"`
	ReviveCharges *int                 `json:"reviveCharges,omitempty"`
	Color         *string              `json:"color,omitempty"`
}

type FoodUpdate struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	SpawnTime      int64   `json:"spawnTime"`
	CustomLifetime int64   `json:"customLifetime,omitempty"`
	IsCorpse       bool    `json:"isCorpse,omitempty"`
	CorpseColor    string  `json:"corpseColor,omitempty"`
}

type FoodDelta struct {
	Added   []models.Food `json:"added,omitempty"`
	Updated []FoodUpdate  `json:"updated,omitempty"`
	Removed []string      `json:"removed,omitempty"`
}

type StateDelta struct {
	Tick           uint64        `json:"tick"`
	Players        []PlayerDelta `json:"players,omitempty"`
	RemovedPlayers []string      `json:"removedPlayers,omitempty"`
	Foods          *FoodDelta    `json:"foods,omitempty"`
}

// EncodeDelta diffs the room against its last broadcast snapshot, replaces
// the snapshot with copies of the current state and returns nil when nothing
// changed. The tick counter only advances when a delta is produced.
func EncodeDelta(room *models.Room) *StateDelta {
	if room.Snapshot.Players == nil || room.Snapshot.Foods == nil {
		room.Snapshot = models.NewRoomSnapshot()
	}

	var players []PlayerDelta
	for _, p := range room.OrderedPlayers() {
		prev, known := room.Snapshot.Players[p.ID]
		if !known {
			players = append(players, fullPlayerDelta(p))
			continue
		}
		if d, changed := diffPlayer(prev, p); changed {
			players = append(players, d)
		}
	}

	var removedPlayers []string
	for id := range room.Snapshot.Players {
		if _, ok := room.Players[id]; !ok {
			removedPlayers = append(removedPlayers, id)
		}
	}
	sort.Strings(removedPlayers)

	foods := &FoodDelta{}
	current := make(map[string]bool, len(room.Foods))
	for _, f := range room.Foods {
		current[f.ID] = true
		prev, known := room.Snapshot.Foods[f.ID]
		switch {
		case !known:
			foods.Added = append(foods.Added, *f)
		case foodChanged(prev, *f):
			foods.Updated = append(foods.Updated, FoodUpdate{
				ID:             f.ID,
				X:              f.X,
				Y:              f.Y,
				SpawnTime:      f.SpawnTime,
				CustomLifetime: f.CustomLifetime,
				IsCorpse:       f.IsCorpse,
				CorpseColor:    f.CorpseColor,
			})
		}
	}
	for id := range room.Snapshot.Foods {
		if !current[id] {
			foods.Removed = append(foods.Removed, id)
		}
	}
	sort.Strings(foods.Removed)

	room.Snapshot = models.NewRoomSnapshot()
	for _, p := range room.Players {
		room.Snapshot.Players[p.ID] = models.SnapshotPlayer(p)
	}
	for _, f := range room.Foods {
		room.Snapshot.Foods[f.ID] = *f
	}

	playerChanges := len(players) > 0 || len(removedPlayers) > 0
	foodChanges := len(foods.Added) > 0 || len(foods.Updated) > 0 || len(foods.Removed) > 0
	if !playerChanges && !foodChanges {
		return nil
	}

	room.Tick++
	delta := &StateDelta{Tick: room.Tick}
	if playerChanges {
		delta.Players = players
		delta.RemovedPlayers = removedPlayers
	}
	if foodChanges {
		delta.Foods = foods
	}
	return delta
}

func fullPlayerDelta(p *models.Player) PlayerDelta {
	snap := models.SnapshotPlayer(p)
	return PlayerDelta{
		ID:            snap.ID,
		FullSnake:     &snap.Snake,
		Direction:     &snap.Direction,
		IsAlive:       &snap.IsAlive,
		Score:         &snap.Score,
		Effects:       &snap.Effects,
		ReviveCharges: &snap.ReviveCharges,
		Color:         &snap.Color,
	}
}

func diffPlayer(prev models.PlayerSnapshot, p *models.Player) (PlayerDelta, bool) {
	cur := models.SnapshotPlayer(p)
	d := PlayerDelta{ID: cur.ID}
	changed := false

	if cur.Direction != prev.Direction {
		d.Direction = &cur.Direction
		changed = true
	}
	if cur.IsAlive != prev.IsAlive {
		d.IsAlive = &cur.IsAlive
		changed = true
	}
	if cur.Score != prev.Score {
		d.Score = &cur.Score
		changed = true
	}
	if cur.ReviveCharges != prev.ReviveCharges {
		d.ReviveCharges = &cur.ReviveCharges
		changed = true
	}
	if cur.Color != prev.Color {
		d.Color = &cur.Color
		changed = true
	}
	if !models.EffectsEqual(prev.Effects, cur.Effects) {
		d.Effects = &cur.Effects
		changed = true
	}
	if mv := deriveMovement(prev.Snake, cur.Snake); mv != nil {
		d.Movement = mv
		changed = true
	} else if !models.SnakesEqual(prev.Snake, cur.Snake) {
		d.FullSnake = &cur.Snake
		changed = true
	}
	return d, changed
}

// deriveMovement recognises a slide: current is previous with one head
// prepended and zero or more tail cells dropped.
func deriveMovement(prev, cur []models.Position) *MovementDelta {
	if len(prev) == 0 || len(cur) == 0 || len(cur)-1 > len(prev) {
		return nil
	}
	for i := 1; i < len(cur); i++ {
		if cur[i] != prev[i-1] {
			return nil
		}
	}
	if models.SnakesEqual(prev, cur) {
		return nil
	}
	return &MovementDelta{Head: cur[0], RemovedTail: len(prev) + 1 - len(cur)}
}

func foodChanged(prev, cur models.Food) bool {
	return prev.X != cur.X ||
		prev.Y != cur.Y ||
		prev.SpawnTime != cur.SpawnTime ||
		prev.CustomLifetime != cur.CustomLifetime ||
		prev.IsCorpse != cur.IsCorpse ||
		prev.CorpseColor != cur.CorpseColor
}
