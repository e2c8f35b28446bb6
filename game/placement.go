package game

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/exp/rand"

	"snake-arena/constants"
	"snake-arena/models"
)

var foodSeq atomic.Uint64

func nextFoodID() string {
	return "food-" + strconv.FormatUint(foodSeq.Add(1), 36)
}

// pickFoodType draws NORMAL 40% of the time, otherwise one of the special
// types uniformly.
func pickFoodType(rng *rand.Rand) models.FoodType {
	if rng.Float64() < 0.4 {
		return models.NormalFood()
	}
	special := models.FoodCatalog[1:]
	return special[rng.Intn(len(special))]
}

// placeFood samples free cells a bounded number of times. When the budget
// runs out the last sample is used even if it overlaps.
func placeFood(rng *rand.Rand, foods []models.Position, segments []models.Position, gridSize int) models.Position {
	occupied := make(map[models.Position]struct{}, len(foods)+len(segments))
	for _, p := range foods {
		occupied[p] = struct{}{}
	}
	for _, p := range segments {
		occupied[p] = struct{}{}
	}

	var pos models.Position
	for attempt := 0; attempt < constants.PLACEMENT_ATTEMPTS; attempt++ {
		pos = models.Position{X: rng.Intn(gridSize), Y: rng.Intn(gridSize)}
		if _, taken := occupied[pos]; !taken {
			return pos
		}
	}
	return pos
}

// placeNonOverlapping picks a head cell at least minSeparation away (per axis)
// from every existing position. Column 0 is never chosen so the tail segment
// behind the head stays on the grid.
func placeNonOverlapping(rng *rand.Rand, gridSize int, existing []models.Position, minSeparation int) models.Position {
	var pos models.Position
	for attempt := 0; attempt < constants.PLACEMENT_ATTEMPTS; attempt++ {
		pos = models.Position{X: 1 + rng.Intn(gridSize-1), Y: rng.Intn(gridSize)}
		if !tooClose(pos, existing, minSeparation) {
			return pos
		}
	}
	return pos
}

func tooClose(pos models.Position, existing []models.Position, minSeparation int) bool {
	for _, e := range existing {
		if abs(e.X-pos.X) < minSeparation && abs(e.Y-pos.Y) < minSeparation {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// twoSegmentSnake builds a head with one tail cell directly to its left.
func twoSegmentSnake(head models.Position) []models.Position {
	return []models.Position{head, {X: head.X - 1, Y: head.Y}}
}

// spawnFood adds one random food to the room, avoiding snakes, existing food
// and any extra cells supplied.
func spawnFood(room *models.Room, nowMs int64, avoid ...models.Position) *models.Food {
	segments := append(room.AllSegments(), avoid...)
	pos := placeFood(room.Rand, room.FoodCells(), segments, room.GridSize)
	food := &models.Food{
		ID:        nextFoodID(),
		X:         float64(pos.X),
		Y:         float64(pos.Y),
		Type:      pickFoodType(room.Rand),
		SpawnTime: nowMs,
	}
	room.Foods = append(room.Foods, food)
	return food
}

func removeFood(room *models.Room, id string) (*models.Food, bool) {
	for i, f := range room.Foods {
		if f.ID == id {
			room.Foods = append(room.Foods[:i], room.Foods[i+1:]...)
			return f, true
		}
	}
	return nil, false
}
