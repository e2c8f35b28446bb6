package game

import (
	"time"

	"golang.org/x/exp/rand"

	"snake-arena/constants"
	"snake-arena/models"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

func newTestRoom(gridSize int, seed uint64) *models.Room {
	room := models.NewRoom("100000", gridSize, constants.MAX_ROOM_PLAYERS, rand.New(rand.NewSource(seed)))
	room.Started = true
	return room
}

func addAlive(room *models.Room, id string, dir constants.Direction, snake ...models.Position) *models.Player {
	p := room.AddPlayer(id, id)
	p.ResetForRound(snake)
	p.Direction = dir
	p.NextDirection = dir
	if room.OwnerID == "" {
		room.OwnerID = id
	}
	return p
}

func putFood(room *models.Room, typeID int, x, y float64, nowMs int64) *models.Food {
	ft, _ := models.FoodByID(typeID)
	f := &models.Food{ID: nextFoodID(), X: x, Y: y, Type: ft, SpawnTime: nowMs}
	room.Foods = append(room.Foods, f)
	return f
}

func pos(x, y int) models.Position {
	return models.Position{X: x, Y: y}
}

func countType(out *Outbox, msgType string) int {
	n := 0
	for _, e := range out.Envelopes() {
		if e.Type == msgType {
			n++
		}
	}
	return n
}
