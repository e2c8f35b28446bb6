package game

import (
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"snake-arena/constants"
	"snake-arena/models"
)

func TestPlaceFoodAvoidsOccupiedCells(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	grid := 3
	var snake []models.Position
	for x := 0; x < grid; x++ {
		for y := 0; y < grid; y++ {
			if x == 1 && y == 2 {
				continue
			}
			snake = append(snake, pos(x, y))
		}
	}

	for i := 0; i < 5; i++ {
		if got := placeFood(rng, nil, snake, grid); got != pos(1, 2) {
			t.Fatalf("expected the only free cell (1,2), got %v", got)
		}
	}
}

func TestPlaceFoodFallsBackWhenFull(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	grid := 3
	var cells []models.Position
	for x := 0; x < grid; x++ {
		for y := 0; y < grid; y++ {
			cells = append(cells, pos(x, y))
		}
	}
	got := placeFood(rng, cells, nil, grid)
	if !got.InBounds(grid) {
		t.Fatalf("fallback placement left the grid: %v", got)
	}
}

func TestPlaceNonOverlappingKeepsSeparation(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	var heads []models.Position
	for i := 0; i < constants.MAX_ROOM_PLAYERS; i++ {
		head := placeNonOverlapping(rng, constants.DEFAULT_GRID_SIZE, heads, constants.SPAWN_SEPARATION)
		if head.X < 1 || !head.InBounds(constants.DEFAULT_GRID_SIZE) {
			t.Fatalf("head %v leaves no room for the tail", head)
		}
		if tooClose(head, heads, constants.SPAWN_SEPARATION) {
			t.Fatalf("head %v too close to %v", head, heads)
		}
		heads = append(heads, head)
	}
}

func TestPickFoodTypeDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const draws = 20000
	normal := 0
	seen := make(map[int]bool)
	for i := 0; i < draws; i++ {
		ft := pickFoodType(rng)
		seen[ft.ID] = true
		if ft.ID == models.FoodNormalID {
			normal++
		}
	}
	share := float64(normal) / draws
	if share < 0.37 || share > 0.43 {
		t.Fatalf("normal share %.3f, want about 0.40", share)
	}
	if len(seen) != len(models.FoodCatalog) {
		t.Fatalf("expected every catalog entry to appear, saw %d", len(seen))
	}
}

func TestNextFoodIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := nextFoodID()
		if !strings.HasPrefix(id, "food-") || seen[id] {
			t.Fatalf("bad or duplicate food id %q", id)
		}
		seen[id] = true
	}
}
