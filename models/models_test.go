package models

import (
	"testing"

	"golang.org/x/exp/rand"

	"snake-arena/constants"
)

func TestPositionStepAndWrap(t *testing.T) {
	tests := []struct {
		name string
		from Position
		dir  constants.Direction
		want Position
	}{
		{"right", Position{X: 3, Y: 3}, constants.RIGHT, Position{X: 4, Y: 3}},
		{"up", Position{X: 3, Y: 3}, constants.UP, Position{X: 3, Y: 2}},
		{"wrap left edge", Position{X: 0, Y: 4}, constants.LEFT, Position{X: 9, Y: 4}},
		{"wrap bottom edge", Position{X: 2, Y: 9}, constants.DOWN, Position{X: 2, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.from.Step(tt.dir)
			if got := next.Wrap(10); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if (Position{X: 10, Y: 0}).InBounds(10) || !(Position{X: 9, Y: 9}).InBounds(10) {
		t.Fatal("InBounds disagrees with the grid edges")
	}
}

func TestCloneSnakeDoesNotAlias(t *testing.T) {
	snake := []Position{{X: 1, Y: 1}, {X: 0, Y: 1}}
	clone := CloneSnake(snake)
	clone[0].X = 7
	if snake[0].X != 1 {
		t.Fatal("clone shares storage with the original")
	}
	if got := CloneSnake(nil); got == nil || len(got) != 0 {
		t.Fatal("nil snake should clone to an empty slice")
	}
}

func TestFoodCatalog(t *testing.T) {
	if len(FoodCatalog) != 10 {
		t.Fatalf("expected 10 food types, got %d", len(FoodCatalog))
	}
	seen := map[int]bool{}
	for _, ft := range FoodCatalog {
		if seen[ft.ID] {
			t.Fatalf("duplicate food id %d", ft.ID)
		}
		seen[ft.ID] = true
		if ft.Lifetime <= 0 || ft.Score <= 0 {
			t.Fatalf("%s has no lifetime or score", ft.Name)
		}
	}
	if n := NormalFood(); n.ID != FoodNormalID || n.Effect != EffectNone {
		t.Fatalf("unexpected normal food %+v", n)
	}
	if _, ok := FoodByID(99); ok {
		t.Fatal("unknown id resolved")
	}
}

func TestFoodExpiry(t *testing.T) {
	f := &Food{Type: NormalFood(), SpawnTime: 1000, X: 2.6, Y: 3.4}
	if f.Cell() != (Position{X: 3, Y: 3}) {
		t.Fatalf("fractional food rounds to %+v", f.Cell())
	}
	if f.Expired(1000 + NormalFood().Lifetime - 1) {
		t.Fatal("expired early")
	}
	if !f.Expired(1000 + NormalFood().Lifetime) {
		t.Fatal("not expired at its lifetime")
	}

	corpse := &Food{Type: NormalFood(), SpawnTime: 0, CustomLifetime: constants.CORPSE_LIFETIME.Milliseconds(), IsCorpse: true}
	if !corpse.Expired(constants.CORPSE_LIFETIME.Milliseconds()) {
		t.Fatal("custom lifetime ignored")
	}
}

func TestRecalculateSpeedTakesMax(t *testing.T) {
	p := NewPlayer("a", "ana", "bg-green-500")
	p.Effects = []Effect{NewSpeedEffect(1000, 2), NewSpeedEffect(1000, 1.5), NewTimedEffect(EffectGhost, 1000)}
	p.RecalculateSpeed()
	if p.Speed != 2 {
		t.Fatalf("expected 2, got %v", p.Speed)
	}
	p.Effects = nil
	p.RecalculateSpeed()
	if p.Speed != 1 {
		t.Fatalf("expected base speed, got %v", p.Speed)
	}
}

func TestRoomColorsAndOrder(t *testing.T) {
	room := NewRoom("123456", 20, 4, rand.New(rand.NewSource(1)))
	for _, id := range []string{"a", "b", "c"} {
		room.AddPlayer(id, id)
	}
	if room.Players["b"].Color != constants.PLAYER_COLORS[1] {
		t.Fatalf("second player got %s", room.Players["b"].Color)
	}

	if _, ok := room.RemovePlayer("b"); !ok {
		t.Fatal("remove failed")
	}
	if _, ok := room.RemovePlayer("b"); ok {
		t.Fatal("double remove succeeded")
	}
	d := room.AddPlayer("d", "d")
	if d.Color != constants.PLAYER_COLORS[1] {
		t.Fatalf("freed color not reused, got %s", d.Color)
	}

	var order []string
	for _, p := range room.OrderedPlayers() {
		order = append(order, p.ID)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "c" || order[2] != "d" {
		t.Fatalf("unexpected join order %v", order)
	}

	room.AddPlayer("e", "e")
	if !room.IsFull() || room.Joinable() {
		t.Fatal("room at capacity should be full")
	}
}

func TestSnapshotDetachedFromLiveState(t *testing.T) {
	room := NewRoom("123456", 20, 4, rand.New(rand.NewSource(1)))
	p := room.AddPlayer("a", "ana")
	p.Snake = []Position{{X: 2, Y: 2}, {X: 1, Y: 2}}
	p.Effects = []Effect{NewTimedEffect(EffectGhost, 500)}
	room.Tick = 9
	room.ResetSnapshot()

	p.Snake[0].X = 5
	p.Effects[0].Duration = 100
	snap := room.Snapshot.Players["a"]
	if snap.Snake[0].X != 2 || snap.Effects[0].Duration != 500 {
		t.Fatal("snapshot aliases live state")
	}
	if room.Tick != 0 {
		t.Fatal("ResetSnapshot should restart the tick counter")
	}

	room.ClearSnapshot()
	if len(room.Snapshot.Players) != 0 {
		t.Fatal("ClearSnapshot kept players")
	}
}

func TestEffectKindsClosed(t *testing.T) {
	timed := map[EffectKind]bool{
		EffectFreeze: true, EffectSpeed: true, EffectGhost: true, EffectInvincible: true, EffectMagnet: true,
		EffectNone: false, EffectShrink: false, EffectGrow: false, EffectTeleport: false, EffectRevive: false, EffectRandom: false,
	}
	for kind, want := range timed {
		if kind.Timed() != want {
			t.Errorf("%q: Timed() = %v, want %v", kind, kind.Timed(), want)
		}
	}
	for _, ft := range FoodCatalog {
		if ft.Effect.Timed() && ft.Duration <= 0 {
			t.Errorf("%s carries a timed effect without a duration", ft.Name)
		}
		if ft.Effect != EffectSpeed && ft.SpeedMultiplier != 0 {
			t.Errorf("%s sets a speed multiplier on a %q effect", ft.Name, ft.Effect)
		}
	}
	if e := NewTimedEffect(EffectSpeed, 100); e.SpeedMultiplier != 1 {
		t.Fatalf("speed built through NewTimedEffect should be neutral, got %v", e.SpeedMultiplier)
	}
	if e := NewTimedEffect(EffectGhost, 100); e.SpeedMultiplier != 0 {
		t.Fatal("non-speed effects carry no multiplier")
	}
}
