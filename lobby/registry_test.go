package lobby

import (
	"strconv"
	"testing"

	"snake-arena/models"
)

func TestCreateAllocatesSixDigitIDs(t *testing.T) {
	r := NewRegistry(7)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room := r.Create(20, 4, nil)
		if len(room.ID) != 6 {
			t.Fatalf("room id %q is not six digits", room.ID)
		}
		n, err := strconv.Atoi(room.ID)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("room id %q out of range", room.ID)
		}
		if seen[room.ID] {
			t.Fatalf("duplicate room id %s", room.ID)
		}
		seen[room.ID] = true
	}
	if r.Len() != 200 {
		t.Fatalf("expected 200 rooms, got %d", r.Len())
	}
}

func TestCreateRunsSetupBeforeRegistering(t *testing.T) {
	r := NewRegistry(5)
	room := r.Create(12, 4, func(room *models.Room) {
		if _, visible := r.rooms[room.ID]; visible {
			t.Fatal("room visible before setup finished")
		}
		room.OwnerID = "owner"
		room.AddPlayer("owner", "ana")
	})
	got, ok := r.Get(room.ID)
	if !ok || got.OwnerID != "owner" || len(got.Players) != 1 || got.GridSize != 12 {
		t.Fatalf("unexpected room after setup: %+v", got)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	r := NewRegistry(1)
	a := r.Create(20, 4, nil)
	b := r.Create(20, 4, nil)
	c := r.Create(20, 4, nil)

	if !r.Remove(b.ID) {
		t.Fatal("expected remove to succeed")
	}
	if r.Remove(b.ID) {
		t.Fatal("second remove should report false")
	}
	if _, ok := r.Get(b.ID); ok {
		t.Fatal("removed room still reachable")
	}

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].ID != a.ID || snap[1].ID != c.ID {
		t.Fatalf("unexpected order after remove: %v", snap)
	}
}

func TestSummaries(t *testing.T) {
	r := NewRegistry(3)
	open := r.Create(20, 4, nil)
	open.AddPlayer("p1", "ana")

	full := r.Create(20, 2, nil)
	full.AddPlayer("p2", "bo")
	full.AddPlayer("p3", "cy")

	running := r.Create(20, 4, nil)
	running.AddPlayer("p4", "di")
	running.Started = true

	got := r.Summaries()
	want := []Summary{
		{RoomID: open.ID, PlayerCount: 1, Capacity: 4, IsJoinable: true},
		{RoomID: full.ID, PlayerCount: 2, Capacity: 2, IsJoinable: false},
		{RoomID: running.ID, PlayerCount: 1, Capacity: 4, IsJoinable: false},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d summaries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("summary %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
