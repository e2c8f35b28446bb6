package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStoreRanksScores(t *testing.T) {
	ms := NewMemoryStore()
	base := time.Unix(1_700_000_000, 0)
	tick := 0
	ms.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	ctx := context.Background()
	for _, e := range []struct {
		name  string
		score int
	}{{"ana", 30}, {"bo", 50}, {"cy", 30}, {"di", 10}} {
		if err := ms.RecordScore(ctx, e.name, e.score); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := ms.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"bo", "ana", "cy"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Fatalf("rank %d: got %s, want %s", i, top[i].PlayerName, name)
		}
	}
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")

	js, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := js.RecordScore(ctx, "ana", 40); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := js.RecordScore(ctx, "bo", 90); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := js.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	top, err := reopened.TopScores(ctx, 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].PlayerName != "bo" || top[0].Score != 90 {
		t.Fatalf("unexpected scores after reopen: %+v", top)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	s, err := Open("", "")
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store by default, got %T", s)
	}
}
