package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ScoreEntry is one finished-round result.
type ScoreEntry struct {
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Storage persists round results.
type Storage interface {
	RecordScore(ctx context.Context, playerName string, score int) error
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// Open builds the backend named by kind. target is the file path for the
// JSON backend and the connection string for PostgreSQL.
func Open(kind, target string) (Storage, error) {
	switch kind {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendJSON:
		return NewJSONStore(target)
	case BackendPostgres:
		return NewPostgresStore(target)
	default:
		return nil, fmt.Errorf("unknown score store %q", kind)
	}
}

// rank orders entries best first; equal scores keep the earlier entry first.
func rank(entries []ScoreEntry, limit int) []ScoreEntry {
	out := make([]ScoreEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
