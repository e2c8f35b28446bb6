package store

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mutex   sync.RWMutex
	entries []ScoreEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (ms *MemoryStore) RecordScore(_ context.Context, playerName string, score int) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.entries = append(ms.entries, ScoreEntry{PlayerName: playerName, Score: score, CreatedAt: ms.now()})
	return nil
}

func (ms *MemoryStore) TopScores(_ context.Context, limit int) ([]ScoreEntry, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	return rank(ms.entries, limit), nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
