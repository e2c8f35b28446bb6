package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// JSONStore keeps every score in a single JSON file rewritten on each record.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

type JSONData struct {
	Scores []ScoreEntry `json:"scores"`
}

// NewJSONStore loads filePath, creating it when missing.
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data:     &JSONData{Scores: []ScoreEntry{}},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else if err := store.saveToFile(); err != nil {
		return nil, fmt.Errorf("failed to create JSON store file: %w", err)
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(file, js.data)
}

// saveToFile writes the current data. The caller holds the lock.
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, data, 0644)
}

func (js *JSONStore) RecordScore(_ context.Context, playerName string, score int) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Scores = append(js.data.Scores, ScoreEntry{PlayerName: playerName, Score: score, CreatedAt: time.Now().UTC()})
	if err := js.saveToFile(); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

func (js *JSONStore) TopScores(_ context.Context, limit int) ([]ScoreEntry, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	return rank(js.data.Scores, limit), nil
}

func (js *JSONStore) Close() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.saveToFile()
}
