package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore writes scores to the player_score table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS player_score (
		id SERIAL PRIMARY KEY,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS player_score_score_idx ON player_score (score DESC);
	`
	_, err := ps.db.Exec(schema)
	return err
}

func (ps *PostgresStore) RecordScore(ctx context.Context, playerName string, score int) error {
	query := `INSERT INTO player_score (player_name, score) VALUES ($1, $2)`
	if _, err := ps.db.ExecContext(ctx, query, playerName, score); err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

func (ps *PostgresStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT player_name, score, created_at FROM player_score ORDER BY score DESC, created_at ASC LIMIT $1`

	rows, err := ps.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	entries := make([]ScoreEntry, 0, limit)
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.PlayerName, &e.Score, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
