package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"snake-arena/constants"
)

type Config struct {
	Port            string
	TickInterval    time.Duration
	DefaultGridSize int
	MaxRoomPlayers  int

	JWTSecret string
	TokenTTL  time.Duration

	ScoreStore  string
	ScoreFile   string
	DatabaseURL string

	STUNURLs       []string
	TURNURLs       []string
	TURNUsername   string
	TURNCredential string
}

const defaultJWTSecret = "snake-arena-dev-secret"

// Load reads .env when present, then the process environment. Bad values are
// logged and replaced by their defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from any variable lookup.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Port:            stringOr(getenv("PORT"), "8080"),
		TickInterval:    durationOr(getenv, "TICK_INTERVAL", constants.TICK_RATE),
		DefaultGridSize: intOr(getenv, "DEFAULT_GRID_SIZE", constants.DEFAULT_GRID_SIZE),
		MaxRoomPlayers:  intOr(getenv, "MAX_ROOM_PLAYERS", constants.MAX_ROOM_PLAYERS),
		JWTSecret:       stringOr(getenv("JWT_SECRET"), defaultJWTSecret),
		TokenTTL:        durationOr(getenv, "TOKEN_TTL", 24*time.Hour),
		ScoreStore:      stringOr(getenv("SCORE_STORE"), "memory"),
		ScoreFile:       stringOr(getenv("SCORE_FILE"), "scores.json"),
		DatabaseURL:     getenv("DATABASE_URL"),
		STUNURLs:        listOr(getenv("STUN_URLS"), []string{"stun:stun.l.google.com:19302"}),
		TURNURLs:        listOr(getenv("TURN_URLS"), nil),
		TURNUsername:    getenv("TURN_USERNAME"),
		TURNCredential:  getenv("TURN_CREDENTIAL"),
	}

	if cfg.DefaultGridSize < constants.MIN_GRID_SIZE || cfg.DefaultGridSize > constants.MAX_GRID_SIZE {
		log.Printf("DEFAULT_GRID_SIZE %d out of range, using %d", cfg.DefaultGridSize, constants.DEFAULT_GRID_SIZE)
		cfg.DefaultGridSize = constants.DEFAULT_GRID_SIZE
	}
	if cfg.MaxRoomPlayers < 1 || cfg.MaxRoomPlayers > len(constants.PLAYER_COLORS) {
		log.Printf("MAX_ROOM_PLAYERS %d out of range, using %d", cfg.MaxRoomPlayers, constants.MAX_ROOM_PLAYERS)
		cfg.MaxRoomPlayers = constants.MAX_ROOM_PLAYERS
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Printf("JWT_SECRET not set, using development secret")
	}
	return cfg
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func intOr(getenv func(string) string, key string, fallback int) int {
	raw := getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s %q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func durationOr(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	raw := getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return v
}

func listOr(raw string, fallback []string) []string {
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
