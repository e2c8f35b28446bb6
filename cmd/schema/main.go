package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"snake-arena/game"
	"snake-arena/lobby"
)

// protocol lists every frame the server accepts or emits, keyed by message
// type. Outbound frames wrap these payloads as {"type", "data"}.
type protocol struct {
	Command          game.Command                 `json:"command" jsonschema:"description=Inbound command frame"`
	Connected        game.ConnectedPayload        `json:"connected"`
	RoomCreated      game.RoomJoinedPayload       `json:"roomCreated"`
	JoinedRoom       game.RoomJoinedPayload       `json:"joinedRoom"`
	LeftRoom         game.LeftRoomPayload         `json:"leftRoom"`
	UpdatePlayers    game.UpdatePlayersPayload    `json:"updatePlayers"`
	RoomList         []lobby.Summary              `json:"roomList"`
	GameStarted      game.GameStartedPayload      `json:"gameStarted"`
	StateDelta       game.StateDelta              `json:"stateDelta"`
	GameOver         game.GameOverPayload         `json:"gameOver"`
	GameReset        game.GameResetPayload        `json:"gameReset"`
	FoodConsumed     game.FoodConsumedPayload     `json:"foodConsumed"`
	EffectTriggered  game.EffectTriggeredPayload  `json:"effectTriggered"`
	PlayerDied       game.PlayerDiedPayload       `json:"playerDied"`
	KillAnnouncement game.KillAnnouncementPayload `json:"killAnnouncement"`
	Error            game.ErrorPayload            `json:"error"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocol))
	schema.Title = "Snake Arena wire protocol"
	schema.Description = "Commands accepted on /ws and the payload of every event the server sends"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
