package models

type EffectKind string

const (
	EffectNone       EffectKind = ""
	EffectFreeze     EffectKind = "freeze"
	EffectSpeed      EffectKind = "speed"
	EffectGhost      EffectKind = "ghost"
	EffectInvincible EffectKind = "invincible"
	EffectMagnet     EffectKind = "magnet"
	EffectShrink     EffectKind = "shrink"
	EffectGrow       EffectKind = "grow"
	EffectTeleport   EffectKind = "teleport"
	EffectRevive     EffectKind = "revive"
	EffectRandom     EffectKind = "random"
)

// FoodType is an immutable catalog entry. Durations and lifetimes are in
// milliseconds.
type FoodType struct {
	ID              int        `json:"id"`
	Color           string     `json:"color"`
	Score           int        `json:"score"`
	Effect          EffectKind `json:"effect,omitempty"`
	Duration        int64      `json:"duration,omitempty"`
	SpeedMultiplier float64    `json:"speedMultiplier,omitempty"`
	Value           int        `json:"value,omitempty"`
	Lifetime        int64      `json:"lifetime"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
}

const (
	FoodNormalID = iota + 1
	FoodFreezeID
	FoodSpeedID
	FoodShrinkID
	FoodRainbowID
	FoodTeleportID
	FoodReviveID
	FoodGhostID
	FoodInvincibleID
	FoodMagnetID
)

var FoodCatalog = []FoodType{
	{ID: FoodNormalID, Color: "#ff0000", Score: 10, Lifetime: 15000, Name: "Apple", Description: "Grows the snake by one segment"},
	{ID: FoodFreezeID, Color: "#00aaff", Score: 20, Effect: EffectFreeze, Duration: 3000, Lifetime: 8000, Name: "Frost Fruit", Description: "Freezes you in place for 3 seconds"},
	{ID: FoodSpeedID, Color: "#ff5500", Score: 30, Effect: EffectSpeed, Duration: 5000, SpeedMultiplier: 2, Lifetime: 8000, Name: "Chili", Description: "Double speed for 5 seconds"},
	{ID: FoodShrinkID, Color: "#aa00ff", Score: 20, Effect: EffectShrink, Value: 3, Lifetime: 8000, Name: "Mushroom", Description: "Sheds 3 segments at once"},
	{ID: FoodRainbowID, Color: "rainbow", Score: 50, Effect: EffectRandom, Lifetime: 7000, Name: "Rainbow Candy", Description: "Triggers a random effect"},
	{ID: FoodTeleportID, Color: "linear-gradient(45deg, #00ffaa, #00aaff)", Score: 20, Effect: EffectTeleport, Lifetime: 7000, Name: "Portal", Description: "Jumps to a safe random spot"},
	{ID: FoodReviveID, Color: "#ffd700", Score: 60, Effect: EffectRevive, Lifetime: 12000, Name: "Revive Charm", Description: "Survive one death with brief immunity"},
	{ID: FoodGhostID, Color: "#00ff00", Score: 40, Effect: EffectGhost, Duration: 6000, Lifetime: 8000, Name: "Ghost", Description: "Pass through walls for 6 seconds"},
	{ID: FoodInvincibleID, Color: "#ffffff", Score: 50, Effect: EffectInvincible, Duration: 5000, Lifetime: 8000, Name: "Star", Description: "Immune to collisions for 5 seconds"},
	{ID: FoodMagnetID, Color: "#ff00ff", Score: 30, Effect: EffectMagnet, Duration: 8000, Lifetime: 8000, Name: "Magnet", Description: "Pulls nearby food for 8 seconds"},
}

// FoodByID looks up a catalog entry.
func FoodByID(id int) (FoodType, bool) {
	for _, ft := range FoodCatalog {
		if ft.ID == id {
			return ft, true
		}
	}
	return FoodType{}, false
}

// NormalFood is the plain growth food, also used for corpses.
func NormalFood() FoodType {
	return FoodCatalog[0]
}

// Food is a live instance on the grid. Coordinates are fractional because
// magnets drag food across cells; Cell rounds to the occupied grid cell.
type Food struct {
	ID             string   `json:"id"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	Type           FoodType `json:"type"`
	SpawnTime      int64    `json:"spawnTime"`
	CustomLifetime int64    `json:"customLifetime,omitempty"`
	IsCorpse       bool     `json:"isCorpse,omitempty"`
	CorpseColor    string   `json:"corpseColor,omitempty"`
}

func (f *Food) Cell() Position {
	return Position{X: roundCell(f.X), Y: roundCell(f.Y)}
}

// Lifetime is the override when set, else the catalog default.
func (f *Food) Lifetime() int64 {
	if f.CustomLifetime > 0 {
		return f.CustomLifetime
	}
	return f.Type.Lifetime
}

func (f *Food) Expired(nowMs int64) bool {
	return nowMs-f.SpawnTime >= f.Lifetime()
}

// Timed reports whether the kind is stored on a player as an Effect. Shrink,
// grow, teleport and revive apply at once; random resolves to another kind.
func (k EffectKind) Timed() bool {
	switch k {
	case EffectFreeze, EffectSpeed, EffectGhost, EffectInvincible, EffectMagnet:
		return true
	}
	return false
}

// Effect is an active timed status of one of the Timed kinds. Build it with
// NewTimedEffect or NewSpeedEffect; only the latter sets SpeedMultiplier.
type Effect struct {
	Kind            EffectKind `json:"type"`
	Duration        int64      `json:"duration"`
	SpeedMultiplier float64    `json:"speedMultiplier,omitempty"`
}

// NewTimedEffect builds a plain timed effect. A speed kind gets the neutral
// multiplier.
func NewTimedEffect(kind EffectKind, durationMs int64) Effect {
	if kind == EffectSpeed {
		return NewSpeedEffect(durationMs, 1)
	}
	return Effect{Kind: kind, Duration: durationMs}
}

func NewSpeedEffect(durationMs int64, multiplier float64) Effect {
	return Effect{Kind: EffectSpeed, Duration: durationMs, SpeedMultiplier: multiplier}
}

func CloneEffects(effects []Effect) []Effect {
	out := make([]Effect, len(effects))
	copy(out, effects)
	return out
}

func EffectsEqual(a, b []Effect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
