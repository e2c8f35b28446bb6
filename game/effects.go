package game

import (
	"snake-arena/constants"
	"snake-arena/models"
)

type effectOptions struct {
	emitEvents bool
	awardScore bool
}

var fullEffect = effectOptions{emitEvents: true, awardScore: true}

// applyFoodEffect awards the food to player and applies its effect. It
// returns the names of the effects that fired.
func applyFoodEffect(player *models.Player, ft models.FoodType, room *models.Room, out *Outbox, opts effectOptions) []string {
	if opts.awardScore {
		player.Score += ft.Score
	}
	if opts.emitEvents {
		out.ToRoom(room.ID, constants.MSG_FOOD_CONSUMED, FoodConsumedPayload{PlayerID: player.ID, FoodTypeID: ft.ID})
	}

	triggered := resolveEffect(player, ft, room, map[models.EffectKind]bool{})

	if opts.emitEvents && len(triggered) > 0 {
		out.ToRoom(room.ID, constants.MSG_EFFECT_TRIGGERED, EffectTriggeredPayload{PlayerID: player.ID, Effects: triggered})
	}
	return triggered
}

// resolveEffect applies one catalog effect. Meta effects may redirect to a
// concrete one once; visited stops a meta effect from reaching itself again.
func resolveEffect(player *models.Player, ft models.FoodType, room *models.Room, visited map[models.EffectKind]bool) []string {
	kind := ft.Effect
	if visited[kind] {
		return nil
	}
	visited[kind] = true

	switch kind {
	case models.EffectNone:
		// growth comes from skipping the tail pop on the move that ate it
		return nil
	case models.EffectSpeed:
		player.Effects = append(player.Effects, models.NewSpeedEffect(ft.Duration, ft.SpeedMultiplier))
		player.RecalculateSpeed()
	case models.EffectShrink:
		shrinkSnake(player, ft.Value)
	case models.EffectGrow:
		if n := len(player.Snake); n > 0 {
			player.Snake = append(player.Snake, player.Snake[n-1])
		}
	case models.EffectTeleport:
		teleport(player, room)
	case models.EffectRevive:
		player.ReviveCharges++
	case models.EffectRandom:
		candidates := make([]models.FoodType, 0, len(models.FoodCatalog))
		for _, c := range models.FoodCatalog {
			if c.Effect != models.EffectNone && !visited[c.Effect] {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		return resolveEffect(player, candidates[room.Rand.Intn(len(candidates))], room, visited)
	default:
		if !kind.Timed() {
			return nil
		}
		player.Effects = append(player.Effects, models.NewTimedEffect(kind, ft.Duration))
	}
	return []string{string(kind)}
}

// shrinkSnake drops up to n tail segments, keeping at least two.
func shrinkSnake(player *models.Player, n int) {
	drop := n
	if limit := len(player.Snake) - 2; drop > limit {
		drop = limit
	}
	if drop > 0 {
		player.Snake = player.Snake[:len(player.Snake)-drop]
	}
}

func teleport(player *models.Player, room *models.Room) {
	var others []models.Position
	for _, p := range room.OrderedPlayers() {
		if p.ID != player.ID {
			others = append(others, p.Snake...)
		}
	}
	head := placeNonOverlapping(room.Rand, room.GridSize, others, constants.SPAWN_SEPARATION)
	player.Snake = twoSegmentSnake(head)
}

// decayEffects ages every effect by one tick and drops the finished ones.
func decayEffects(player *models.Player, tickMs int64) {
	kept := player.Effects[:0]
	for _, e := range player.Effects {
		e.Duration -= tickMs
		if e.Duration > 0 {
			kept = append(kept, e)
		}
	}
	player.Effects = kept
	player.RecalculateSpeed()
}

func activateDash(player *models.Player, room *models.Room, nowMs int64, out *Outbox) {
	player.Effects = append(player.Effects, models.NewSpeedEffect(constants.DASH_DURATION.Milliseconds(), constants.DASH_SPEED_MULTIPLIER))
	player.RecalculateSpeed()
	player.DashAvailableAt = nowMs + constants.DASH_COOLDOWN.Milliseconds()
	out.ToRoom(room.ID, constants.MSG_EFFECT_TRIGGERED, EffectTriggeredPayload{PlayerID: player.ID, Effects: []string{"dash"}})
}
