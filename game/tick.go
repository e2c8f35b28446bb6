package game

import (
	"math"
	"time"

	"snake-arena/constants"
	"snake-arena/models"
)

// TickResult reports what a single Step decided.
type TickResult struct {
	GameOver bool
	Winner   *models.Player
	Delta    *StateDelta
}

type plannedMove struct {
	player *models.Player
	head   models.Position
}

type deathMark struct {
	playerID string
	killerID string
}

// Step advances room by one tick. The caller holds the room lock; every event
// produced is appended to out.
func Step(room *models.Room, now time.Time, interval time.Duration, out *Outbox) TickResult {
	players := room.OrderedPlayers()
	if len(players) == 0 {
		return TickResult{}
	}
	nowMs := now.UnixMilli()

	sweepExpiredFood(room, nowMs)

	for _, p := range players {
		decayEffects(p, interval.Milliseconds())
	}

	grownByMagnet := resolveMagnets(room, players, nowMs, out)

	moves := planMoves(room, players)
	marks := detectCollisions(room, players, moves)
	revived := resolveDeaths(room, marks, nowMs, out)
	commitMoves(room, moves, revived, grownByMagnet, nowMs, out)

	var result TickResult
	if room.AliveCount() == 0 {
		room.Started = false
		result.GameOver = true
		result.Winner = pickWinner(players)
		view := viewPlayer(room, result.Winner)
		out.ToRoom(room.ID, constants.MSG_GAME_OVER, GameOverPayload{Winner: &view})
	}

	if delta := EncodeDelta(room); delta != nil {
		out.ToRoom(room.ID, constants.MSG_STATE_DELTA, delta)
		result.Delta = delta
	}
	return result
}

// sweepExpiredFood drops aged-out food. Each expired regular food is
// replaced; expired corpses are not.
func sweepExpiredFood(room *models.Room, nowMs int64) {
	kept := make([]*models.Food, 0, len(room.Foods))
	replace := 0
	for _, f := range room.Foods {
		if !f.Expired(nowMs) {
			kept = append(kept, f)
			continue
		}
		if !f.IsCorpse {
			replace++
		}
	}
	room.Foods = kept
	for i := 0; i < replace; i++ {
		spawnFood(room, nowMs)
	}
}

// resolveMagnets pulls nearby food toward magnetised heads and consumes what
// arrives. A food is claimed by at most one player. The returned set holds the
// players whose magnet meal lengthens the snake on this tick's move.
func resolveMagnets(room *models.Room, players []*models.Player, nowMs int64, out *Outbox) map[string]bool {
	type claim struct {
		food   *models.Food
		player *models.Player
	}
	var claims []claim
	claimed := make(map[string]bool)

	for _, p := range players {
		if !p.IsAlive || !p.HasEffect(models.EffectMagnet) {
			continue
		}
		head, ok := p.Head()
		if !ok {
			continue
		}
		hx, hy := float64(head.X), float64(head.Y)
		for _, f := range room.Foods {
			if f.IsCorpse || claimed[f.ID] {
				continue
			}
			dx, dy := hx-f.X, hy-f.Y
			dist := math.Hypot(dx, dy)
			if dist >= constants.MAGNET_RADIUS {
				continue
			}
			if dist > 0.1 {
				step := math.Min(constants.MAGNET_STEP, dist)
				f.X += dx / dist * step
				f.Y += dy / dist * step
			}
			if math.Hypot(hx-f.X, hy-f.Y) <= constants.MAGNET_CAPTURE {
				claimed[f.ID] = true
				claims = append(claims, claim{food: f, player: p})
			}
		}
	}

	grown := make(map[string]bool)
	for _, c := range claims {
		if _, ok := removeFood(room, c.food.ID); !ok {
			continue
		}
		if growsSnake(applyFoodEffect(c.player, c.food.Type, room, out, fullEffect)) {
			grown[c.player.ID] = true
		}
		spawnFood(room, nowMs)
	}
	return grown
}

// planMoves commits pending directions and computes next heads for every
// living, unfrozen player.
func planMoves(room *models.Room, players []*models.Player) []plannedMove {
	moves := make([]plannedMove, 0, len(players))
	for _, p := range players {
		if !p.IsAlive || len(p.Snake) == 0 || p.IsFrozen() {
			continue
		}
		if p.NextDirection != "" && p.NextDirection != p.Direction.Opposite() {
			p.Direction = p.NextDirection
		}
		head := p.Snake[0].Step(p.Direction)
		if p.HasEffect(models.EffectGhost) {
			head = head.Wrap(room.GridSize)
		}
		moves = append(moves, plannedMove{player: p, head: head})
	}
	return moves
}

// detectCollisions resolves all movers against the pre-move bodies and each
// other's next heads at once. Marks keep the order they were first made in.
func detectCollisions(room *models.Room, players []*models.Player, moves []plannedMove) []deathMark {
	var marks []deathMark
	index := make(map[string]int)
	mark := func(victim *models.Player, killerID string) {
		if victim.HasEffect(models.EffectInvincible) {
			return
		}
		if i, ok := index[victim.ID]; ok {
			if marks[i].killerID == "" {
				marks[i].killerID = killerID
			}
			return
		}
		index[victim.ID] = len(marks)
		marks = append(marks, deathMark{playerID: victim.ID, killerID: killerID})
	}

	for _, m := range moves {
		p := m.player
		if p.HasEffect(models.EffectInvincible) {
			continue
		}

		if !m.head.InBounds(room.GridSize) {
			mark(p, "")
		}

		for _, other := range players {
			if !other.IsAlive {
				continue
			}
			body := other.Snake
			if other.ID == p.ID && len(body) > 0 {
				body = body[1:]
			}
			if containsCell(body, m.head) {
				killer := ""
				if other.ID != p.ID {
					killer = other.ID
				}
				mark(p, killer)
				break
			}
		}

		for _, o := range moves {
			other := o.player
			if other.ID == p.ID || o.head != m.head {
				continue
			}
			switch {
			case len(p.Snake) > len(other.Snake):
				mark(other, p.ID)
			case len(p.Snake) < len(other.Snake):
				mark(p, other.ID)
			default:
				mark(p, "")
				mark(other, "")
			}
		}
	}
	return marks
}

func containsCell(cells []models.Position, pos models.Position) bool {
	for _, c := range cells {
		if c == pos {
			return true
		}
	}
	return false
}

// resolveDeaths consumes revive charges or kills, in mark order. Revived
// players are returned so they skip this tick's move.
func resolveDeaths(room *models.Room, marks []deathMark, nowMs int64, out *Outbox) map[string]bool {
	revived := make(map[string]bool)
	for _, m := range marks {
		player, ok := room.Players[m.playerID]
		if !ok {
			continue
		}
		killer := room.Players[m.killerID]

		if player.ReviveCharges > 0 {
			player.ReviveCharges--
			player.IsAlive = true
			player.Snake = frontTwo(player.Snake)
			player.Effects = append(player.Effects,
				models.NewTimedEffect(models.EffectInvincible, constants.REVIVE_IMMUNITY_DURATION.Milliseconds()),
				models.NewTimedEffect(models.EffectGhost, constants.REVIVE_GHOST_DURATION.Milliseconds()),
			)
			if killer != nil {
				killer.ReviveCharges++
			}
			revived[player.ID] = true
			out.ToRoom(room.ID, constants.MSG_EFFECT_TRIGGERED, EffectTriggeredPayload{PlayerID: player.ID, Effects: []string{string(models.EffectRevive)}})
			continue
		}

		player.IsAlive = false
		for _, seg := range player.Snake {
			room.Foods = append(room.Foods, &models.Food{
				ID:             nextFoodID(),
				X:              float64(seg.X),
				Y:              float64(seg.Y),
				Type:           models.NormalFood(),
				SpawnTime:      nowMs,
				CustomLifetime: constants.CORPSE_LIFETIME.Milliseconds(),
				IsCorpse:       true,
				CorpseColor:    player.Color,
			})
		}
		player.Snake = []models.Position{}
		out.ToRoom(room.ID, constants.MSG_PLAYER_DIED, PlayerDiedPayload{PlayerID: player.ID, KillerID: m.killerID})

		if killer != nil {
			killer.ReviveCharges++
			out.ToRoom(room.ID, constants.MSG_KILL_ANNOUNCEMENT, KillAnnouncementPayload{
				KillerID:   killer.ID,
				KillerName: killer.Name,
				VictimID:   player.ID,
				VictimName: player.Name,
				Timestamp:  nowMs,
			})
		}
	}
	return revived
}

func frontTwo(snake []models.Position) []models.Position {
	switch len(snake) {
	case 0:
		return []models.Position{{}, {}}
	case 1:
		return []models.Position{snake[0], snake[0]}
	}
	return []models.Position{snake[0], snake[1]}
}

// commitMoves slides surviving movers onto their new head and handles eating.
// The tail is kept only when a meal this tick lengthens the snake; effects see
// the slid body, so a shrink lands on max(2, L-value).
func commitMoves(room *models.Room, moves []plannedMove, revived, grownByMagnet map[string]bool, nowMs int64, out *Outbox) {
	heads := make([]models.Position, 0, len(moves))
	for _, m := range moves {
		heads = append(heads, m.head)
	}

	for _, m := range moves {
		p := m.player
		if !p.IsAlive || revived[p.ID] {
			continue
		}
		snake := make([]models.Position, 0, len(p.Snake)+1)
		snake = append(snake, m.head)
		snake = append(snake, p.Snake...)
		tail := snake[len(snake)-1]
		p.Snake = snake[:len(snake)-1]

		grow := grownByMagnet[p.ID]
		if food := edibleFoodAt(room, m.head); food != nil {
			removeFood(room, food.ID)
			if growsSnake(applyFoodEffect(p, food.Type, room, out, fullEffect)) {
				grow = true
			}
			spawnFood(room, nowMs, heads...)
		}
		if grow {
			p.Snake = append(p.Snake, tail)
		}
	}
}

// growsSnake reports whether a meal that fired these effects adds a segment.
// Shrink and teleport set the length themselves.
func growsSnake(triggered []string) bool {
	for _, name := range triggered {
		switch models.EffectKind(name) {
		case models.EffectShrink, models.EffectTeleport:
			return false
		}
	}
	return true
}

func edibleFoodAt(room *models.Room, cell models.Position) *models.Food {
	for _, f := range room.Foods {
		if !f.IsCorpse && f.Cell() == cell {
			return f
		}
	}
	return nil
}

// pickWinner returns the only player of a solo room, otherwise the top
// scorer with ties going to the earliest joiner.
func pickWinner(players []*models.Player) *models.Player {
	if len(players) == 1 {
		return players[0]
	}
	winner := players[0]
	for _, p := range players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner
}
