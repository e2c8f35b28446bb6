package models

import (
	"time"

	"snake-arena/constants"
)

type Player struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	IsReady       bool                `json:"isReady"`
	Snake         []Position          `json:"snake"`
	Direction     constants.Direction `json:"direction"`
	NextDirection constants.Direction `json:"-"`
	Color         string              `json:"color"`
	IsAlive       bool                `json:"isAlive"`
	Score         int                 `json:"score"`
	Effects       []Effect            `json:"effects"`
	Speed         float64             `json:"speed"`
	ReviveCharges int                 `json:"reviveCharges"`
	JoinedAt      time.Time           `json:"-"`

	// dash input tracking, unix ms
	DashAvailableAt   int64               `json:"-"`
	LastDashDirection constants.Direction `json:"-"`
	LastDashInputAt   int64               `json:"-"`
}

func NewPlayer(id, name, color string) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		Snake:         []Position{},
		Direction:     constants.RIGHT,
		NextDirection: constants.RIGHT,
		Color:         color,
		Effects:       []Effect{},
		Speed:         1,
		JoinedAt:      time.Now(),
	}
}

func (p *Player) Head() (Position, bool) {
	if len(p.Snake) == 0 {
		return Position{}, false
	}
	return p.Snake[0], true
}

func (p *Player) HasEffect(kind EffectKind) bool {
	for _, e := range p.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Player) IsFrozen() bool {
	return p.HasEffect(EffectFreeze)
}

// RecalculateSpeed takes the largest active speed multiplier so stacked
// boosts never compound.
func (p *Player) RecalculateSpeed() {
	speed := 1.0
	for _, e := range p.Effects {
		if e.Kind == EffectSpeed && e.SpeedMultiplier > speed {
			speed = e.SpeedMultiplier
		}
	}
	p.Speed = speed
}

// ResetForRound clears per-round state and places the snake.
func (p *Player) ResetForRound(snake []Position) {
	p.Snake = snake
	p.Direction = constants.RIGHT
	p.NextDirection = constants.RIGHT
	p.IsAlive = true
	p.IsReady = false
	p.Score = 0
	p.Effects = []Effect{}
	p.Speed = 1
	p.ReviveCharges = 0
	p.DashAvailableAt = 0
	p.LastDashDirection = ""
	p.LastDashInputAt = 0
}

// ResetToLobby returns the player to the gathering state.
func (p *Player) ResetToLobby() {
	p.IsReady = false
	p.IsAlive = false
	p.Snake = []Position{}
	p.Effects = []Effect{}
	p.Speed = 1
	p.ReviveCharges = 0
}
