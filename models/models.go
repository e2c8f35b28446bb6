package models

import (
	"math"

	"snake-arena/constants"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring cell in direction d.
func (p Position) Step(d constants.Direction) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// InBounds reports whether p lies on a square grid of the given size.
func (p Position) InBounds(gridSize int) bool {
	return p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize
}

// Wrap folds an out-of-grid position onto the opposite edge.
func (p Position) Wrap(gridSize int) Position {
	if p.X < 0 {
		p.X = gridSize - 1
	} else if p.X >= gridSize {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = gridSize - 1
	} else if p.Y >= gridSize {
		p.Y = 0
	}
	return p
}

// CloneSnake copies a body so snapshots never alias live state.
func CloneSnake(snake []Position) []Position {
	if snake == nil {
		return []Position{}
	}
	out := make([]Position, len(snake))
	copy(out, snake)
	return out
}

func SnakesEqual(a, b []Position) bool {
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

func roundCell(v float64) int {
	return int(math.Round(v))
}
