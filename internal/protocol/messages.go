package protocol

import (
	"math"

	"github.com/Tyrowin/gocollect/internal/game"
)

// Init is the payload of EventInit.
type Init struct {
	Player      game.Player      `json:"player" msgpack:"player" jsonschema:"required"`
	Players     game.Roster      `json:"players" msgpack:"players" jsonschema:"required"`
	Collectible game.Collectible `json:"collectible" msgpack:"collectible" jsonschema:"required"`
}

// Movement is the payload of EventPlayerMovement. Both fields are required;
// fractional coordinates are accepted and rounded.
type Movement struct {
	X *float64 `json:"x" msgpack:"x" jsonschema:"required"`
	Y *float64 `json:"y" msgpack:"y" jsonschema:"required"`
}

// Position returns the rounded coordinates and false if either is missing or
// not a finite number.
func (m Movement) Position() (int, int, bool) {
	if m.X == nil || m.Y == nil {
		return 0, 0, false
	}
	x, y := *m.X, *m.Y
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	if math.Abs(x) > math.MaxInt32 || math.Abs(y) > math.MaxInt32 {
		return 0, 0, false
	}
	return int(math.Round(x)), int(math.Round(y)), true
}

// NewMovement builds a Movement payload from integer coordinates.
func NewMovement(x, y int) Movement {
	fx, fy := float64(x), float64(y)
	return Movement{X: &fx, Y: &fy}
}
