package triops

import (
	"math"
	"math/rand"
)

// CanMove reports whether the organism is swimming around on its own.
func CanMove(o Organism, molting bool) bool {
	return o.Alive && o.Stage != Egg && !molting
}

// Wander computes one step of the idle random walk. It returns false when the
// organism rests this time and the position is unchanged.
func Wander(o Organism, rng *rand.Rand) (Position, bool) {
	if rng.Float64() < RestChance {
		return o.Position, false
	}

	margin := WanderMargin + (o.Size/100)*MarginPerSize
	stride := Stride
	if o.Stage == Nauplius {
		stride = NaupliusStride
	}
	dx := (rng.Float64() - 0.5) * stride
	dy := (rng.Float64() - 0.5) * stride

	return Position{
		X:        clampRange(o.Position.X+dx, margin, 100-margin),
		Y:        clampRange(o.Position.Y+dy, margin, 100-margin),
		Rotation: math.Atan2(dy, dx)*(180/math.Pi) + 90,
	}, true
}

// Disturb is the startled jump after someone taps the glass.
func Disturb(o Organism, rng *rand.Rand) Position {
	margin := DisturbMargin + (o.Size/100)*MarginPerSize
	dx := (rng.Float64() - 0.5) * DisturbJump
	dy := (rng.Float64() - 0.5) * DisturbJump

	return Position{
		X:        clampRange(o.Position.X+dx, margin, 100-margin),
		Y:        clampRange(o.Position.Y+dy, margin, 100-margin),
		Rotation: o.Position.Rotation + DisturbTurnDegrees,
	}
}
