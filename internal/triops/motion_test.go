package triops

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMove(t *testing.T) {
	o := organismAt(Juvenile, 100)
	assert.True(t, CanMove(o, false))
	assert.False(t, CanMove(o, true), "molting organisms hold still")

	egg := NewOrganism("egg")
	assert.False(t, CanMove(egg, false))

	dead := organismAt(Deceased, 100)
	dead.Alive = false
	assert.False(t, CanMove(dead, false))
}

func TestWander_StaysInsideMargins(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	o := organismAt(Nauplius, 30)
	o.Size = 41
	margin := WanderMargin + (o.Size/100)*MarginPerSize

	rested := 0
	for i := 0; i < 2000; i++ {
		pos, moved := Wander(o, rng)
		if !moved {
			rested++
			assert.Equal(t, o.Position, pos)
			continue
		}
		assert.GreaterOrEqual(t, pos.X, margin)
		assert.LessOrEqual(t, pos.X, 100-margin)
		assert.GreaterOrEqual(t, pos.Y, margin)
		assert.LessOrEqual(t, pos.Y, 100-margin)
		o.Position = pos
	}

	// 15% rest chance; allow generous slack for the fixed seed.
	assert.InDelta(t, 300, rested, 80)
}

func TestWander_StrideDependsOnStage(t *testing.T) {
	for _, stage := range []Stage{Nauplius, Adult} {
		rng := rand.New(rand.NewSource(3))
		o := organismAt(stage, 100)
		limit := Stride / 2
		if stage == Nauplius {
			limit = NaupliusStride / 2
		}
		for i := 0; i < 500; i++ {
			pos, moved := Wander(o, rng)
			if !moved {
				continue
			}
			assert.LessOrEqual(t, abs(pos.X-o.Position.X), limit)
			assert.LessOrEqual(t, abs(pos.Y-o.Position.Y), limit)
		}
	}
}

func TestDisturb_TurnsAroundAndStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	o := organismAt(Adult, 300)
	o.Position = Position{X: 90, Y: 10, Rotation: 30}
	margin := DisturbMargin + (o.Size/100)*MarginPerSize

	for i := 0; i < 200; i++ {
		pos := Disturb(o, rng)
		assert.Equal(t, 210.0, pos.Rotation)
		assert.GreaterOrEqual(t, pos.X, margin)
		assert.LessOrEqual(t, pos.X, 100-margin)
		assert.GreaterOrEqual(t, pos.Y, margin)
		assert.LessOrEqual(t, pos.Y, 100-margin)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
