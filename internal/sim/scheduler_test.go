package sim

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/moorebrett0/triops/internal/triops"
)

func TestScheduler_TicksAndStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &VirtualClock{}
	s := New(Options{AfterFunc: clock.AfterFunc, Rand: rand.New(rand.NewSource(7))})
	defer s.Close()

	var observed atomic.Int64
	sc := NewScheduler(s, SchedulerConfig{
		TickInterval: 2 * time.Millisecond,
		MoveInterval: time.Millisecond,
		OnTick:       func(Snapshot) { observed.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return s.Snapshot().Ticks >= 3
	}, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	stopped := s.Snapshot().Ticks
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, s.Snapshot().Ticks)
	assert.Equal(t, int64(stopped), observed.Load())
}

func TestScheduler_MovesOnceHatched(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &VirtualClock{}
	s := New(Options{AfterFunc: clock.AfterFunc, Rand: rand.New(rand.NewSource(3))})
	defer s.Close()

	sc := NewScheduler(s, SchedulerConfig{
		TickInterval: time.Millisecond,
		MoveInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	start := triops.Position{X: 50, Y: 50}
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Organism.Stage != triops.Egg && snap.Organism.Position != start
	}, 5*time.Second, time.Millisecond)
}

func TestNewScheduler_Defaults(t *testing.T) {
	sc := NewScheduler(New(Options{}), SchedulerConfig{})
	assert.Equal(t, DefaultTickInterval, sc.tickInterval)
	assert.Equal(t, DefaultMoveInterval, sc.moveInterval)
}
