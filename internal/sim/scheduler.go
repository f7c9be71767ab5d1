package sim

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickInterval = 1800 * time.Millisecond
	DefaultMoveInterval = 1200 * time.Millisecond
)

// SchedulerConfig for the biology and motion triggers.
type SchedulerConfig struct {
	TickInterval time.Duration
	MoveInterval time.Duration

	// OnTick is called after every biology tick with the committed state.
	OnTick func(Snapshot)
}

// Scheduler drives a Simulation with two repeating triggers: biology ticks
// at a fixed interval, and motion while the organism can swim.
type Scheduler struct {
	sim          *Simulation
	tickInterval time.Duration
	moveInterval time.Duration
	onTick       func(Snapshot)
}

// NewScheduler creates a scheduler for s.
func NewScheduler(s *Simulation, cfg SchedulerConfig) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.MoveInterval <= 0 {
		cfg.MoveInterval = DefaultMoveInterval
	}
	return &Scheduler{
		sim:          s,
		tickInterval: cfg.TickInterval,
		moveInterval: cfg.MoveInterval,
		onTick:       cfg.OnTick,
	}
}

// Run fires the triggers until the context is cancelled. Both tickers are
// stopped before Run returns; nothing fires afterwards.
func (sc *Scheduler) Run(ctx context.Context) {
	bio := time.NewTicker(sc.tickInterval)
	defer bio.Stop()

	var motion *time.Ticker
	var motionC <-chan time.Time
	defer func() {
		if motion != nil {
			motion.Stop()
		}
	}()

	// The motion trigger follows the organism: re-evaluated after every
	// committed change instead of being re-registered implicitly.
	rearm := func() {
		active := sc.sim.MotionActive()
		switch {
		case active && motion == nil:
			motion = time.NewTicker(sc.moveInterval)
			motionC = motion.C
			slog.Debug("sim: motion armed")
		case !active && motion != nil:
			motion.Stop()
			motion, motionC = nil, nil
			slog.Debug("sim: motion disarmed")
		}
	}
	rearm()

	slog.Info("sim: scheduler started", "tick", sc.tickInterval, "move", sc.moveInterval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("sim: scheduler stopped")
			return
		case <-bio.C:
			sc.sim.Tick()
			if sc.onTick != nil {
				sc.onTick(sc.sim.Snapshot())
			}
			rearm()
		case <-motionC:
			sc.sim.Move()
		case <-sc.sim.Changed():
			rearm()
		}
	}
}
