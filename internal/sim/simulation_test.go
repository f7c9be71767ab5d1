package sim

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moorebrett0/triops/internal/triops"
)

type harness struct {
	sim   *Simulation
	clock *VirtualClock
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	clock := &VirtualClock{}
	n := 0
	opts.AfterFunc = clock.AfterFunc
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	opts.NewID = func() string {
		n++
		return strconv.Itoa(n)
	}
	opts.Now = func() time.Time { return time.Unix(0, 0).Add(clock.Elapsed()) }
	s := New(opts)
	t.Cleanup(s.Close)
	return &harness{sim: s, clock: clock}
}

func (h *harness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.sim.Tick()
	}
}

// hatched returns a harness whose organism just became a nauplius.
func hatched(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, Options{Name: "Specimen"})
	h.ticks(triops.HatchAge + 1)
	snap := h.sim.Snapshot()
	require.Equal(t, triops.Nauplius, snap.Organism.Stage)
	require.Equal(t, triops.HatchAge+1, snap.Organism.Age)
	return h
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t, Options{})
	snap := h.sim.Snapshot()

	assert.Equal(t, triops.DefaultName, snap.Organism.Name)
	assert.Equal(t, triops.Egg, snap.Organism.Stage)
	assert.True(t, snap.Organism.Alive)
	assert.Equal(t, 50.0, snap.Organism.Hunger)
	assert.Equal(t, 100.0, snap.Organism.Health)
	assert.Equal(t, 5.0, snap.Organism.Size)
	assert.Equal(t, triops.NewEnvironment(), snap.Environment)
	assert.False(t, snap.Molting)
	assert.False(t, snap.HasEggsLeft)
	assert.False(t, snap.MotionActive())
	assert.Equal(t, "dormant", snap.Mood)
	assert.Empty(t, h.sim.Log())
}

func TestMolt_ActivatesAndCompletes(t *testing.T) {
	h := hatched(t)
	require.True(t, h.sim.Feed())

	h.sim.Tick()
	snap := h.sim.Snapshot()
	require.True(t, snap.Molting)
	assert.Equal(t, triops.HatchAge+1, snap.Organism.Age, "age is frozen on the tick the molt starts")
	assert.False(t, snap.MotionActive())
	assert.Equal(t, "molting", snap.Mood)
	assert.Equal(t, 1, h.clock.Pending())
	assert.Contains(t, h.sim.Log()[0].Message, "molt started")

	h.clock.Advance(DefaultMoltDuration - time.Millisecond)
	assert.True(t, h.sim.Snapshot().Molting)

	h.clock.Advance(time.Millisecond)
	snap = h.sim.Snapshot()
	assert.False(t, snap.Molting)
	assert.Equal(t, triops.InitialSize+triops.MoltGrowth, snap.Organism.Size)
	assert.Equal(t, triops.HatchAge+1, snap.LastMoltAge)
	assert.Equal(t, triops.SeveritySuccess, h.sim.Log()[0].Severity)
	assert.True(t, snap.MotionActive())
}

func TestMolt_SuspendsBiologyAndIsNotReentrant(t *testing.T) {
	h := hatched(t)
	h.sim.Feed()
	h.sim.Tick()
	before := h.sim.Snapshot()
	require.True(t, before.Molting)

	h.ticks(5)
	after := h.sim.Snapshot()

	assert.Equal(t, 1, h.clock.Pending())
	assert.Equal(t, before.Organism, after.Organism)
	assert.InDelta(t, before.Environment.WaterQuality-5*triops.WaterDecayPerTick, after.Environment.WaterQuality, 1e-9)
	assert.False(t, h.sim.Feed(), "feeding is rejected while molting")
	assert.False(t, h.sim.Disturb(), "the organism cannot be startled while molting")
	assert.False(t, h.sim.Move())
}

func TestRestart_DiscardsPendingMolt(t *testing.T) {
	h := hatched(t)
	h.sim.Feed()
	h.sim.Tick()
	require.True(t, h.sim.Snapshot().Molting)

	h.sim.Restart()
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(DefaultMoltDuration)
	snap := h.sim.Snapshot()
	assert.False(t, snap.Molting)
	assert.Equal(t, triops.InitialSize, snap.Organism.Size)
	assert.Equal(t, triops.Egg, snap.Organism.Stage)
	assert.Equal(t, 0, snap.LastMoltAge)
}

func TestStaleMoltCompletionIsIgnored(t *testing.T) {
	h := hatched(t)
	h.sim.Feed()
	h.sim.Tick()
	gen := h.sim.generation

	h.sim.Restart()
	h.sim.completeMolt(gen, 99)

	snap := h.sim.Snapshot()
	assert.Equal(t, triops.InitialSize, snap.Organism.Size)
	assert.Equal(t, 0, snap.LastMoltAge)
}

func TestLog_BoundedNewestFirst(t *testing.T) {
	h := newHarness(t, Options{})
	for i := 0; i < 20; i++ {
		require.True(t, h.sim.ToggleLight())
	}

	log := h.sim.Log()
	require.Len(t, log, LogCapacity)
	assert.Equal(t, "20", log[0].ID)
	assert.Equal(t, "6", log[LogCapacity-1].ID)
	assert.Equal(t, "System: lighting optimized (on).", log[0].Message)
	assert.True(t, h.sim.Snapshot().Environment.LightOn)
}

func TestCommands_OnEgg(t *testing.T) {
	h := newHarness(t, Options{})

	assert.False(t, h.sim.Feed())
	assert.False(t, h.sim.Disturb())
	assert.False(t, h.sim.Move())
	assert.Empty(t, h.sim.Log())
	assert.Equal(t, 50.0, h.sim.Snapshot().Organism.Hunger)

	assert.True(t, h.sim.Clean())
	assert.True(t, h.sim.Aerate())
	assert.True(t, h.sim.ToggleLight())
	assert.Len(t, h.sim.Log(), 3)
}

func TestFeed_CapsHungerAndFoulsWater(t *testing.T) {
	h := hatched(t)
	require.True(t, h.sim.Feed())
	require.True(t, h.sim.Feed())

	snap := h.sim.Snapshot()
	assert.Equal(t, triops.MaxLevel, snap.Organism.Hunger)
	wantWater := triops.MaxLevel - float64(triops.HatchAge+1)*triops.WaterDecayPerTick - 2*triops.FeedWaterFouling
	assert.InDelta(t, wantWater, snap.Environment.WaterQuality, 1e-9)
}

func TestAdjustTemperature_Clamped(t *testing.T) {
	h := newHarness(t, Options{})

	for i := 0; i < 40; i++ {
		assert.True(t, h.sim.AdjustTemperature(0.5))
	}
	assert.Equal(t, triops.MaxTemperature, h.sim.Snapshot().Environment.Temperature)

	h.sim.AdjustTemperature(-100)
	assert.Equal(t, triops.MinTemperature, h.sim.Snapshot().Environment.Temperature)
	assert.Empty(t, h.sim.Log())
}

func TestDisturb_TurnsAround(t *testing.T) {
	h := hatched(t)
	before := h.sim.Snapshot().Organism.Position

	require.True(t, h.sim.Disturb())
	after := h.sim.Snapshot().Organism.Position

	assert.Equal(t, before.Rotation+180, after.Rotation)
	assert.Contains(t, h.sim.Log()[0].Message, "evasive")
}

func TestCollapse_DeadOrganismIgnoresCommands(t *testing.T) {
	h := newHarness(t, Options{})
	h.sim.AdjustTemperature(100)
	for i := 0; i < 1000 && h.sim.Snapshot().Organism.Alive; i++ {
		h.sim.Tick()
	}

	snap := h.sim.Snapshot()
	require.False(t, snap.Organism.Alive)
	assert.Equal(t, triops.Deceased, snap.Organism.Stage)
	assert.Equal(t, 0.0, snap.Organism.Health)
	assert.False(t, snap.HasEggsLeft, "an immature organism leaves nothing behind")
	assert.Equal(t, "dead", snap.Mood)
	assert.Equal(t, triops.SeverityError, h.sim.Log()[0].Severity)

	assert.False(t, h.sim.Feed())
	assert.False(t, h.sim.Clean())
	assert.False(t, h.sim.Aerate())
	assert.False(t, h.sim.ToggleLight())
	assert.False(t, h.sim.Disturb())

	ticks := snap.Ticks
	h.sim.Tick()
	assert.Equal(t, snap.Environment, h.sim.Snapshot().Environment)
	assert.Equal(t, ticks, h.sim.Snapshot().Ticks)

	h.sim.Restart()
	snap = h.sim.Snapshot()
	assert.True(t, snap.Organism.Alive)
	assert.Equal(t, triops.NewEnvironment(), snap.Environment)
	log := h.sim.Log()
	require.Len(t, log, 1)
	assert.Equal(t, "Log: new simulation specimen 01 created.", log[0].Message)
}

func TestFullLife_ReachesLifespanAndLeavesEggs(t *testing.T) {
	h := newHarness(t, Options{Name: "Elder"})

	laid := 0
	for i := 0; i < 5000 && h.sim.Snapshot().Organism.Alive; i++ {
		h.sim.Tick()
		h.clock.Advance(DefaultMoltDuration)

		snap := h.sim.Snapshot()
		if snap.Environment.EggsInSand > 0 && laid == 0 {
			laid = snap.AdultCycles
		}
		if snap.Organism.Hunger < 60 {
			h.sim.Feed()
		}
		if snap.Environment.WaterQuality < 60 {
			h.sim.Clean()
		}
		if snap.Environment.Oxygen < 60 {
			h.sim.Aerate()
		}
	}

	snap := h.sim.Snapshot()
	require.False(t, snap.Organism.Alive)
	assert.Equal(t, triops.Lifespan, snap.Organism.Age)
	assert.Equal(t, triops.EggLayingCycles, laid)
	assert.Equal(t, triops.EggBatch, snap.Environment.EggsInSand)
	assert.True(t, snap.HasEggsLeft)
	assert.Greater(t, snap.Organism.Size, triops.InitialSize)

	log := h.sim.Log()
	require.GreaterOrEqual(t, len(log), 2)
	assert.Contains(t, log[0].Message, "Legacy")
	assert.Contains(t, log[1].Message, string(triops.CauseLifespan))

	h.sim.Restart()
	log = h.sim.Log()
	require.Len(t, log, 1)
	assert.Equal(t, "Log: preserved dormant eggs broken from dormancy and rehydrated.", log[0].Message)
	assert.False(t, h.sim.Snapshot().HasEggsLeft)
}

func TestRepeatEggLaying(t *testing.T) {
	h := newHarness(t, Options{RepeatEggLaying: true})
	for i := 0; i < 5000 && h.sim.Snapshot().Organism.Alive; i++ {
		h.sim.Tick()
		h.clock.Advance(DefaultMoltDuration)
		snap := h.sim.Snapshot()
		if snap.Organism.Hunger < 60 {
			h.sim.Feed()
		}
		if snap.Environment.WaterQuality < 60 {
			h.sim.Clean()
		}
		if snap.Environment.Oxygen < 60 {
			h.sim.Aerate()
		}
	}

	snap := h.sim.Snapshot()
	batches := snap.AdultCycles / triops.EggLayingCycles
	require.Greater(t, batches, 1)
	assert.Equal(t, batches*triops.EggBatch, snap.Environment.EggsInSand)
}

func TestSubscribe_ReceivesEventsUntilClosed(t *testing.T) {
	h := newHarness(t, Options{})
	events, cancel := h.sim.Subscribe(4)
	defer cancel()

	h.sim.Clean()
	select {
	case ev := <-events:
		assert.Equal(t, triops.SeveritySuccess, ev.Severity)
		assert.NotEmpty(t, ev.ID)
	default:
		t.Fatal("expected an event")
	}

	h.sim.Close()
	_, ok := <-events
	assert.False(t, ok)

	late, _ := h.sim.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestSubscribe_FullBufferDrops(t *testing.T) {
	h := newHarness(t, Options{})
	events, cancel := h.sim.Subscribe(1)

	h.sim.ToggleLight()
	h.sim.ToggleLight()
	cancel()

	var got []triops.Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "System: night observation mode (off).", got[0].Message)
}

func TestChanged_SignalsAppliedCommands(t *testing.T) {
	h := newHarness(t, Options{})

	h.sim.Feed()
	select {
	case <-h.sim.Changed():
		t.Fatal("rejected command must not signal")
	default:
	}

	h.sim.Clean()
	select {
	case <-h.sim.Changed():
	default:
		t.Fatal("expected a change signal")
	}
}
