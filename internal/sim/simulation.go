// Package sim owns the running tank: one organism, one environment and the
// session state around them. Every mutation goes through Simulation, which
// serializes ticks, motion, molt completion and user commands behind a
// single lock.
package sim

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/triops"
)

// LogCapacity is how many recent events the log keeps.
const LogCapacity = 15

// DefaultMoltDuration is how long a molt takes to complete.
const DefaultMoltDuration = 2500 * time.Millisecond

// Options configures a Simulation. Zero values pick sensible defaults.
type Options struct {
	Name            string
	MoltDuration    time.Duration
	RepeatEggLaying bool

	Rand      *rand.Rand
	AfterFunc AfterFunc
	Now       func() time.Time
	NewID     func() string
}

// Simulation holds the organism, its tank and the derived session state.
type Simulation struct {
	mu sync.RWMutex

	organism    triops.Organism
	environment triops.Environment
	lastMoltAge int
	adultCycles int
	molting     bool
	hasEggsLeft bool
	ticks       uint64
	log         []triops.Event
	pending     []triops.Event

	moltTimer  Timer
	generation uint64
	closed     bool

	name         string
	moltDuration time.Duration
	repeatEggs   bool
	rng          *rand.Rand
	afterFunc    AfterFunc
	now          func() time.Time
	newID        func() string

	changed chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan triops.Event
	nextSub int
}

// Snapshot is a read-only copy of the simulation for use outside the lock.
type Snapshot struct {
	Organism    triops.Organism
	Environment triops.Environment
	LastMoltAge int
	AdultCycles int
	Molting     bool
	HasEggsLeft bool
	Ticks       uint64

	Mood string
}

// MotionActive reports whether the organism swims on its own right now.
func (s Snapshot) MotionActive() bool {
	return triops.CanMove(s.Organism, s.Molting)
}

// New creates a simulation with a fresh egg in a clean tank.
func New(opts Options) *Simulation {
	s := &Simulation{
		name:         opts.Name,
		moltDuration: opts.MoltDuration,
		repeatEggs:   opts.RepeatEggLaying,
		rng:          opts.Rand,
		afterFunc:    opts.AfterFunc,
		now:          opts.Now,
		newID:        opts.NewID,
		changed:      make(chan struct{}, 1),
		subs:         make(map[int]chan triops.Event),
	}
	if s.name == "" {
		s.name = triops.DefaultName
	}
	if s.moltDuration <= 0 {
		s.moltDuration = DefaultMoltDuration
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.afterFunc == nil {
		s.afterFunc = RealAfterFunc
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.reset()
	return s
}

// reset restores the initial organism, tank and session state. Caller holds mu
// (or owns s exclusively).
func (s *Simulation) reset() {
	s.organism = triops.NewOrganism(s.name)
	s.environment = triops.NewEnvironment()
	s.lastMoltAge = 0
	s.adultCycles = 0
	s.molting = false
	s.hasEggsLeft = false
	s.ticks = 0
	s.log = nil
}

// Snapshot copies the state under RLock and computes derived values.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		Organism:    s.organism,
		Environment: s.environment,
		LastMoltAge: s.lastMoltAge,
		AdultCycles: s.adultCycles,
		Molting:     s.molting,
		HasEggsLeft: s.hasEggsLeft,
		Ticks:       s.ticks,
	}
	s.mu.RUnlock()

	snap.Mood = lore.Mood(snap.Organism, snap.Environment, snap.Molting)
	return snap
}

// Log returns the recent events, newest first.
func (s *Simulation) Log() []triops.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]triops.Event, len(s.log))
	copy(out, s.log)
	return out
}

// MotionActive reports whether the motion trigger should be armed.
func (s *Simulation) MotionActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return triops.CanMove(s.organism, s.molting)
}

// Changed fires after any committed state change. The channel holds at most
// one pending signal, so a slow reader sees changes coalesced.
func (s *Simulation) Changed() <-chan struct{} {
	return s.changed
}

// Subscribe returns a channel that receives every committed event, and a
// cancel func. Events are dropped for a subscriber whose buffer is full.
func (s *Simulation) Subscribe(buffer int) (<-chan triops.Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan triops.Event, buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close cancels a pending molt and ends every subscription. The simulation
// stays readable; a closed simulation never publishes again.
func (s *Simulation) Close() {
	s.mu.Lock()
	s.stopMoltLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// mutate runs fn under the write lock. Events emitted by fn are published and
// a change is signalled after the lock is released.
func (s *Simulation) mutate(fn func() bool) bool {
	s.mu.Lock()
	applied := fn()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	s.publish(events)
	if applied {
		select {
		case s.changed <- struct{}{}:
		default:
		}
	}
	return applied
}

// emitLocked stamps an event and prepends it to the bounded log.
func (s *Simulation) emitLocked(ev triops.Event) {
	ev.ID = s.newID()
	ev.Time = s.now()
	s.log = append([]triops.Event{ev}, s.log...)
	if len(s.log) > LogCapacity {
		s.log = s.log[:LogCapacity]
	}
	s.pending = append(s.pending, ev)
}

func (s *Simulation) publish(events []triops.Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ev := range events {
		for id, ch := range s.subs {
			select {
			case ch <- ev:
			default:
				slog.Debug("sim: subscriber full, dropping event", "sub", id, "event", ev.Message)
			}
		}
	}
}
