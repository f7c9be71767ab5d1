package sim

import (
	"log/slog"

	"github.com/moorebrett0/triops/internal/triops"
)

// Tick runs one biology step and commits the result atomically.
func (s *Simulation) Tick() {
	s.mutate(func() bool {
		if !s.organism.Alive {
			return false
		}

		res := triops.Step(triops.StepInput{
			Organism:        s.organism,
			Environment:     s.environment,
			LastMoltAge:     s.lastMoltAge,
			AdultCycles:     s.adultCycles,
			Molting:         s.molting,
			RepeatEggLaying: s.repeatEggs,
		})

		s.ticks++
		s.organism = res.Organism
		s.environment = res.Environment
		s.adultCycles = res.AdultCycles
		if res.EggsLaid || res.Legacy {
			s.hasEggsLeft = true
		}
		for _, ev := range res.Events {
			s.emitLocked(ev)
		}

		if res.Died() {
			slog.Info("sim: organism died", "cause", res.Cause, "age", res.Organism.Age, "legacy", res.Legacy)
		}
		if res.StartMolt {
			s.startMoltLocked()
		}
		return true
	})
}

// Move runs one firing of the motion trigger. It returns true if the
// organism changed position.
func (s *Simulation) Move() bool {
	return s.mutate(func() bool {
		if !triops.CanMove(s.organism, s.molting) {
			return false
		}
		pos, moved := triops.Wander(s.organism, s.rng)
		if !moved {
			return false
		}
		s.organism.Position = pos
		return true
	})
}

// startMoltLocked begins a molt unless one is already in flight.
func (s *Simulation) startMoltLocked() {
	if s.molting {
		return
	}
	s.molting = true
	gen := s.generation
	ageAtActivation := s.organism.Age
	s.moltTimer = s.afterFunc(s.moltDuration, func() {
		s.completeMolt(gen, ageAtActivation)
	})
	s.emitLocked(triops.Event{
		Message:  "Observation: molt started. The specimen is shedding its carapace.",
		Severity: triops.SeverityInfo,
	})
	slog.Debug("sim: molt started", "age", ageAtActivation, "size", s.organism.Size)
}

func (s *Simulation) completeMolt(gen uint64, ageAtActivation int) {
	s.mutate(func() bool {
		if gen != s.generation || !s.molting {
			slog.Debug("sim: stale molt completion ignored", "gen", gen)
			return false
		}
		s.molting = false
		s.moltTimer = nil
		s.lastMoltAge = ageAtActivation
		s.organism.Size += triops.MoltGrowth
		s.emitLocked(triops.Event{
			Message:  "Ecology report: ecdysis successful. The new carapace is hardening.",
			Severity: triops.SeveritySuccess,
		})
		slog.Debug("sim: molt complete", "size", s.organism.Size)
		return true
	})
}

// stopMoltLocked cancels any pending molt completion and invalidates
// callbacks already in flight.
func (s *Simulation) stopMoltLocked() {
	s.generation++
	if s.moltTimer != nil {
		s.moltTimer.Stop()
		s.moltTimer = nil
	}
}
