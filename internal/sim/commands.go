package sim

import (
	"math"

	"github.com/moorebrett0/triops/internal/triops"
)

// Commands return true when they were applied. A command whose precondition
// fails is a silent no-op.

// Feed drops food into the tank: hunger up, water a bit fouler.
func (s *Simulation) Feed() bool {
	return s.mutate(func() bool {
		if !triops.CanMove(s.organism, s.molting) {
			return false
		}
		s.organism.Hunger = math.Min(triops.MaxLevel, s.organism.Hunger+triops.FeedHunger)
		s.environment.WaterQuality = math.Max(0, s.environment.WaterQuality-triops.FeedWaterFouling)
		s.info("Research action: nutrients delivered.")
		return true
	})
}

// Clean filters the tank back to perfect water.
func (s *Simulation) Clean() bool {
	return s.mutate(func() bool {
		if !s.organism.Alive {
			return false
		}
		s.environment.WaterQuality = triops.MaxLevel
		s.emitLocked(triops.Event{
			Message:  "Research action: tank filtered and water purified.",
			Severity: triops.SeveritySuccess,
		})
		return true
	})
}

// Aerate restores full oxygen saturation.
func (s *Simulation) Aerate() bool {
	return s.mutate(func() bool {
		if !s.organism.Alive {
			return false
		}
		s.environment.Oxygen = triops.MaxLevel
		s.info("Research action: aeration running. Oxygen saturation restored.")
		return true
	})
}

// ToggleLight flips the tank light.
func (s *Simulation) ToggleLight() bool {
	return s.mutate(func() bool {
		if !s.organism.Alive {
			return false
		}
		s.environment.LightOn = !s.environment.LightOn
		if s.environment.LightOn {
			s.info("System: lighting optimized (on).")
		} else {
			s.info("System: night observation mode (off).")
		}
		return true
	})
}

// AdjustTemperature nudges the heater by delta, clamped to 10–40°C. It is
// allowed in any state.
func (s *Simulation) AdjustTemperature(delta float64) bool {
	return s.mutate(func() bool {
		s.environment.Temperature = triops.ClampTemperature(s.environment.Temperature + delta)
		return true
	})
}

// Disturb taps the glass; the organism jumps away and turns around.
func (s *Simulation) Disturb() bool {
	return s.mutate(func() bool {
		if !triops.CanMove(s.organism, s.molting) {
			return false
		}
		s.organism.Position = triops.Disturb(s.organism, s.rng)
		s.info("Vibration detected: the specimen shows a rapid evasive response.")
		return true
	})
}

// Restart replaces the organism and tank with fresh ones and clears the
// session. Whether the previous run left eggs only picks the opening log line.
func (s *Simulation) Restart() {
	s.mutate(func() bool {
		rehydrate := s.hasEggsLeft
		s.stopMoltLocked()
		s.reset()
		if rehydrate {
			s.info("Log: preserved dormant eggs broken from dormancy and rehydrated.")
		} else {
			s.info("Log: new simulation specimen 01 created.")
		}
		return true
	})
}

func (s *Simulation) info(msg string) {
	s.emitLocked(triops.Event{Message: msg, Severity: triops.SeverityInfo})
}
