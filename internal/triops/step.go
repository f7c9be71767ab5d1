package triops

import "math"

// StepInput is everything one biology tick reads.
type StepInput struct {
	Organism    Organism
	Environment Environment
	LastMoltAge int
	AdultCycles int
	Molting     bool

	// RepeatEggLaying lays a batch at every multiple of EggLayingCycles
	// instead of only once.
	RepeatEggLaying bool
}

// StepResult is the committed outcome of one biology tick.
type StepResult struct {
	Organism    Organism
	Environment Environment
	AdultCycles int
	Events      []Event

	StartMolt bool
	EggsLaid  bool
	Legacy    bool       // dormant eggs preserved at death
	Cause     DeathCause // empty while alive
}

// Died reports whether the organism died during this step.
func (r StepResult) Died() bool {
	return r.Cause != ""
}

func (r *StepResult) note(sev Severity, msg string) {
	r.Events = append(r.Events, Event{Message: msg, Severity: sev})
}

// Step advances the organism and tank by one tick. It never fails: a dead
// organism is returned untouched, a molting one only sees the tank decay.
func Step(in StepInput) (out StepResult) {
	o := in.Organism
	env := in.Environment
	out = StepResult{Organism: o, Environment: env, AdultCycles: in.AdultCycles}

	if !o.Alive {
		return out
	}
	// Health penalties read the tank as it was before this tick's decay.
	defer func() { out.Environment = decay(out.Environment) }()

	if in.Molting {
		return out
	}

	tempMultiplier := env.Temperature / BaseTemperature
	newHunger := math.Max(0, o.Hunger-HungerDecayPerTick*tempMultiplier)

	sinceMolt := (o.Age + 1) - in.LastMoltAge
	if sinceMolt >= MoltInterval(o.Stage) && o.Hunger > MoltMinHunger && o.Health > MoltMinHealth {
		out.StartMolt = true
		return out
	}

	newAge := o.Age + 1
	newStage := o.Stage
	switch {
	case o.Stage == Egg && newAge > HatchAge:
		newStage = Nauplius
		out.note(SeveritySuccess, "Observation: dormant egg hatched. Entering the nauplius (larval) stage.")
	case o.Stage == Nauplius && newAge > JuvenileAge:
		newStage = Juvenile
		out.note(SeveritySuccess, "Observation: juvenile stage reached. Carapace development accelerating.")
	case o.Stage == Juvenile && newAge > AdultAge:
		newStage = Adult
		out.note(SeveritySuccess, "Observation: adult form complete. Reproduction and metabolism at their peak.")
	case o.Stage == Adult && newAge > ElderAge:
		newStage = Elder
		out.note(SeverityInfo, "Record: senescence begins. Reduced biological activity observed.")
	case newAge > Lifespan:
		out.die(o, CauseLifespan)
		return out
	}

	if newStage.Mature() {
		out.AdultCycles++
		if eggsDue(out.AdultCycles, in.RepeatEggLaying) {
			out.Environment.EggsInSand += EggBatch
			out.EggsLaid = true
			out.note(SeveritySuccess, "Biological event: the adult specimen laid dormant eggs in the sand.")
		}
	}

	health := o.Health
	if newHunger < StarvingHunger {
		health -= StarvationPenalty
	}
	if env.WaterQuality < FoulWaterQuality {
		health -= FoulWaterPenalty
	}
	if env.Oxygen < LowOxygen {
		health -= LowOxygenPenalty
	}
	if env.Temperature > HotTemperature || env.Temperature < ColdTemperature {
		health -= TemperaturePenalty
	}

	if health <= 0 {
		out.Organism.Health = 0
		out.die(o, CauseCollapse)
		return out
	}

	out.Organism.Age = newAge
	out.Organism.Stage = newStage
	out.Organism.Hunger = newHunger
	out.Organism.Health = math.Min(MaxLevel, health)
	return out
}

// die marks the organism dead. prev is the organism as it was before the
// tick; its stage decides whether a legacy of dormant eggs is left behind.
func (r *StepResult) die(prev Organism, cause DeathCause) {
	r.Organism.Alive = false
	r.Organism.Stage = Deceased
	r.Cause = cause
	r.note(SeverityError, "Final report: specimen "+string(cause)+".")
	if prev.Stage.Mature() {
		r.Legacy = true
		r.note(SeveritySuccess, "Legacy: hundreds of dormant eggs preserved in the sediment.")
	}
}

func eggsDue(cycles int, repeat bool) bool {
	if repeat {
		return cycles > 0 && cycles%EggLayingCycles == 0
	}
	return cycles == EggLayingCycles
}

func decay(env Environment) Environment {
	env.WaterQuality = math.Max(0, env.WaterQuality-WaterDecayPerTick)
	env.Oxygen = math.Max(0, env.Oxygen-OxygenDecayPerTick)
	return env
}
