// Package triops holds the data model of the tank simulation and the pure
// step function that advances it by one biology tick.
package triops

import "time"

// Stage is an ordered life-cycle phase. Values only move forward, except the
// terminal jump to Deceased.
type Stage int

const (
	Egg Stage = iota
	Nauplius
	Juvenile
	Adult
	Elder
	Deceased
)

var stageNames = [...]string{
	Egg:      "Egg",
	Nauplius: "Nauplius (Larva)",
	Juvenile: "Juvenile",
	Adult:    "Adult",
	Elder:    "Elder",
	Deceased: "Fossilized",
}

func (s Stage) String() string {
	if s < Egg || s > Deceased {
		return "Unknown"
	}
	return stageNames[s]
}

// Mature reports whether the stage can lay eggs.
func (s Stage) Mature() bool {
	return s == Adult || s == Elder
}

// Position is a cosmetic location in the normalized [0,100]x[0,100] tank.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Organism is the single triops living in the tank.
type Organism struct {
	Name     string   `json:"name"`
	Age      int      `json:"age"`    // cycles
	Hunger   float64  `json:"hunger"` // 0=starving, 100=full
	Health   float64  `json:"health"`
	Size     float64  `json:"size"`
	Stage    Stage    `json:"stage"`
	Alive    bool     `json:"alive"`
	Position Position `json:"position"`
}

// Environment is the tank the organism lives in.
type Environment struct {
	WaterQuality float64 `json:"water_quality"`
	Temperature  float64 `json:"temperature"` // Celsius
	Oxygen       float64 `json:"oxygen"`
	LightOn      bool    `json:"light_on"`
	EggsInSand   int     `json:"eggs_in_sand"`
}

// Severity tags an event for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a log entry. Step fills Message and Severity; the simulation
// stamps ID and Time when the event is committed.
type Event struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Time     time.Time `json:"timestamp"`
	Severity Severity  `json:"type"`
}

// DeathCause names why the organism died.
type DeathCause string

const (
	CauseLifespan DeathCause = "lifespan limit reached"
	CauseCollapse DeathCause = "life functions ceased under environmental stress"
)

// NewOrganism returns a freshly laid egg in the middle of the tank.
func NewOrganism(name string) Organism {
	if name == "" {
		name = DefaultName
	}
	return Organism{
		Name:     name,
		Hunger:   InitialHunger,
		Health:   InitialHealth,
		Size:     InitialSize,
		Stage:    Egg,
		Alive:    true,
		Position: Position{X: 50, Y: 50},
	}
}

// NewEnvironment returns a clean, lit, oxygenated tank at 25°C.
func NewEnvironment() Environment {
	return Environment{
		WaterQuality: MaxLevel,
		Temperature:  BaseTemperature,
		Oxygen:       MaxLevel,
		LightOn:      true,
	}
}

// Clamp limits v to [0,100].
func Clamp(v float64) float64 {
	return clampRange(v, 0, MaxLevel)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampTemperature limits t to the heater's range.
func ClampTemperature(t float64) float64 {
	return clampRange(t, MinTemperature, MaxTemperature)
}
