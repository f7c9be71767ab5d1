package triops

const (
	DefaultName = "Tugudori"

	MaxLevel        = 100.0
	InitialHunger   = 50.0
	InitialHealth   = 100.0
	InitialSize     = 5.0
	BaseTemperature = 25.0
	MinTemperature  = 10.0
	MaxTemperature  = 40.0

	HungerDecayPerTick = 0.9
	WaterDecayPerTick  = 0.2
	OxygenDecayPerTick = 0.15

	HatchAge    = 18
	JuvenileAge = 70
	AdultAge    = 180
	ElderAge    = 450
	Lifespan    = 700

	NaupliusMoltInterval = 20
	JuvenileMoltInterval = 50
	MatureMoltInterval   = 120
	MoltMinHunger        = 40.0
	MoltMinHealth        = 60.0
	MoltGrowth           = 12.0

	EggLayingCycles = 33
	EggBatch        = 12

	StarvingHunger     = 15.0
	StarvationPenalty  = 2.5
	FoulWaterQuality   = 35.0
	FoulWaterPenalty   = 4.0
	LowOxygen          = 25.0
	LowOxygenPenalty   = 6.0
	HotTemperature     = 32.0
	ColdTemperature    = 12.0
	TemperaturePenalty = 1.5

	FeedHunger       = 50.0
	FeedWaterFouling = 15.0

	RestChance         = 0.15
	WanderMargin       = 12.0
	DisturbMargin      = 15.0
	MarginPerSize      = 15.0
	NaupliusStride     = 18.0
	Stride             = 12.0
	DisturbJump        = 50.0
	DisturbTurnDegrees = 180.0
)

// MoltInterval returns how many cycles must pass since the last molt before
// the organism may molt again at the given stage.
func MoltInterval(s Stage) int {
	switch s {
	case Nauplius:
		return NaupliusMoltInterval
	case Juvenile:
		return JuvenileMoltInterval
	default:
		return MatureMoltInterval
	}
}
