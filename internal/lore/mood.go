package lore

import "github.com/moorebrett0/triops/internal/triops"

// Mood returns a mood label based on priority-ordered rules.
// Priority: Dead > Molting > Dormant > Suffocating > Sick > Hungry > Murky > Uncomfortable > Thriving > Content
func Mood(o triops.Organism, env triops.Environment, molting bool) string {
	if !o.Alive {
		return "dead"
	}
	if molting {
		return "molting"
	}
	if o.Stage == triops.Egg {
		return "dormant"
	}
	if env.Oxygen < triops.LowOxygen {
		return "suffocating"
	}
	if o.Health < 30 {
		return "sick"
	}
	if o.Hunger < triops.StarvingHunger {
		return "hungry"
	}
	if env.WaterQuality < triops.FoulWaterQuality {
		return "murky"
	}
	if env.Temperature > triops.HotTemperature || env.Temperature < triops.ColdTemperature {
		return "uncomfortable"
	}
	if o.Health > 80 && o.Hunger > 40 {
		return "thriving"
	}
	return "content"
}

// MoodEmoji maps a mood label to a single emoji.
func MoodEmoji(mood string) string {
	switch mood {
	case "thriving":
		return "\U0001F31F"
	case "content":
		return "\U0001F60C"
	case "dormant":
		return "\U0001F4A4"
	case "molting":
		return "\U0001F41A"
	case "hungry":
		return "\U0001F37D"
	case "murky":
		return "\U0001F32B"
	case "uncomfortable":
		return "\U0001F321"
	case "suffocating":
		return "\U0001FAE7"
	case "sick":
		return "\U0001F912"
	case "dead":
		return "\U0001F480"
	default:
		return "❓"
	}
}
