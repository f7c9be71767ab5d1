// Package lore holds the static flavor text of the tank: stage profiles,
// moods, offline thoughts and the fact archive. Nothing here touches the
// simulation state.
package lore

import (
	"math/rand"

	"github.com/moorebrett0/triops/internal/triops"
)

// Facts is the fixed archive served when no AI provider is available.
var Facts = []string{
	"Triops longicaudatus has barely changed in 300 million years, which is why it is called a living fossil.",
	"Tadpole shrimp eat insect larvae and weeds in rice paddies, so farmers count them as helpers.",
	"Triops eggs can survive decades of drought, hatching within a day of the pond refilling.",
	"A triops breathes through its legs; the leaf-like limbs double as gills.",
	"Many triops populations are made of hermaphrodites that can fertilize their own eggs.",
	"Triops molt throughout their life, shedding the carapace every few days while growing.",
	"Triops have three eyes: two compound eyes and a simple naupliar eye between them.",
	"The whole life of a triops lasts only a few weeks, so the dormant eggs do the long-term work.",
}

// RandomFact picks one fact. A nil rng uses the global source.
func RandomFact(rng *rand.Rand) string {
	return Facts[intn(rng, len(Facts))]
}

// Thought returns an offline first-person thought for the organism. Urgent
// needs win over the stage's idle musings.
func Thought(o triops.Organism, mood string, rng *rand.Rand) string {
	switch mood {
	case "dead":
		return "..."
	case "molting":
		return "Hold on... wriggling out of the old shell."
	case "suffocating":
		return "Air... the water feels so thin."
	case "sick":
		return "I don't feel so good. Is the water okay?"
	case "hungry":
		return "I think I'm a little hungry..."
	case "murky":
		return "Everything is cloudy down here."
	case "uncomfortable":
		return "This water temperature is not right."
	}
	thoughts := For(o.Stage).Thoughts
	return thoughts[intn(rng, len(thoughts))]
}

// IdleBehavior picks one idle behavior for the stage, or "" if it has none.
func IdleBehavior(stage triops.Stage, rng *rand.Rand) string {
	behaviors := For(stage).IdleBehaviors
	if len(behaviors) == 0 {
		return ""
	}
	return behaviors[intn(rng, len(behaviors))]
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
