package lore

import "github.com/moorebrett0/triops/internal/triops"

// Profile describes how a life stage looks and talks.
type Profile struct {
	Stage       triops.Stage
	Name        string
	Emoji       string
	Description string
	Personality string // injected into the AI system prompt

	// Flavored verb strings for template responses
	Verbs Verbs

	// Idle behaviors shown when nobody is interacting
	IdleBehaviors []string

	// Offline thoughts used when no AI provider is configured
	Thoughts []string
}

// Verbs are stage-flavored action words for template responses.
type Verbs struct {
	Eat      string
	Greet    string
	Startle  string
	Distress string
}

// Registry holds every stage profile keyed by stage.
var Registry = map[triops.Stage]*Profile{
	triops.Egg:      egg,
	triops.Nauplius: nauplius,
	triops.Juvenile: juvenile,
	triops.Adult:    adult,
	triops.Elder:    elder,
	triops.Deceased: fossil,
}

// For returns the profile for a stage, falling back to the egg.
func For(stage triops.Stage) *Profile {
	if p, ok := Registry[stage]; ok {
		return p
	}
	return egg
}

var egg = &Profile{
	Stage:       triops.Egg,
	Name:        "Dormant egg",
	Emoji:       "\U0001F95A",
	Description: "A cyst waiting in the sand for the right water",
	Personality: "You are a dormant triops egg (a cyst) resting in the sand. You have not hatched yet. You think slowly about water, warmth and the day you will finally break out.",
	Verbs: Verbs{
		Eat:      "is still an egg and cannot eat",
		Greet:    "sits very still in the sand",
		Startle:  "rolls a tiny bit",
		Distress: "waits, unmoving",
	},
	IdleBehaviors: []string{
		"rests in the sand",
		"absorbs a little water",
		"waits for the right temperature",
	},
	Thoughts: []string{
		"Wet... warm... is it time yet?",
		"Three hundred million years of waiting. A few more cycles is nothing.",
		"Something is stirring inside the shell.",
	},
}

var nauplius = &Profile{
	Stage:       triops.Nauplius,
	Name:        "Nauplius",
	Emoji:       "\U0001F9A0",
	Description: "A fresh larva, all eyespot and antennae",
	Personality: "You are a nauplius, a freshly hatched triops larva with a single eye and big antennae. Everything is new and huge. You wriggle constantly and are always hungry.",
	Verbs: Verbs{
		Eat:      "wriggles into the food cloud",
		Greet:    "twitches its antennae",
		Startle:  "zips away in a zigzag",
		Distress: "spins in tiny frantic circles",
	},
	IdleBehaviors: []string{
		"wriggles near the surface",
		"bumps into a grain of sand",
		"paddles in circles",
	},
	Thoughts: []string{
		"Wriggle wriggle... the water is cool.",
		"One eye, so much to see!",
		"Everything here is enormous.",
	},
}

var juvenile = &Profile{
	Stage:       triops.Juvenile,
	Name:        "Juvenile",
	Emoji:       "\U0001F990",
	Description: "Growing fast, shell getting bigger every molt",
	Personality: "You are a juvenile triops, growing fast and molting often. You are curious, a bit clumsy, and very proud of your new carapace.",
	Verbs: Verbs{
		Eat:      "grabs the pellet with its legs",
		Greet:    "glides over the sand",
		Startle:  "flips over and darts off",
		Distress: "thrashes its tail",
	},
	IdleBehaviors: []string{
		"digs a shallow trench",
		"glides upside down along the surface",
		"flicks its tail filaments",
	},
	Thoughts: []string{
		"This shell feels tight already.",
		"Digging is the best hobby.",
		"I am definitely getting bigger.",
	},
}

var adult = &Profile{
	Stage:       triops.Adult,
	Name:        "Adult",
	Emoji:       "\U0001F980",
	Description: "A living fossil in its prime",
	Personality: "You are an adult triops, a living fossil unchanged for three hundred million years. You are calm, a little smug about your ancient lineage, and busy digging and laying eggs.",
	Verbs: Verbs{
		Eat:      "shreds the food with practiced legs",
		Greet:    "raises its shield-like carapace",
		Startle:  "bolts across the tank",
		Distress: "stirs up a cloud of sediment",
	},
	IdleBehaviors: []string{
		"plows through the sand",
		"patrols the glass",
		"tends a patch of sediment",
	},
	Thoughts: []string{
		"My ancestors watched the dinosaurs come and go.",
		"Digging. Always digging.",
		"The sand needs my attention.",
	},
}

var elder = &Profile{
	Stage:       triops.Elder,
	Name:        "Elder",
	Emoji:       "\U0001F422",
	Description: "Slow, wise, and very large",
	Personality: "You are an elder triops near the end of a long life. You move slowly, reflect a lot and speak of the eggs you left in the sand.",
	Verbs: Verbs{
		Eat:      "nibbles slowly",
		Greet:    "drifts over with dignity",
		Startle:  "shuffles aside",
		Distress: "settles heavily on the sand",
	},
	IdleBehaviors: []string{
		"rests on the bottom",
		"drifts along the glass",
		"watches the sand where the eggs are",
	},
	Thoughts: []string{
		"The eggs in the sand will carry on.",
		"I have molted more times than I can count.",
		"Slow water, slow thoughts.",
	},
}

var fossil = &Profile{
	Stage:       triops.Deceased,
	Name:        "Fossil",
	Emoji:       "\U0001FAA8",
	Description: "Returned to the sediment",
	Personality: "You are the fossilized remains of a triops. You do not speak.",
	Verbs: Verbs{
		Eat:      "does not eat anymore",
		Greet:    "lies still",
		Startle:  "does not react",
		Distress: "lies still",
	},
	Thoughts: []string{"..."},
}
