package lore

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moorebrett0/triops/internal/triops"
)

func TestMood_Priority(t *testing.T) {
	alive := triops.NewOrganism("m")
	alive.Stage = triops.Adult
	env := triops.NewEnvironment()

	dead := alive
	dead.Alive = false
	dead.Stage = triops.Deceased
	assert.Equal(t, "dead", Mood(dead, env, true))

	assert.Equal(t, "molting", Mood(alive, env, true))
	assert.Equal(t, "dormant", Mood(triops.NewOrganism("egg"), env, false))

	stuffy := env
	stuffy.Oxygen = 10
	stuffy.WaterQuality = 10
	assert.Equal(t, "suffocating", Mood(alive, stuffy, false))

	foul := env
	foul.WaterQuality = 20
	assert.Equal(t, "murky", Mood(alive, foul, false))

	starving := alive
	starving.Hunger = 5
	assert.Equal(t, "hungry", Mood(starving, foul, false))

	hot := env
	hot.Temperature = 35
	assert.Equal(t, "uncomfortable", Mood(alive, hot, false))

	assert.Equal(t, "thriving", Mood(alive, env, false))

	meh := alive
	meh.Hunger = 30
	assert.Equal(t, "content", Mood(meh, env, false))
}

func TestThought_NeedsBeatStageMusings(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	o := triops.NewOrganism("t")
	o.Stage = triops.Juvenile

	assert.Equal(t, "I think I'm a little hungry...", Thought(o, "hungry", rng))
	assert.Contains(t, For(triops.Juvenile).Thoughts, Thought(o, "content", rng))
}

func TestRandomFact_FromArchive(t *testing.T) {
	assert.Contains(t, Facts, RandomFact(rand.New(rand.NewSource(2))))
	assert.Contains(t, Facts, RandomFact(nil))
}

func TestRegistry_CoversEveryStage(t *testing.T) {
	for s := triops.Egg; s <= triops.Deceased; s++ {
		p := For(s)
		assert.Equal(t, s, p.Stage)
		assert.NotEmpty(t, p.Thoughts, s.String())
	}
	assert.Equal(t, "", IdleBehavior(triops.Deceased, nil))
	assert.NotEmpty(t, IdleBehavior(triops.Adult, nil))
}
