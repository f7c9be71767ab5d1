package brain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// scriptedProvider replays canned responses and records what it was sent.
type scriptedProvider struct {
	responses []*Response
	err       error
	calls     int
	prompts   []string
	histories [][]Message
}

func (p *scriptedProvider) Send(_ context.Context, systemPrompt string, history []Message) (*Response, error) {
	p.calls++
	p.prompts = append(p.prompts, systemPrompt)
	p.histories = append(p.histories, append([]Message(nil), history...))
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &Response{Text: "ok", Done: true}, nil
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r, nil
}

type fakeTank struct {
	snap sim.Snapshot
	log  []triops.Event
}

func (f *fakeTank) Snapshot() sim.Snapshot { return f.snap }
func (f *fakeTank) Log() []triops.Event    { return f.log }

func newFakeTank() *fakeTank {
	o := triops.NewOrganism("Kabuto")
	o.Stage = triops.Adult
	o.Age = 200
	env := triops.NewEnvironment()
	env.EggsInSand = 12
	return &fakeTank{
		snap: sim.Snapshot{Organism: o, Environment: env, Mood: "thriving"},
		log:  []triops.Event{{ID: "1", Message: "Research action: nutrients delivered.", Severity: triops.SeverityInfo}},
	}
}

func TestAsk_ToolLoop(t *testing.T) {
	p := &scriptedProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "t1", Name: toolInspectTank, Input: json.RawMessage(`{}`)}}},
		{ToolCalls: []ToolCall{{ID: "t2", Name: toolReadLog, Input: json.RawMessage(`{}`)}}},
		{Text: "The water is lovely today.", Done: true},
	}}
	b := newBrain(p, Config{MaxTools: 3}, newFakeTank())

	reply, err := b.Ask(context.Background(), "how is the water?")
	require.NoError(t, err)
	assert.Equal(t, "The water is lovely today.", reply)
	assert.Equal(t, 3, p.calls)

	assert.Contains(t, p.prompts[0], "You are Kabuto")
	assert.Contains(t, p.prompts[0], "Eggs in the sand: 12")

	last := p.histories[2]
	require.Len(t, last, 5)
	inspect := last[2].ToolResults[0]
	assert.Equal(t, "t1", inspect.ID)
	assert.False(t, inspect.IsError)

	var state struct {
		Stage       string             `json:"stage"`
		Environment triops.Environment `json:"environment"`
	}
	require.NoError(t, json.Unmarshal([]byte(inspect.Content), &state))
	assert.Equal(t, "Adult", state.Stage)
	assert.Equal(t, 12, state.Environment.EggsInSand)
	assert.Contains(t, last[4].ToolResults[0].Content, "nutrients delivered")
}

func TestAsk_UnknownToolIsError(t *testing.T) {
	p := &scriptedProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "x", Name: "run_shell"}}},
		{Text: "never mind", Done: true},
	}}
	b := newBrain(p, Config{}, newFakeTank())

	_, err := b.Ask(context.Background(), "hi")
	require.NoError(t, err)
	result := p.histories[1][2].ToolResults[0]
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "unknown tool")
}

func TestAsk_MaxToolIterations(t *testing.T) {
	loop := &Response{ToolCalls: []ToolCall{{ID: "t", Name: toolInspectTank}}}
	p := &scriptedProvider{responses: []*Response{loop, loop, loop}}
	b := newBrain(p, Config{MaxTools: 2}, newFakeTank())

	reply, err := b.Ask(context.Background(), "keep looking")
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
	assert.NotEmpty(t, reply)
}

func TestAsk_ProviderError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("boom")}
	b := newBrain(p, Config{}, newFakeTank())

	_, err := b.Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}

func TestAsk_RateLimited(t *testing.T) {
	p := &scriptedProvider{}
	b := newBrain(p, Config{RateLimit: 2, RateWindow: time.Minute}, newFakeTank())
	now := time.Unix(1000, 0)
	b.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, err := b.Ask(context.Background(), "hi")
		require.NoError(t, err)
	}
	reply, err := b.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, RateLimitedReply, reply)
	assert.Equal(t, 2, p.calls)

	now = now.Add(time.Minute + time.Second)
	reply, err = b.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestNilBrain_FallsBackToLore(t *testing.T) {
	var b *Brain
	tank := newFakeTank()

	assert.False(t, b.Enabled())
	assert.Contains(t, lore.Facts, b.Fact(context.Background()))

	snap := tank.snap
	snap.Mood = "hungry"
	assert.Equal(t, lore.Thought(snap.Organism, "hungry", nil), b.Thought(context.Background(), snap))

	_, err := b.Ask(context.Background(), "hi")
	assert.Error(t, err)
}

func TestThought_ProviderAndFallback(t *testing.T) {
	tank := newFakeTank()

	p := &scriptedProvider{responses: []*Response{{Text: "  I dig, therefore I am.  ", Done: true}}}
	b := newBrain(p, Config{}, tank)
	assert.Equal(t, "I dig, therefore I am.", b.Thought(context.Background(), tank.snap))
	assert.Contains(t, p.histories[0][0].Text, "Adult")

	failing := newBrain(&scriptedProvider{err: errors.New("offline")}, Config{}, tank)
	thought := failing.Thought(context.Background(), tank.snap)
	assert.Contains(t, lore.For(triops.Adult).Thoughts, thought)
}

func TestFact_EmptyReplyFallsBack(t *testing.T) {
	p := &scriptedProvider{responses: []*Response{{Text: "   ", Done: true}}}
	b := newBrain(p, Config{}, nil)
	assert.Contains(t, lore.Facts, b.Fact(context.Background()))
}

func TestNewProvider_Selection(t *testing.T) {
	assert.Nil(t, newProvider(context.Background(), Config{}))
	assert.Nil(t, newProvider(context.Background(), Config{Provider: "claude"}))
	assert.Nil(t, newProvider(context.Background(), Config{Provider: "gemini"}))

	p := newProvider(context.Background(), Config{ClaudeAPIKey: "sk-test", ClaudeModel: "claude-sonnet-4-5", MaxTokens: 256})
	require.IsType(t, &claudeProvider{}, p)
	assert.Len(t, p.(*claudeProvider).tools, len(tankTools))
}
