// Package brain gives the organism a voice. It wraps an AI provider with a
// system prompt built from the live tank, a tool-use loop and a rate limiter.
// Every entry point degrades to the offline lore when no provider is
// configured or a call fails.
package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// TankReader is the read side of the simulation the brain looks at.
type TankReader interface {
	Snapshot() sim.Snapshot
	Log() []triops.Event
}

// Brain wraps an AI provider with system prompt building and tool-use loop.
type Brain struct {
	provider Provider
	maxTools int
	tank     TankReader
	now      func() time.Time

	// Sliding-window rate limiter
	mu      sync.Mutex
	window  []time.Time
	rateMax int
	rateDur time.Duration
}

// Config for creating a Brain.
type Config struct {
	// Claude
	ClaudeAPIKey string
	ClaudeModel  string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Which provider to force ("claude", "gemini", or "" for auto-detect)
	Provider string

	MaxTokens  int64
	MaxTools   int
	RateLimit  int
	RateWindow time.Duration
}

// RateLimitedReply is what Ask answers while the limiter is closed.
const RateLimitedReply = "*curls up in the sand* Too many questions at once... ask me again in a little while."

// New creates a Brain. Returns nil if no API key is configured; a nil *Brain
// still answers Thought and Fact from the lore.
func New(ctx context.Context, cfg Config, tank TankReader) *Brain {
	provider := newProvider(ctx, cfg)
	if provider == nil {
		slog.Info("brain: no API key configured, AI features disabled")
		return nil
	}
	return newBrain(provider, cfg, tank)
}

func newBrain(p Provider, cfg Config, tank TankReader) *Brain {
	if cfg.MaxTools <= 0 {
		cfg.MaxTools = 3
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	return &Brain{
		provider: p,
		maxTools: cfg.MaxTools,
		tank:     tank,
		now:      time.Now,
		rateMax:  cfg.RateLimit,
		rateDur:  cfg.RateWindow,
	}
}

// newProvider auto-detects or forces the AI provider.
func newProvider(ctx context.Context, cfg Config) Provider {
	pick := cfg.Provider

	// Auto-detect if not forced
	if pick == "" {
		switch {
		case cfg.ClaudeAPIKey != "":
			pick = "claude"
		case cfg.GeminiAPIKey != "":
			pick = "gemini"
		}
	}

	switch pick {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=claude but ANTHROPIC_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using claude", "model", cfg.ClaudeModel)
		return newClaudeProvider(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.MaxTokens)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=gemini but GOOGLE_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using gemini", "model", cfg.GeminiModel)
		p, err := newGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			slog.Error("brain: failed to create gemini provider", "err", err)
			return nil
		}
		return p
	default:
		return nil
	}
}

// Enabled reports whether an AI provider is behind b.
func (b *Brain) Enabled() bool {
	return b != nil
}

// Ask sends a user message to the AI with full context and returns the text
// response. It handles the tool-use loop internally.
func (b *Brain) Ask(ctx context.Context, userMessage string) (string, error) {
	if b == nil {
		return "", fmt.Errorf("brain: no AI provider configured")
	}
	if !b.rateAllow() {
		return RateLimitedReply, nil
	}
	return b.converse(ctx, b.buildSystemPrompt(), userMessage)
}

// Thought returns a short first-person thought for snap. It falls back to the
// offline lore on any failure.
func (b *Brain) Thought(ctx context.Context, snap sim.Snapshot) string {
	fallback := lore.Thought(snap.Organism, snap.Mood, nil)
	if b == nil || !snap.Organism.Alive || !b.rateAllow() {
		return fallback
	}

	prompt := fmt.Sprintf(`Write one short, quirky, first-person thought (at most 20 words) about how you feel right now.
You are a %s, %d cycles old, hunger %.0f/100, health %.0f/100, mood %s.
If you are an egg, talk about waiting to hatch. If you are an adult, talk about digging or being a living fossil.
The tone is slightly primitive but charming. Reply with the thought only.`,
		snap.Organism.Stage, snap.Organism.Age, snap.Organism.Hunger, snap.Organism.Health, snap.Mood)

	text, err := b.converse(ctx, b.buildSystemPrompt(), prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

// Fact returns one scientific fact about tadpole shrimp.
func (b *Brain) Fact(ctx context.Context) string {
	fallback := lore.RandomFact(nil)
	if b == nil || !b.rateAllow() {
		return fallback
	}

	text, err := b.converse(ctx,
		"You are a field biologist who studies Triops longicaudatus, the long-tailed tadpole shrimp.",
		"Tell me one interesting scientific fact about long-tailed tadpole shrimp in one or two short sentences.")
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

func (b *Brain) converse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	history := []Message{
		{Role: "user", Text: userMessage},
	}

	// Tool-use loop
	for i := 0; i <= b.maxTools; i++ {
		resp, err := b.provider.Send(ctx, systemPrompt, history)
		if err != nil {
			slog.Error("brain: AI API error", "err", err)
			return "", fmt.Errorf("AI API error: %w", err)
		}

		if resp.Done {
			return resp.Text, nil
		}

		history = append(history, Message{
			Role:      "assistant",
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		var results []ToolResult
		for _, tc := range resp.ToolCalls {
			content, isError := b.executeTool(tc.Name)
			results = append(results, ToolResult{
				ID:      tc.ID,
				Content: content,
				IsError: isError,
			})
		}

		history = append(history, Message{
			Role:        "user",
			ToolResults: results,
		})
	}

	slog.Warn("brain: hit max tool iterations", "max", b.maxTools)
	return "*taps the glass from the inside* I looked around for too long and lost my train of thought.", nil
}

func (b *Brain) executeTool(name string) (string, bool) {
	if b.tank == nil {
		return "tank not available", true
	}

	var v any
	switch name {
	case toolInspectTank:
		snap := b.tank.Snapshot()
		v = struct {
			Organism    triops.Organism    `json:"organism"`
			Stage       string             `json:"stage"`
			Environment triops.Environment `json:"environment"`
			Molting     bool               `json:"molting"`
			Mood        string             `json:"mood"`
		}{snap.Organism, snap.Organism.Stage.String(), snap.Environment, snap.Molting, snap.Mood}
	case toolReadLog:
		v = b.tank.Log()
	default:
		return fmt.Sprintf("unknown tool: %s", name), true
	}

	slog.Debug("brain: tool call", "tool", name)
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("encoding %s: %v", name, err), true
	}
	return string(out), false
}

func (b *Brain) buildSystemPrompt() string {
	if b.tank == nil {
		return "You are a long-tailed tadpole shrimp (Triops longicaudatus) living in a small research tank."
	}
	snap := b.tank.Snapshot()
	o, env := snap.Organism, snap.Environment
	p := lore.For(o.Stage)

	light := "off"
	if env.LightOn {
		light = "on"
	}

	return fmt.Sprintf(`You are %s, a long-tailed tadpole shrimp (Triops longicaudatus) %s living in a small research tank.

## Your Stage: %s
%s

## Current State
- Mood: %s
- Age: %d cycles
- Hunger: %.0f/100 (0=starving, 100=full)
- Health: %.0f/100
- Size: %.0f
- Molting: %v
- Alive: %v

## Your Tank
- Water quality: %.0f/100
- Oxygen: %.0f/100
- Temperature: %.1f°C
- Light: %s
- Eggs in the sand: %d

## Guidelines
- Stay in character as %s at all times.
- Keep responses concise (1-3 sentences usually).
- Use the inspect_tank tool when asked about your tank rather than guessing, and read_log to recall what happened recently.
- You feel the tank physically: murky water, low oxygen or the wrong temperature make you uneasy.
- You are a living fossil and a little proud of it.`,
		o.Name, p.Emoji, p.Name, p.Personality,
		snap.Mood, o.Age, o.Hunger, o.Health, o.Size, snap.Molting, o.Alive,
		env.WaterQuality, env.Oxygen, env.Temperature, light, env.EggsInSand,
		o.Name)
}

// --- Sliding-window rate limiter ---

func (b *Brain) rateAllow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cutoff := now.Add(-b.rateDur)

	// Remove expired entries
	valid := b.window[:0]
	for _, t := range b.window {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	b.window = valid

	if len(b.window) >= b.rateMax {
		return false
	}

	b.window = append(b.window, now)
	return true
}
