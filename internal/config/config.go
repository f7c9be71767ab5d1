// Package config loads triops.yaml, then .env, then environment overrides.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Discord   DiscordConfig   `yaml:"discord"`
	AI        AIConfig        `yaml:"ai"`
	Claude    ClaudeConfig    `yaml:"claude"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Sim       SimConfig       `yaml:"sim"`
	Proactive ProactiveConfig `yaml:"proactive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude", "gemini", or "" (auto-detect)
	MaxTools int    `yaml:"max_tool_iterations"`
	// Sliding window rate limiter
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type DiscordConfig struct {
	BotToken  string   `yaml:"bot_token"`
	ChannelID string   `yaml:"channel_id"`
	OwnerIDs  []string `yaml:"owner_ids"`
}

type ClaudeConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int64  `yaml:"max_tokens"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SimConfig struct {
	Name            string        `yaml:"name"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	MoveInterval    time.Duration `yaml:"move_interval"`
	MoltDuration    time.Duration `yaml:"molt_duration"`
	RepeatEggLaying bool          `yaml:"repeat_egg_laying"`
	Seed            int64         `yaml:"seed"` // 0 seeds from the clock
}

type ProactiveConfig struct {
	Enabled          bool          `yaml:"enabled"`
	CheckInterval    time.Duration `yaml:"check_interval"`
	DistressCooldown time.Duration `yaml:"distress_cooldown"`
	ForwardInfo      bool          `yaml:"forward_info"`
}

type TelemetryConfig struct {
	Path string `yaml:"path"` // empty disables recording
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads the config at path. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	// Load .env file first (from same directory as binary, or working dir)
	loadDotEnv(".env")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Env vars override config file (secrets live in .env or environment)
	if env := os.Getenv("DISCORD_BOT_TOKEN"); env != "" {
		cfg.Discord.BotToken = env
	}
	if env := os.Getenv("DISCORD_CHANNEL_ID"); env != "" {
		cfg.Discord.ChannelID = env
	}
	if env := os.Getenv("DISCORD_OWNER_IDS"); env != "" {
		if ids := splitIDs(env); len(ids) > 0 {
			cfg.Discord.OwnerIDs = ids
		}
	}
	if env := os.Getenv("ANTHROPIC_API_KEY"); env != "" {
		cfg.Claude.APIKey = env
	}
	if env := os.Getenv("GOOGLE_API_KEY"); env != "" {
		cfg.Gemini.APIKey = env
	}
	if env := os.Getenv("AI_PROVIDER"); env != "" {
		cfg.AI.Provider = env
	}
	if env := os.Getenv("TRIOPS_NAME"); env != "" {
		cfg.Sim.Name = env
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitIDs parses a comma-separated list of IDs.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// loadDotEnv reads a .env file and sets env vars that aren't already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // no .env, that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		val = strings.TrimSpace(val)

		// Strip surrounding quotes
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		// Only set if not already in environment
		if os.Getenv(key) == "" && val != "" {
			os.Setenv(key, val)
		}
	}
}

func defaults() *Config {
	return &Config{
		AI: AIConfig{
			MaxTools:   3,
			RateLimit:  10,
			RateWindow: time.Minute,
		},
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 512,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Sim: SimConfig{
			Name:         "Tugudori",
			TickInterval: 1800 * time.Millisecond,
			MoveInterval: 1200 * time.Millisecond,
			MoltDuration: 2500 * time.Millisecond,
		},
		Proactive: ProactiveConfig{
			Enabled:          true,
			CheckInterval:    30 * time.Second,
			DistressCooldown: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// validate checks what every subcommand needs.
func (c *Config) validate() error {
	if c.Sim.TickInterval <= 0 || c.Sim.MoveInterval <= 0 || c.Sim.MoltDuration <= 0 {
		return fmt.Errorf("sim intervals must be positive (tick %s, move %s, molt %s)",
			c.Sim.TickInterval, c.Sim.MoveInterval, c.Sim.MoltDuration)
	}
	if len(c.Sim.Name) > 32 {
		return fmt.Errorf("sim.name is longer than 32 characters")
	}
	switch c.AI.Provider {
	case "", "claude", "gemini":
	default:
		return fmt.Errorf("unknown ai.provider %q (want claude or gemini)", c.AI.Provider)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ValidateDiscord checks the settings only the Discord bot needs.
func (c *Config) ValidateDiscord() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("missing DISCORD_BOT_TOKEN")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("missing DISCORD_CHANNEL_ID")
	}
	if len(c.Discord.OwnerIDs) == 0 {
		return fmt.Errorf("missing DISCORD_OWNER_IDS")
	}
	return nil
}

// SlogLevel maps log.level to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
