// Command triops runs the tank simulation: in a Discord channel, in the
// terminal, or headless for a fixed number of ticks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/moorebrett0/triops/internal/brain"
	"github.com/moorebrett0/triops/internal/config"
	"github.com/moorebrett0/triops/internal/sim"
)

var (
	configPath string
	verbose    bool

	cfg      *config.Config
	logLevel slog.Level
)

var rootCmd = &cobra.Command{
	Use:   "triops",
	Short: "A long-tailed tadpole shrimp in a tank",
	Long: `triops simulates the life of a single long-tailed tadpole shrimp
(Triops longicaudatus) from dormant egg to fossil. Keep the water clean,
the oxygen up and the temperature right, and it may leave eggs behind.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logLevel, _ = cfg.SlogLevel()
		if verbose {
			logLevel = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "triops.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(discordCmd, tankCmd, simulateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// simOptions builds simulation options from the loaded config.
func simOptions(name string) sim.Options {
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return sim.Options{
		Name:            name,
		MoltDuration:    cfg.Sim.MoltDuration,
		RepeatEggLaying: cfg.Sim.RepeatEggLaying,
		Rand:            rand.New(rand.NewSource(seed)),
	}
}

func newBrain(ctx context.Context, tank brain.TankReader) *brain.Brain {
	return brain.New(ctx, brain.Config{
		ClaudeAPIKey: cfg.Claude.APIKey,
		ClaudeModel:  cfg.Claude.Model,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		Provider:     cfg.AI.Provider,
		MaxTokens:    cfg.Claude.MaxTokens,
		MaxTools:     cfg.AI.MaxTools,
		RateLimit:    cfg.AI.RateLimit,
		RateWindow:   cfg.AI.RateWindow,
	}, tank)
}
