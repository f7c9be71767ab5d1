package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moorebrett0/triops/internal/onboarding"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/telemetry"
	"github.com/moorebrett0/triops/internal/tui"
)

var (
	skipIntro bool
	logFile   string
)

var tankCmd = &cobra.Command{
	Use:   "tank",
	Short: "Watch the tank in the terminal",
	Long: `Names the specimen, then runs the simulation in real time and draws the
tank in the terminal. Press ? for a fact, t for a thought and q to quit.`,
	RunE: runTank,
}

func init() {
	tankCmd.Flags().BoolVar(&skipIntro, "skip-intro", false, "skip naming and use the configured name")
	tankCmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the tank is drawn (default: discard)")
}

func runTank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// The tank owns the terminal; logs to stderr would tear the screen.
	logOut := io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel})))

	name := cfg.Sim.Name
	var prompter *onboarding.Prompter
	if !skipIntro {
		prompter = onboarding.New(os.Stdin, os.Stdout, 40*time.Millisecond)
		name = prompter.AskName(name)
	}

	s := sim.New(simOptions(name))
	defer s.Close()

	rec, err := telemetry.Create(cfg.Telemetry.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	b := newBrain(ctx, s)

	if prompter != nil {
		prompter.PrintStartup(name, []onboarding.Check{
			{Label: "tank filled", OK: true},
			{Label: "ai connected", OK: b.Enabled()},
			{Label: "telemetry recording", OK: cfg.Telemetry.Path != ""},
		})
	}

	sched := sim.NewScheduler(s, sim.SchedulerConfig{
		TickInterval: cfg.Sim.TickInterval,
		MoveInterval: cfg.Sim.MoveInterval,
		OnTick: func(snap sim.Snapshot) {
			_ = rec.Record(snap)
		},
	})

	runCtx, cancel := context.WithCancel(ctx)
	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		sched.Run(runCtx)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(runCtx, s, b)
	})
	return g.Wait()
}
