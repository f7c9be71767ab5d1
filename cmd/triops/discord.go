package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moorebrett0/triops/internal/discord"
	"github.com/moorebrett0/triops/internal/proactive"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/telemetry"
)

var discordCmd = &cobra.Command{
	Use:   "discord",
	Short: "Run the tank in a Discord channel",
	Long: `Connects to Discord and runs the simulation in real time. Slash commands
in the configured channel drive the tank; notable events and distress alerts
are posted to the channel.`,
	RunE: runDiscord,
}

func runDiscord(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateDiscord(); err != nil {
		return err
	}

	s := sim.New(simOptions(cfg.Sim.Name))
	defer s.Close()

	rec, err := telemetry.Create(cfg.Telemetry.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	bot, err := discord.NewBot(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.OwnerIDs)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	discord.NewRouter(bot, s, newBrain(ctx, s))

	sched := sim.NewScheduler(s, sim.SchedulerConfig{
		TickInterval: cfg.Sim.TickInterval,
		MoveInterval: cfg.Sim.MoveInterval,
		OnTick: func(snap sim.Snapshot) {
			if err := rec.Record(snap); err != nil {
				slog.Error("telemetry: record failed", "err", err)
			}
		},
	})
	g.Go(func() error {
		sched.Run(ctx)
		return nil
	})

	if cfg.Proactive.Enabled {
		relay := proactive.New(bot, s, proactive.Config{
			CheckInterval:    cfg.Proactive.CheckInterval,
			DistressCooldown: cfg.Proactive.DistressCooldown,
			ForwardInfo:      cfg.Proactive.ForwardInfo,
		})
		g.Go(func() error {
			relay.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		return bot.Start(ctx)
	})
	return g.Wait()
}
