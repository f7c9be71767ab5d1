// Package proactive pushes what happens in the tank to the channel without
// being asked: notable log events, distress alerts and presence changes.
package proactive

import (
	"context"
	"log/slog"
	"time"

	"github.com/moorebrett0/triops/internal/discord"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// MessageSender can send messages and update presence.
type MessageSender interface {
	SendMessage(channelID, text string)
	UpdatePresence(mood string)
	ChannelID() string
}

// Source is the simulation as seen by the relay.
type Source interface {
	Snapshot() sim.Snapshot
	Subscribe(buffer int) (<-chan triops.Event, func())
}

// Relay forwards simulation events and periodic checks to a MessageSender.
type Relay struct {
	sender MessageSender
	source Source

	checkInterval    time.Duration
	distressCooldown time.Duration
	forwardInfo      bool
	now              func() time.Time

	lastDistress time.Time
	lastMood     string
}

// Config for the relay.
type Config struct {
	CheckInterval    time.Duration
	DistressCooldown time.Duration

	// ForwardInfo also relays routine info events (commands, light changes).
	ForwardInfo bool
}

// New creates a relay.
func New(sender MessageSender, source Source, cfg Config) *Relay {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if cfg.DistressCooldown <= 0 {
		cfg.DistressCooldown = 10 * time.Minute
	}
	return &Relay{
		sender:           sender,
		source:           source,
		checkInterval:    cfg.CheckInterval,
		distressCooldown: cfg.DistressCooldown,
		forwardInfo:      cfg.ForwardInfo,
		now:              time.Now,
	}
}

// Run relays until the context is cancelled or the simulation closes.
func (r *Relay) Run(ctx context.Context) {
	events, cancel := r.source.Subscribe(32)
	defer cancel()

	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	r.check()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				slog.Info("proactive: event stream closed")
				return
			}
			r.relay(ev)
		case <-ticker.C:
			r.check()
		}
	}
}

func (r *Relay) relay(ev triops.Event) {
	if ev.Severity == triops.SeverityInfo && !r.forwardInfo {
		return
	}
	channelID := r.sender.ChannelID()
	if channelID == "" {
		return
	}
	r.sender.SendMessage(channelID, discord.TemplateEvent(ev, r.source.Snapshot()))
}

func (r *Relay) check() {
	snap := r.source.Snapshot()

	if snap.Mood != r.lastMood {
		r.lastMood = snap.Mood
		r.sender.UpdatePresence(snap.Mood)
	}

	channelID := r.sender.ChannelID()
	if channelID == "" || !snap.Organism.Alive {
		return
	}

	now := r.now()
	if reason := checkDistress(snap); reason != "" && (r.lastDistress.IsZero() || now.Sub(r.lastDistress) > r.distressCooldown) {
		r.lastDistress = now
		slog.Info("proactive: distress alert", "reason", reason)
		r.sender.SendMessage(channelID, discord.TemplateDistressAlert(snap, reason))
	}
}

// checkDistress names the most urgent problem in the tank, or "".
func checkDistress(snap sim.Snapshot) string {
	o, env := snap.Organism, snap.Environment
	if o.Stage == triops.Egg {
		return ""
	}
	switch {
	case env.Oxygen < triops.LowOxygen:
		return "Oxygen is almost gone! Run the air stone with /aerate."
	case o.Health < 30:
		return "Health is failing. Check the water, oxygen and temperature."
	case o.Hunger < triops.StarvingHunger:
		return "It is starving! Drop some food in with /feed."
	case env.WaterQuality < triops.FoulWaterQuality:
		return "The water has gone foul. Filter it with /clean."
	case env.Temperature > triops.HotTemperature:
		return "The water is too hot. Turn the heater down with /temp."
	case env.Temperature < triops.ColdTemperature:
		return "The water is too cold. Turn the heater up with /temp."
	}
	return ""
}
