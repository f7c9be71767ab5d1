package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// progressBar renders a visual bar like ████████░░ 78%
func progressBar(value float64, width int) string {
	filled := int(value / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat("█", filled), strings.Repeat("░", empty), value)
}

// moodColor returns a Discord embed color for the mood.
func moodColor(mood string) int {
	switch mood {
	case "thriving":
		return 0x57F287 // green
	case "content":
		return 0x5865F2 // blurple
	case "dormant", "molting":
		return 0x99AAB5 // grey
	case "hungry", "murky", "uncomfortable":
		return 0xFEE75C // yellow
	case "suffocating", "sick":
		return 0xED4245 // red
	case "dead":
		return 0x23272A // dark
	default:
		return 0x5865F2
	}
}

func severityEmoji(sev triops.Severity) string {
	switch sev {
	case triops.SeveritySuccess:
		return "✅"
	case triops.SeverityWarning:
		return "⚠️"
	case triops.SeverityError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// StatusEmbed builds a rich embed for /status.
func StatusEmbed(snap sim.Snapshot) *discordgo.MessageEmbed {
	o, env := snap.Organism, snap.Environment
	p := lore.For(o.Stage)

	status := "alive"
	switch {
	case !o.Alive:
		status = "FOSSILIZED"
	case snap.Molting:
		status = "molting"
	}

	vitals := fmt.Sprintf(
		"health %s\nhunger %s\nsize   %.1f",
		progressBar(o.Health, 10),
		progressBar(o.Hunger, 10),
		o.Size,
	)

	tank := fmt.Sprintf(
		"water  %s\noxygen %s\ntemp   %.1f°C | light %s\neggs   %d",
		progressBar(env.WaterQuality, 10),
		progressBar(env.Oxygen, 10),
		env.Temperature, onOff(env.LightOn),
		env.EggsInSand,
	)

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", p.Emoji, o.Name),
		Description: fmt.Sprintf("%s | mood: %s %s | status: %s", p.Name, lore.MoodEmoji(snap.Mood), snap.Mood, status),
		Color:       moodColor(snap.Mood),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Vitals", Value: "```\n" + vitals + "\n```", Inline: false},
			{Name: "Tank", Value: "```\n" + tank + "\n```", Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("age: %d cycles | last molt: cycle %d", o.Age, snap.LastMoltAge),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// TemplateLog renders the research log, newest first.
func TemplateLog(events []triops.Event) string {
	if len(events) == 0 {
		return "\U0001F4D3 The research log is empty."
	}
	var b strings.Builder
	b.WriteString("\U0001F4D3 **Research log**\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "`%s` %s %s\n", ev.Time.Format("15:04:05"), severityEmoji(ev.Severity), ev.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TemplateEvent announces a single simulation event in the channel.
func TemplateEvent(ev triops.Event, snap sim.Snapshot) string {
	return fmt.Sprintf("%s %s **%s**: %s",
		severityEmoji(ev.Severity), lore.For(snap.Organism.Stage).Emoji, snap.Organism.Name, ev.Message)
}

func TemplateFeeding(snap sim.Snapshot) string {
	p := lore.For(snap.Organism.Stage)
	return fmt.Sprintf("%s %s %s! Hunger is now at %.0f%%.",
		p.Emoji, snap.Organism.Name, p.Verbs.Eat, snap.Organism.Hunger)
}

func TemplateGreeting(snap sim.Snapshot) string {
	p := lore.For(snap.Organism.Stage)
	return fmt.Sprintf("%s %s %s!", p.Emoji, snap.Organism.Name, p.Verbs.Greet)
}

func TemplateDisturbed(snap sim.Snapshot) string {
	p := lore.For(snap.Organism.Stage)
	return fmt.Sprintf("%s You tap the glass. %s %s!", p.Emoji, snap.Organism.Name, p.Verbs.Startle)
}

func TemplateIdleBehavior(snap sim.Snapshot) string {
	behavior := lore.IdleBehavior(snap.Organism.Stage, nil)
	if behavior == "" {
		return ""
	}
	return fmt.Sprintf("%s %s %s.", lore.For(snap.Organism.Stage).Emoji, snap.Organism.Name, behavior)
}

// TemplateRejected explains why a command did nothing.
func TemplateRejected(snap sim.Snapshot, action string) string {
	p := lore.For(snap.Organism.Stage)
	name := snap.Organism.Name
	switch {
	case !snap.Organism.Alive:
		return fmt.Sprintf("%s %s is fossilized. Use `/restart` to start a new specimen.", p.Emoji, name)
	case snap.Molting:
		return fmt.Sprintf("%s %s is busy molting. Try to %s again in a moment.", p.Emoji, name, action)
	case snap.Organism.Stage == triops.Egg:
		return fmt.Sprintf("%s %s %s.", p.Emoji, name, p.Verbs.Eat)
	default:
		return fmt.Sprintf("%s nothing happened.", p.Emoji)
	}
}

func TemplateThought(snap sim.Snapshot, thought string) string {
	return fmt.Sprintf("%s *%s thinks:* %s", lore.For(snap.Organism.Stage).Emoji, snap.Organism.Name, thought)
}

func TemplateFact(fact string) string {
	return "\U0001F52C **Did you know?** " + fact
}

func TemplateDistressAlert(snap sim.Snapshot, reason string) string {
	p := lore.For(snap.Organism.Stage)
	return fmt.Sprintf("⚠️ %s %s %s!\n%s",
		p.Emoji, snap.Organism.Name, p.Verbs.Distress, reason)
}

func TemplateIntroduction(snap sim.Snapshot) string {
	p := lore.For(snap.Organism.Stage)
	return fmt.Sprintf("%s a new specimen is resting in the sand: **%s**.\n   %.0f°C water, light %s. watch this space.",
		p.Emoji, snap.Organism.Name, snap.Environment.Temperature, onOff(snap.Environment.LightOn))
}

func TemplateHelp(snap sim.Snapshot) string {
	name := snap.Organism.Name
	if name == "" {
		name = "the specimen"
	}
	return fmt.Sprintf("**Triops Tank Commands**\n\n"+
		"`/status` — See %s's vitals and the tank\n"+
		"`/log` — Recent research log\n"+
		"`/feed` — Drop in some food\n"+
		"`/clean` — Filter the water\n"+
		"`/aerate` — Restore oxygen\n"+
		"`/light` — Toggle the tank light\n"+
		"`/temp delta:<n>` — Nudge the heater\n"+
		"`/disturb` — Tap the glass\n"+
		"`/restart` — Start a new specimen\n"+
		"`/thought` — What is %s thinking?\n"+
		"`/fact` — A triops fact\n"+
		"`/help` — This message\n\n"+
		"Or just @mention %s in this channel!", name, name, name)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
