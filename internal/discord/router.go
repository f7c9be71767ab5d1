package discord

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/triops/internal/brain"
	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// Tank is the simulation surface the router drives.
type Tank interface {
	Snapshot() sim.Snapshot
	Log() []triops.Event

	Feed() bool
	Clean() bool
	Aerate() bool
	ToggleLight() bool
	AdjustTemperature(delta float64) bool
	Disturb() bool
	Restart()
}

// ownerOnly lists the commands that change the tank.
var ownerOnly = map[string]bool{
	"feed":    true,
	"clean":   true,
	"aerate":  true,
	"light":   true,
	"temp":    true,
	"disturb": true,
	"restart": true,
}

// command is a parsed slash command.
type command struct {
	Name  string
	Delta float64
	Owner bool
}

// reply is what a command answers with.
type reply struct {
	Content   string
	Embed     *discordgo.MessageEmbed
	Ephemeral bool
}

// Router dispatches Discord messages and slash commands.
type Router struct {
	bot   *Bot
	tank  Tank
	brain *brain.Brain // nil if AI is disabled

	petChatChance float64 // probability of responding to another bot (0-1)

	// Anti-loop: cooldown for bot-to-bot responses
	mu           sync.Mutex
	lastBotReply time.Time
	botCooldown  time.Duration
}

// NewRouter creates a router and wires it to the bot.
func NewRouter(bot *Bot, tank Tank, b *brain.Brain) *Router {
	r := &Router{
		bot:           bot,
		tank:          tank,
		brain:         b,
		petChatChance: 0.25,
		botCooldown:   3 * time.Minute,
	}
	if bot != nil {
		bot.SetRouter(r)
	}
	return r
}

// HandleInteraction dispatches a slash command interaction.
func (r *Router) HandleInteraction(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	cmd := command{
		Name:  data.Name,
		Owner: r.bot.IsOwner(interactionUserID(i)),
	}
	for _, opt := range data.Options {
		if opt.Name == "delta" {
			cmd.Delta = opt.FloatValue()
		}
	}

	// AI-backed answers can take a few seconds; Discord wants an ack in 3.
	if r.brain.Enabled() && (cmd.Name == "thought" || cmd.Name == "fact") {
		r.respondDeferred(i)
		out := r.execute(context.Background(), cmd)
		r.followup(i, out.Content)
		return
	}

	out := r.execute(context.Background(), cmd)
	switch {
	case out.Embed != nil:
		r.respondEmbed(i, out.Embed)
	case out.Ephemeral:
		r.respondEphemeral(i, out.Content)
	default:
		r.respond(i, out.Content)
	}
}

// execute runs one command against the tank and renders the answer.
func (r *Router) execute(ctx context.Context, cmd command) reply {
	snap := r.tank.Snapshot()

	if ownerOnly[cmd.Name] && !cmd.Owner {
		return reply{
			Content:   "\U0001F52C only the lead researcher can touch the tank. You can still `/status`, `/log`, `/thought` and `/fact`.",
			Ephemeral: true,
		}
	}

	switch cmd.Name {
	case "status":
		return reply{Embed: StatusEmbed(snap)}

	case "log":
		return reply{Content: TemplateLog(r.tank.Log())}

	case "feed":
		if !r.tank.Feed() {
			return reply{Content: TemplateRejected(snap, "feed"), Ephemeral: true}
		}
		return reply{Content: TemplateFeeding(r.tank.Snapshot())}

	case "clean":
		if !r.tank.Clean() {
			return reply{Content: TemplateRejected(snap, "clean"), Ephemeral: true}
		}
		return reply{Content: "\U0001FAE7 Tank filtered. Water quality is back to 100%."}

	case "aerate":
		if !r.tank.Aerate() {
			return reply{Content: TemplateRejected(snap, "aerate"), Ephemeral: true}
		}
		return reply{Content: "\U0001F4A8 Air stone running. Oxygen saturation is back to 100%."}

	case "light":
		if !r.tank.ToggleLight() {
			return reply{Content: TemplateRejected(snap, "toggle the light"), Ephemeral: true}
		}
		if r.tank.Snapshot().Environment.LightOn {
			return reply{Content: "\U0001F4A1 Light on."}
		}
		return reply{Content: "\U0001F319 Light off. Night observation mode."}

	case "temp":
		if cmd.Delta == 0 {
			return reply{Content: "Give a non-zero `delta`, e.g. `/temp delta:0.5`.", Ephemeral: true}
		}
		r.tank.AdjustTemperature(cmd.Delta)
		return reply{Content: fmt.Sprintf("\U0001F321 Heater set. Water is now %.1f°C.", r.tank.Snapshot().Environment.Temperature)}

	case "disturb":
		if !r.tank.Disturb() {
			return reply{Content: TemplateRejected(snap, "tap the glass"), Ephemeral: true}
		}
		return reply{Content: TemplateDisturbed(r.tank.Snapshot())}

	case "restart":
		r.tank.Restart()
		snap = r.tank.Snapshot()
		log := r.tank.Log()
		msg := "A new specimen is ready."
		if len(log) > 0 {
			msg = log[0].Message
		}
		return reply{Content: fmt.Sprintf("✨ %s\n%s", msg, TemplateIntroduction(snap))}

	case "thought":
		return reply{Content: TemplateThought(snap, r.brain.Thought(ctx, snap))}

	case "fact":
		return reply{Content: TemplateFact(r.brain.Fact(ctx))}

	case "help":
		return reply{Content: TemplateHelp(snap)}

	default:
		return reply{Content: "Unknown command.", Ephemeral: true}
	}
}

// HandleMessage dispatches a free-form channel message.
func (r *Router) HandleMessage(m *discordgo.MessageCreate) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	if m.Author.Bot {
		r.handleBotMessage(m, text)
		return
	}

	if r.bot.IsMentioned(m) {
		text = r.bot.StripMention(text)
		if text == "" {
			r.bot.SendMessage(m.ChannelID, TemplateGreeting(r.tank.Snapshot()))
			return
		}
		r.handleDirectMessage(m, text)
		return
	}

	// Not mentioned: only a few patterns get an answer.
	lower := strings.ToLower(text)
	switch {
	case matchesGreeting(lower):
		r.bot.SendMessage(m.ChannelID, TemplateGreeting(r.tank.Snapshot()))
	case matchesFeeding(lower) && r.bot.IsOwner(m.Author.ID):
		out := r.execute(context.Background(), command{Name: "feed", Owner: true})
		r.bot.SendMessage(m.ChannelID, out.Content)
	}
}

// handleDirectMessage handles a message where the bot was @mentioned.
func (r *Router) handleDirectMessage(m *discordgo.MessageCreate, text string) {
	snap := r.tank.Snapshot()

	if !r.brain.Enabled() {
		behavior := TemplateIdleBehavior(snap)
		if behavior == "" {
			behavior = TemplateThought(snap, r.brain.Thought(context.Background(), snap))
		}
		r.bot.SendMessage(m.ChannelID, behavior)
		return
	}

	prompt := text
	if !r.bot.IsOwner(m.Author.ID) {
		prompt = fmt.Sprintf("[Message from visitor %s, not the lead researcher]: %s", m.Author.Username, text)
	}
	resp, err := r.brain.Ask(context.Background(), prompt)
	if err != nil {
		slog.Error("router: brain error", "err", err)
		r.bot.SendMessage(m.ChannelID, TemplateIdleBehavior(snap))
		return
	}
	r.bot.SendMessage(m.ChannelID, resp)
}

// handleBotMessage decides whether to answer another bot in the channel.
func (r *Router) handleBotMessage(m *discordgo.MessageCreate, text string) {
	r.mu.Lock()
	if time.Since(r.lastBotReply) < r.botCooldown {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if rand.Float64() > r.petChatChance || !r.brain.Enabled() {
		return
	}
	if !r.tank.Snapshot().Organism.Alive {
		return
	}

	prompt := fmt.Sprintf(
		"[Another creature in the channel (%s) just said: \"%s\"]\nRespond briefly in character, 1-2 sentences max.",
		m.Author.Username, text,
	)
	resp, err := r.brain.Ask(context.Background(), prompt)
	if err != nil {
		slog.Debug("router: bot-to-bot brain error", "err", err)
		return
	}

	r.mu.Lock()
	r.lastBotReply = time.Now()
	r.mu.Unlock()

	r.bot.SendMessage(m.ChannelID, resp)
}

// --- Interaction response helpers ---

func (r *Router) respond(i *discordgo.InteractionCreate, content string) {
	r.interactionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (r *Router) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	r.interactionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (r *Router) respondEphemeral(i *discordgo.InteractionCreate, content string) {
	r.interactionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *Router) respondDeferred(i *discordgo.InteractionCreate) {
	r.interactionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (r *Router) interactionRespond(i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := r.bot.session.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error("discord: interaction respond failed", "err", err)
	}
}

func (r *Router) followup(i *discordgo.InteractionCreate, content string) {
	if _, err := r.bot.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	}); err != nil {
		slog.Error("discord: followup failed", "err", err)
	}
}

// --- Pattern matchers ---

func matchesGreeting(text string) bool {
	patterns := []string{
		"hello", "hey", "howdy", "good morning", "good evening", "good night",
		"hiya", "heya", "what's up", "whats up",
	}
	return containsAny(text, patterns)
}

func matchesFeeding(text string) bool {
	patterns := []string{
		"feed", "food", "snack", "dinner", "lunch", "breakfast", "hungry", "nom",
	}
	return containsAny(text, patterns)
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
