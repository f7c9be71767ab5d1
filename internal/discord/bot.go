// Package discord presents the tank in a Discord channel: slash commands
// drive the simulation, embeds and templates render it.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/triops/internal/sim"
)

// Bot wraps the Discord session and manages slash commands, messages, and presence.
type Bot struct {
	session   *discordgo.Session
	channelID string
	ownerIDs  map[string]bool

	router *Router
	intro  sync.Once

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBot creates and configures a Discord bot (does not connect yet).
func NewBot(token, channelID string, ownerIDs []string) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("invalid bot token: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuilds

	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}

	return &Bot{
		session:   session,
		channelID: channelID,
		ownerIDs:  owners,
	}, nil
}

// SetRouter wires the router to handle messages and interactions.
func (b *Bot) SetRouter(r *Router) {
	b.router = r
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onReady)
}

// Start opens the Discord connection and registers slash commands.
// Blocks until context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	slog.Info("discord: connected", "user", b.session.State.User.Username)

	b.registerCommands()

	<-ctx.Done()
	slog.Info("discord: shutting down")
	return b.session.Close()
}

// Stop cancels a running Start.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

// ChannelID returns the configured channel ID.
func (b *Bot) ChannelID() string {
	return b.channelID
}

// SendMessage sends a text message to a channel.
func (b *Bot) SendMessage(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		slog.Error("discord: send message failed", "err", err)
	}
}

// SendEmbed sends an embed to a channel.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("discord: send embed failed", "err", err)
	}
}

// UpdatePresence sets the bot's Discord status based on the organism's mood.
func (b *Bot) UpdatePresence(mood string) {
	status, activity := moodToPresence(mood)
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{
			{
				Name: activity,
				Type: discordgo.ActivityTypeCustom,
			},
		},
	})
	if err != nil {
		slog.Debug("discord: update presence failed", "err", err)
	}
}

// IsOwner checks if a user ID is in the owner list.
func (b *Bot) IsOwner(userID string) bool {
	return b.ownerIDs[userID]
}

// SendIntroduction posts the specimen's first message in the channel.
func (b *Bot) SendIntroduction(snap sim.Snapshot) {
	b.SendMessage(b.channelID, TemplateIntroduction(snap))
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord: ready", "user", r.User.Username, "guilds", len(r.Guilds))
	if b.router != nil {
		b.intro.Do(func() { b.SendIntroduction(b.router.tank.Snapshot()) })
	}
}

// BotUserID returns the bot's own user ID.
func (b *Bot) BotUserID() string {
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}

// IsMentioned checks if the bot was @mentioned in the message.
func (b *Bot) IsMentioned(m *discordgo.MessageCreate) bool {
	for _, u := range m.Mentions {
		if u.ID == b.BotUserID() {
			return true
		}
	}
	return false
}

// StripMention removes the bot's @mention from message text.
func (b *Bot) StripMention(text string) string {
	botID := b.BotUserID()
	// Discord mentions look like <@123456> or <@!123456>
	text = strings.ReplaceAll(text, "<@"+botID+">", "")
	text = strings.ReplaceAll(text, "<@!"+botID+">", "")
	return strings.TrimSpace(text)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if m.ChannelID != b.channelID {
		return
	}
	if b.router != nil {
		b.router.HandleMessage(m)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if b.router != nil {
		b.router.HandleInteraction(i)
	}
}

// Commands is the slash command set registered at startup.
var Commands = []*discordgo.ApplicationCommand{
	{Name: "status", Description: "Check the specimen's vitals and the tank"},
	{Name: "log", Description: "Show the recent research log"},
	{Name: "feed", Description: "Drop food into the tank"},
	{Name: "clean", Description: "Filter the tank water"},
	{Name: "aerate", Description: "Run the air stone to restore oxygen"},
	{Name: "light", Description: "Toggle the tank light"},
	{
		Name:        "temp",
		Description: "Adjust the heater",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "delta",
				Description: "Degrees Celsius to add (negative to cool)",
				Required:    true,
			},
		},
	},
	{Name: "disturb", Description: "Tap the glass"},
	{Name: "restart", Description: "Start over with a new specimen"},
	{Name: "thought", Description: "Ask what the specimen is thinking"},
	{Name: "fact", Description: "Learn a fact about tadpole shrimp"},
	{Name: "help", Description: "Show available commands"},
}

func (b *Bot) registerCommands() {
	appID := b.session.State.User.ID
	for _, cmd := range Commands {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			slog.Error("discord: failed to register command", "cmd", cmd.Name, "err", err)
		} else {
			slog.Info("discord: registered command", "cmd", cmd.Name)
		}
	}
}

func moodToPresence(mood string) (status, activity string) {
	switch mood {
	case "thriving":
		return "online", "digging happily"
	case "content":
		return "online", "drifting around"
	case "dormant":
		return "idle", "waiting to hatch"
	case "molting":
		return "idle", "shedding the old shell"
	case "hungry":
		return "idle", "getting hungry..."
	case "murky":
		return "idle", "can't see a thing"
	case "uncomfortable":
		return "dnd", "water temperature is off"
	case "suffocating":
		return "dnd", "needs oxygen!"
	case "sick":
		return "dnd", "need help..."
	case "dead":
		return "invisible", ""
	default:
		return "online", "drifting around"
	}
}
