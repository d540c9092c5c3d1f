// Package bot is the Discord-facing layer: slash commands, text commands,
// answer buttons, and result delivery. All test semantics live in the
// session manager; this package only translates Discord events into
// orchestrator calls and orchestrator handoffs into Discord messages.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/analytics"
	"github.com/PandaWhoCodes/discord-personality-check/internal/config"
	"github.com/PandaWhoCodes/discord-personality-check/internal/content"
	"github.com/PandaWhoCodes/discord-personality-check/internal/database"
	"github.com/PandaWhoCodes/discord-personality-check/internal/session"
)

// Bot wires the Discord gateway to the session orchestrator.
type Bot struct {
	discord  *discordgo.Session
	cfg      *config.Config
	manager  *session.Manager
	content  *content.Store
	results  *database.ResultRepository
	recorder *analytics.Recorder
	logger   *zap.Logger

	textCommands map[string]textCommandFunc
}

// New creates the bot and its session manager. The Discord connection is
// not opened until Start.
func New(cfg *config.Config, store *content.Store, logger *zap.Logger) (*Bot, error) {
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		discord:  discord,
		cfg:      cfg,
		content:  store,
		results:  database.NewResultRepository(),
		recorder: analytics.NewRecorder(database.NewMessageRepository(), logger),
		logger:   logger,
	}
	b.manager = session.New(store, b.results, &presenter{discord: discord, logger: logger}, logger, cfg.SessionTTL)
	b.textCommands = b.buildTextCommands()

	discord.AddHandler(b.onReady)
	discord.AddHandler(b.onMessageCreate)
	discord.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Manager exposes the session manager for background tasks.
func (b *Bot) Manager() *session.Manager {
	return b.manager
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.discord.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := b.registerSlashCommands(s); err != nil {
		b.logger.Error("failed to register slash commands", zap.Error(err))
	}
	b.logger.Info("bot ready",
		zap.String("user", r.User.Username),
		zap.String("id", r.User.ID))
}

func (b *Bot) registerSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "personality",
			Description: "Take the full 44-question personality test",
		},
		{
			Name:        "personality-quick",
			Description: "Take a quick 5-question personality test",
		},
	}
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, b.cfg.GuildID, cmd); err != nil {
			return fmt.Errorf("failed to register /%s: %w", cmd.Name, err)
		}
	}
	b.logger.Info("slash commands registered",
		zap.Int("count", len(commands)),
		zap.String("guild", b.cfg.GuildID))
	return nil
}

// interactionUser returns the invoking user for both guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (b *Bot) storeMessage(m *discordgo.MessageCreate) {
	// Fire and forget: analytics must never block or break commands.
	go b.recorder.StoreMessage(context.Background(), m, b.channelName(m.ChannelID))
}

func (b *Bot) channelName(channelID string) string {
	if ch, err := b.discord.State.Channel(channelID); err == nil {
		return ch.Name
	}
	return ""
}
