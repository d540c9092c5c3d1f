package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/session"
	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// customIDPrefix namespaces answer buttons; the full custom id is
// answer:<userID>:<questionID>:<label>.
const customIDPrefix = "answer"

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	b.storeMessage(m)

	trigger := strings.ToLower(strings.TrimSpace(m.Content))
	handler, ok := b.textCommands[trigger]
	if !ok {
		return
	}
	b.logger.Info("text command",
		zap.String("trigger", trigger),
		zap.String("user", m.Author.Username))
	if err := handler(context.Background(), s, m); err != nil {
		b.logger.Error("text command failed",
			zap.String("trigger", trigger),
			zap.Error(err))
		_, _ = s.ChannelMessageSend(m.ChannelID,
			"❌ An error occurred while processing your command. Please try again.")
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleAnswerButton(s, i)
	}
}

func (b *Bot) handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var variant models.Variant
	switch i.ApplicationCommandData().Name {
	case "personality":
		variant = models.VariantFull
	case "personality-quick":
		variant = models.VariantQuick
	default:
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		b.logger.Error("failed to ack interaction", zap.Error(err))
		return
	}

	ctx := context.Background()

	channelID, notice := b.resolveTestChannel(s, user.ID, i.ChannelID)

	resumed, err := b.manager.Start(ctx, user.ID, user.Username, variant, channelID)
	if err != nil {
		b.logger.Error("failed to start test",
			zap.String("user_id", user.ID),
			zap.Error(err))
		b.followupEphemeral(s, i, "❌ An error occurred while starting the test. Please try again.")
		return
	}
	if resumed {
		notice = "⚠️ You already have a test in progress, picking up where you left off."
	}
	b.followupEphemeral(s, i, notice)
}

func (b *Bot) handleAnswerButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ownerID, questionID, label, err := parseAnswerID(i.MessageComponentData().CustomID)
	if err != nil {
		b.logger.Warn("unparseable component id",
			zap.String("custom_id", i.MessageComponentData().CustomID))
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}
	if user.ID != ownerID {
		b.respondEphemeral(s, i, "This is not your test!")
		return
	}

	// Disable the answered row first so double clicks have nothing left
	// to press.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    i.Message.Content,
			Components: disableComponents(i.Message.Components),
		},
	}); err != nil {
		b.logger.Error("failed to update answered message", zap.Error(err))
	}

	err = b.manager.Answer(context.Background(), user.ID, questionID, label)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNoSession):
		b.followupEphemeral(s, i,
			"You don't have a test in progress. Type 'start test' or use /personality to begin.")
	case errors.Is(err, session.ErrStaleAnswer):
		// Duplicate or out-of-order click; the session is untouched.
		b.logger.Info("stale answer ignored",
			zap.String("user_id", user.ID),
			zap.Int("question_id", questionID))
	default:
		b.logger.Error("failed to apply answer",
			zap.String("user_id", user.ID),
			zap.Error(err))
		b.followupEphemeral(s, i, "❌ Something went wrong recording that answer.")
	}
}

// dmSender is the slice of discordgo.Session needed to pick a test channel.
type dmSender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// resolveTestChannel picks where the test runs. Tests prefer DMs, but
// Discord creates the DM channel even for users who disallow DMs; the
// rejection only surfaces on the first send. Probe with a greeting before
// binding the session, so closed DMs fall back to the invoking channel
// instead of leaving the session pointed at an unreachable channel.
func (b *Bot) resolveTestChannel(s dmSender, userID, invokingChannelID string) (channelID, notice string) {
	dm, err := s.UserChannelCreate(userID)
	if err != nil {
		b.logger.Warn("DM channel unavailable, using invoking channel",
			zap.String("user_id", userID),
			zap.Error(err))
		return invokingChannelID, "✅ Starting the test right here."
	}
	if _, err := s.ChannelMessageSend(dm.ID, "👋 Let's find out your personality type!"); err != nil {
		b.logger.Warn("DMs closed, using invoking channel",
			zap.String("user_id", userID),
			zap.Error(err))
		return invokingChannelID, "⚠️ I couldn't DM you, so the test will run right here."
	}
	return dm.ID, "✅ Check your DMs! I've started the test there."
}

// parseAnswerID splits answer:<userID>:<questionID>:<label>.
func parseAnswerID(customID string) (userID string, questionID int, label string, err error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 4 || parts[0] != customIDPrefix {
		return "", 0, "", fmt.Errorf("unexpected custom id %q", customID)
	}
	questionID, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, "", fmt.Errorf("bad question id in %q: %w", customID, err)
	}
	if parts[1] == "" || parts[3] == "" {
		return "", 0, "", fmt.Errorf("empty field in custom id %q", customID)
	}
	return parts[1], questionID, parts[3], nil
}

// disableComponents returns a copy of the message components with every
// button disabled.
func disableComponents(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			out = append(out, c)
			continue
		}
		newRow := discordgo.ActionsRow{}
		for _, item := range row.Components {
			if btn, ok := item.(*discordgo.Button); ok {
				copied := *btn
				copied.Disabled = true
				newRow.Components = append(newRow.Components, copied)
			} else {
				newRow.Components = append(newRow.Components, item)
			}
		}
		out = append(out, newRow)
	}
	return out
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("failed to respond", zap.Error(err))
	}
}

func (b *Bot) followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		b.logger.Error("failed to send followup", zap.Error(err))
	}
}
