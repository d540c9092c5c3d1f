package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/session"
	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// presenter renders orchestrator handoffs as Discord messages. Send
// failures are logged, not propagated: session state has already
// committed by the time these run.
type presenter struct {
	discord *discordgo.Session
	logger  *zap.Logger
}

var _ session.Presenter = (*presenter)(nil)

func (p *presenter) PresentQuestion(ctx context.Context, channelID, userID string, prompt session.Prompt) {
	var sb strings.Builder
	switch {
	case prompt.Resumed:
		sb.WriteString("**Resuming your test.**\n\n")
	case prompt.Number == 1 && prompt.Variant == models.VariantQuick:
		sb.WriteString(fmt.Sprintf("**Quick Personality Test Started!** (%d questions)\n\n", prompt.Total))
	case prompt.Number == 1:
		sb.WriteString("**Full Personality Test Started!**\n\n")
	}
	sb.WriteString(fmt.Sprintf("Question %d/%d: %s\n\n", prompt.Number, prompt.Total, prompt.Question.Text))
	for _, opt := range prompt.Question.Options {
		sb.WriteString(fmt.Sprintf("%s) %s\n", opt.Label, opt.Text))
	}

	buttons := make([]discordgo.MessageComponent, 0, len(prompt.Question.Options))
	for _, opt := range prompt.Question.Options {
		buttons = append(buttons, discordgo.Button{
			Label:    opt.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s:%s:%d:%s", customIDPrefix, userID, prompt.Question.ID, opt.Label),
		})
	}

	_, err := p.discord.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    sb.String(),
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	})
	if err != nil {
		p.logger.Error("failed to send question",
			zap.String("channel_id", channelID),
			zap.String("user_id", userID),
			zap.Int("question_id", prompt.Question.ID),
			zap.Error(err))
	}
}

func (p *presenter) PresentResult(ctx context.Context, channelID string, result *models.Result) {
	if _, err := p.discord.ChannelMessageSend(channelID, formatResultMessage(result)); err != nil {
		p.logger.Error("failed to send result",
			zap.String("channel_id", channelID),
			zap.String("user_id", result.UserID),
			zap.Error(err))
	}
}

func (p *presenter) PresentSaveFailure(ctx context.Context, channelID string, result *models.Result) {
	msg := fmt.Sprintf(
		"**Test Complete!** Your personality type is **%s**.\n\n"+
			"⚠️ I couldn't save your result just now. Type 'retry save' and I'll try again.",
		result.TypeCode)
	if _, err := p.discord.ChannelMessageSend(channelID, msg); err != nil {
		p.logger.Error("failed to send save-failure notice",
			zap.String("channel_id", channelID),
			zap.String("user_id", result.UserID),
			zap.Error(err))
	}
}

// formatResultMessage mirrors the result card: type code, profile
// content, and raw axis totals.
func formatResultMessage(result *models.Result) string {
	var sb strings.Builder
	sb.WriteString("**Test Complete!**\n\n")
	sb.WriteString(fmt.Sprintf("**Your Personality Type: %s**\n\n", result.TypeCode))
	sb.WriteString(result.Profile.Description + "\n\n")

	sb.WriteString("**Notable Characters:**\n")
	for _, c := range firstN(result.Profile.Characters, 2) {
		sb.WriteString("• " + c + "\n")
	}

	sb.WriteString("\n**Your Gifts:**\n")
	for _, g := range firstN(result.Profile.Gifts, 3) {
		sb.WriteString("• " + g + "\n")
	}

	sb.WriteString("\n**Suggestions:**\n")
	for _, s := range firstN(result.Profile.Suggestions, 2) {
		sb.WriteString("• " + s + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n**Axis Scores:** %s\n", result.Scores))
	sb.WriteString("\n✅ Your results have been saved!\n")
	sb.WriteString("\nType 'start test' for the full test or 'start dummy test' for a quick one!")
	return sb.String()
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
