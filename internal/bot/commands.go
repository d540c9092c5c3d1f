package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/PandaWhoCodes/discord-personality-check/internal/export"
	"github.com/PandaWhoCodes/discord-personality-check/internal/session"
	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

type textCommandFunc func(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error

// buildTextCommands assembles the trigger-to-handler table consulted by
// the message handler. Built once at startup; triggers are matched
// against the lowercased, trimmed message body.
func (b *Bot) buildTextCommands() map[string]textCommandFunc {
	return map[string]textCommandFunc{
		"start test":       b.cmdStartFull,
		"start dummy test": b.cmdStartQuick,
		"restart test":     b.cmdRestart,
		"my results":       b.cmdMyResults,
		"retry save":       b.cmdRetrySave,
		"export results":   b.cmdExportResults,
	}
}

func (b *Bot) cmdStartFull(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	return b.startTest(ctx, s, m, models.VariantFull)
}

func (b *Bot) cmdStartQuick(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	return b.startTest(ctx, s, m, models.VariantQuick)
}

func (b *Bot) startTest(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, variant models.Variant) error {
	resumed, err := b.manager.Start(ctx, m.Author.ID, m.Author.Username, variant, m.ChannelID)
	if err != nil {
		return err
	}
	if resumed {
		_, err = s.ChannelMessageSend(m.ChannelID,
			"⚠️ You already have a test in progress, picking up where you left off. Type 'restart test' to start over.")
	}
	return err
}

// cmdRestart discards any in-progress session and starts the full test
// from question one.
func (b *Bot) cmdRestart(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	return b.manager.Restart(ctx, m.Author.ID, m.Author.Username, models.VariantFull, m.ChannelID)
}

func (b *Bot) cmdMyResults(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	results, err := b.results.GetByUserID(ctx, m.Author.ID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		_, err = s.ChannelMessageSend(m.ChannelID,
			"You haven't completed a test yet. Type 'start test' to take one!")
		return err
	}

	var sb strings.Builder
	sb.WriteString("**Your past results (newest first):**\n")
	for n, result := range results {
		if n == 5 {
			sb.WriteString(fmt.Sprintf("…and %d more.\n", len(results)-n))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s test) on %s\n",
			n+1, result.TypeCode, result.TestType,
			result.CompletedAt.Format("Jan 2, 2006")))
	}
	_, err = s.ChannelMessageSend(m.ChannelID, sb.String())
	return err
}

// cmdRetrySave re-attempts persisting a result whose save failed. The
// result message (or another failure notice) is delivered by the
// presenter.
func (b *Bot) cmdRetrySave(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	err := b.manager.RetrySave(ctx, m.Author.ID)
	if errors.Is(err, session.ErrNoPending) {
		_, err = s.ChannelMessageSend(m.ChannelID, "There's no unsaved result to retry.")
	}
	return err
}

func (b *Bot) cmdExportResults(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	if !b.cfg.IsAdmin(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, "Sorry, that command is for admins only.")
		return err
	}
	results, err := b.results.GetAll(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Results(&buf, results); err != nil {
		return err
	}
	_, err = s.ChannelFileSend(m.ChannelID, "test_results.xlsx", &buf)
	return err
}
