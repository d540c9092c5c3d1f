// Package analytics records message metadata for later insight queries.
// It is pure logging: a failure here must never break command handling.
package analytics

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// MessageStore persists message metadata records.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
}

// Recorder extracts analytics metadata from Discord messages.
type Recorder struct {
	store  MessageStore
	logger *zap.Logger
}

// NewRecorder creates a recorder backed by the given store.
func NewRecorder(store MessageStore, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// StoreMessage captures one message's metadata. Errors are logged and
// swallowed.
func (r *Recorder) StoreMessage(ctx context.Context, m *discordgo.MessageCreate, channelName string) {
	msg := FromDiscord(m, channelName)
	if err := r.store.Create(ctx, msg); err != nil {
		r.logger.Error("failed to store message",
			zap.String("message_id", msg.MessageID),
			zap.Error(err))
		return
	}
	r.logger.Debug("stored message",
		zap.String("message_id", msg.MessageID),
		zap.String("user", msg.Username),
		zap.Bool("dm", msg.IsDM))
}

// FromDiscord maps a gateway message event to the analytics record.
func FromDiscord(m *discordgo.MessageCreate, channelName string) *models.Message {
	isDM := m.GuildID == ""
	if isDM && channelName == "" {
		channelName = "DM"
	}

	var replyTo string
	if ref := m.MessageReference; ref != nil {
		replyTo = ref.MessageID
	}

	var edited *time.Time
	if m.EditedTimestamp != nil {
		t := *m.EditedTimestamp
		edited = &t
	}

	// Guild name is not on the message payload; the server id is enough
	// for the analytics queries we run.
	return &models.Message{
		MessageID:      m.ID,
		UserID:         m.Author.ID,
		Username:       m.Author.Username,
		Text:           m.Content,
		ChannelID:      m.ChannelID,
		ChannelName:    channelName,
		ServerID:       m.GuildID,
		IsDM:           isDM,
		Length:         utf8.RuneCountInString(m.Content),
		HasAttachments: len(m.Attachments) > 0,
		HasEmbeds:      len(m.Embeds) > 0,
		HasMentions:    len(m.Mentions) > 0,
		ReplyToID:      replyTo,
		CreatedAt:      m.Timestamp,
		EditedAt:       edited,
	}
}
