package database

import (
	"context"
	"fmt"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// MessageRepository handles database operations for message analytics
type MessageRepository struct{}

// NewMessageRepository creates a new repository instance
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// Create inserts one message metadata record. Duplicate message ids are
// rejected by the unique index, which makes redelivered gateway events
// harmless.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO messages (
			message_id, discord_user_id, discord_username, message_text,
			channel_id, channel_name, server_id, server_name, is_dm,
			message_length, has_attachments, has_embeds, has_mentions,
			reply_to_message_id, created_at, edited_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		msg.MessageID, msg.UserID, msg.Username, msg.Text,
		msg.ChannelID, msg.ChannelName, msg.ServerID, msg.ServerName,
		boolToInt(msg.IsDM), msg.Length, boolToInt(msg.HasAttachments),
		boolToInt(msg.HasEmbeds), boolToInt(msg.HasMentions),
		msg.ReplyToID, msg.CreatedAt, msg.EditedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// CountByUserID returns how many messages have been recorded for a user
func (r *MessageRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM messages WHERE discord_user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
