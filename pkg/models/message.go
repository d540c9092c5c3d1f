package models

import "time"

// Message is one Discord message's metadata captured for analytics.
type Message struct {
	ID             int64      `json:"id" db:"id"`
	MessageID      string     `json:"message_id" db:"message_id"`
	UserID         string     `json:"discord_user_id" db:"discord_user_id"`
	Username       string     `json:"discord_username" db:"discord_username"`
	Text           string     `json:"message_text" db:"message_text"`
	ChannelID      string     `json:"channel_id" db:"channel_id"`
	ChannelName    string     `json:"channel_name" db:"channel_name"`
	ServerID       string     `json:"server_id" db:"server_id"`
	ServerName     string     `json:"server_name" db:"server_name"`
	IsDM           bool       `json:"is_dm" db:"is_dm"`
	Length         int        `json:"message_length" db:"message_length"`
	HasAttachments bool       `json:"has_attachments" db:"has_attachments"`
	HasEmbeds      bool       `json:"has_embeds" db:"has_embeds"`
	HasMentions    bool       `json:"has_mentions" db:"has_mentions"`
	ReplyToID      string     `json:"reply_to_message_id" db:"reply_to_message_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	EditedAt       *time.Time `json:"edited_at" db:"edited_at"`
}
