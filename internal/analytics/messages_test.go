package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/analytics"
	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

type fakeStore struct {
	saved []*models.Message
	err   error
}

func (s *fakeStore) Create(_ context.Context, msg *models.Message) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, msg)
	return nil
}

func guildMessage() *discordgo.MessageCreate {
	edited := time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC)
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		Content:   "start test",
		ChannelID: "c1",
		GuildID:   "g1",
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
		Mentions:  []*discordgo.User{{ID: "u2"}},
		MessageReference: &discordgo.MessageReference{
			MessageID: "m0",
		},
		Timestamp:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		EditedTimestamp: &edited,
	}}
}

func TestFromDiscordGuildMessage(t *testing.T) {
	msg := analytics.FromDiscord(guildMessage(), "general")

	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, "alice", msg.Username)
	assert.Equal(t, "start test", msg.Text)
	assert.Equal(t, "general", msg.ChannelName)
	assert.Equal(t, "g1", msg.ServerID)
	assert.False(t, msg.IsDM)
	assert.Equal(t, len("start test"), msg.Length)
	assert.True(t, msg.HasMentions)
	assert.False(t, msg.HasAttachments)
	assert.False(t, msg.HasEmbeds)
	assert.Equal(t, "m0", msg.ReplyToID)
	require.NotNil(t, msg.EditedAt)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC), *msg.EditedAt)
}

func TestFromDiscordLengthCountsRunes(t *testing.T) {
	m := guildMessage()
	m.Content = "héllo 👋"

	msg := analytics.FromDiscord(m, "general")
	assert.Equal(t, 7, msg.Length)
}

func TestFromDiscordDirectMessage(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m2",
		Content:   "my results",
		ChannelID: "dm1",
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
		Timestamp: time.Now().UTC(),
	}}

	msg := analytics.FromDiscord(m, "")
	assert.True(t, msg.IsDM)
	assert.Equal(t, "DM", msg.ChannelName)
	assert.Empty(t, msg.ServerID)
	assert.Empty(t, msg.ReplyToID)
	assert.Nil(t, msg.EditedAt)
}

func TestStoreMessagePersists(t *testing.T) {
	store := &fakeStore{}
	rec := analytics.NewRecorder(store, zap.NewNop())

	rec.StoreMessage(context.Background(), guildMessage(), "general")
	require.Len(t, store.saved, 1)
	assert.Equal(t, "m1", store.saved[0].MessageID)
}

func TestStoreMessageSwallowsErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("database unreachable")}
	rec := analytics.NewRecorder(store, zap.NewNop())

	// Must not panic or propagate.
	rec.StoreMessage(context.Background(), guildMessage(), "general")
	assert.Empty(t, store.saved)
}
