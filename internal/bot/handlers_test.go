package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

func TestParseAnswerID(t *testing.T) {
	userID, questionID, label, err := parseAnswerID("answer:123456:7:B")
	require.NoError(t, err)
	assert.Equal(t, "123456", userID)
	assert.Equal(t, 7, questionID)
	assert.Equal(t, "B", label)
}

func TestParseAnswerIDRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"answer",
		"answer:123:7",
		"answer:123:7:B:extra",
		"vote:123:7:B",
		"answer:123:seven:B",
		"answer::7:B",
		"answer:123:7:",
	}
	for _, customID := range cases {
		_, _, _, err := parseAnswerID(customID)
		assert.Error(t, err, "custom id %q", customID)
	}
}

func TestAnswerIDRoundTripsThroughButton(t *testing.T) {
	// The presenter builds ids exactly the way the handler parses them.
	customID := "answer:99:12:C"
	userID, questionID, label, err := parseAnswerID(customID)
	require.NoError(t, err)
	assert.Equal(t, "99", userID)
	assert.Equal(t, 12, questionID)
	assert.Equal(t, "C", label)
}

type fakeDMSender struct {
	createErr error
	sendErr   error
	sentTo    []string
}

func (f *fakeDMSender) UserChannelCreate(string, ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &discordgo.Channel{ID: "dm1"}, nil
}

func (f *fakeDMSender) ChannelMessageSend(channelID, _ string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentTo = append(f.sentTo, channelID)
	return &discordgo.Message{}, nil
}

func TestResolveTestChannelPrefersDM(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}
	sender := &fakeDMSender{}

	channelID, notice := b.resolveTestChannel(sender, "u1", "guild-chan")
	assert.Equal(t, "dm1", channelID)
	assert.Contains(t, notice, "Check your DMs")
	assert.Equal(t, []string{"dm1"}, sender.sentTo)
}

func TestResolveTestChannelFallsBackWhenDMsClosed(t *testing.T) {
	// Discord creates the DM channel even for users who disallow DMs;
	// the 403 only arrives on the first send.
	b := &Bot{logger: zap.NewNop()}
	sender := &fakeDMSender{sendErr: errors.New("HTTP 403 Forbidden, cannot send messages to this user")}

	channelID, notice := b.resolveTestChannel(sender, "u1", "guild-chan")
	assert.Equal(t, "guild-chan", channelID)
	assert.Contains(t, notice, "couldn't DM you")
}

func TestResolveTestChannelFallsBackWhenCreateFails(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}
	sender := &fakeDMSender{createErr: errors.New("HTTP 400 Bad Request")}

	channelID, notice := b.resolveTestChannel(sender, "u1", "guild-chan")
	assert.Equal(t, "guild-chan", channelID)
	assert.Contains(t, notice, "right here")
	assert.Empty(t, sender.sentTo)
}

func TestDisableComponents(t *testing.T) {
	components := []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{Label: "A", CustomID: "answer:1:1:A"},
				&discordgo.Button{Label: "B", CustomID: "answer:1:1:B"},
			},
		},
	}

	out := disableComponents(components)
	require.Len(t, out, 1)
	row, ok := out[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)
	for _, item := range row.Components {
		btn, ok := item.(discordgo.Button)
		require.True(t, ok)
		assert.True(t, btn.Disabled)
	}

	// The originals are untouched.
	original := components[0].(*discordgo.ActionsRow).Components[0].(*discordgo.Button)
	assert.False(t, original.Disabled)
}

func TestFormatResultMessage(t *testing.T) {
	result := &models.Result{
		TypeCode: "ENTP",
		Scores: models.Scores{
			"E": 22, "I": 0, "S": 0, "N": 22,
			"T": 11, "F": 0, "J": 0, "P": 11,
		},
		Profile: models.Profile{
			Description: "The Debater thrives on intellectual sparring.",
			Characters:  []string{"Tyrion Lannister (Game of Thrones)", "Jack Sparrow (Pirates of the Caribbean)", "A third one"},
			Gifts:       []string{"Quick thinking", "Wordplay", "Improvisation", "A fourth one"},
			Suggestions: []string{"Finish what you start", "Listen more", "A third one"},
		},
	}

	msg := formatResultMessage(result)
	assert.Contains(t, msg, "**Your Personality Type: ENTP**")
	assert.Contains(t, msg, "The Debater thrives on intellectual sparring.")
	assert.Contains(t, msg, "Tyrion Lannister (Game of Thrones)")
	assert.Contains(t, msg, "Jack Sparrow (Pirates of the Caribbean)")
	assert.Contains(t, msg, "Improvisation")
	assert.Contains(t, msg, "Listen more")
	assert.Contains(t, msg, "E:22 I:0 S:0 N:22 T:11 F:0 J:0 P:11")

	// Lists are trimmed to the card limits.
	assert.NotContains(t, msg, "A third one")
	assert.NotContains(t, msg, "A fourth one")
}

func TestBuildTextCommandsCoversAllTriggers(t *testing.T) {
	b := &Bot{}
	commands := b.buildTextCommands()

	for _, trigger := range []string{
		"start test",
		"start dummy test",
		"restart test",
		"my results",
		"retry save",
		"export results",
	} {
		assert.Contains(t, commands, trigger)
	}
	assert.Len(t, commands, 6)
}

func TestInteractionUser(t *testing.T) {
	guildUser := &discordgo.User{ID: "1", Username: "alice"}
	dmUser := &discordgo.User{ID: "2", Username: "bob"}

	fromGuild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: guildUser},
	}}
	assert.Equal(t, guildUser, interactionUser(fromGuild))

	fromDM := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: dmUser}}
	assert.Equal(t, dmUser, interactionUser(fromDM))
}

func TestFirstN(t *testing.T) {
	items := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, firstN(items, 2))
	assert.Equal(t, items, firstN(items, 3))
	assert.Equal(t, items, firstN(items, 5))
	assert.Empty(t, firstN(nil, 2))
}
