package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Connect("", "", ":memory:"))
	t.Cleanup(func() {
		_ = Close()
		DB = nil
	})
}

func sampleResult(userID string, completedAt time.Time) *models.Result {
	return &models.Result{
		UserID:   userID,
		Username: "alice",
		TypeCode: "ENTP",
		TestType: models.VariantFull,
		Scores: models.Scores{
			"E": 22, "I": 0, "S": 0, "N": 22,
			"T": 11, "F": 0, "J": 0, "P": 11,
		},
		Profile: models.Profile{
			Description: "The Debater",
			Characters:  []string{"Tyrion Lannister (Game of Thrones)"},
			Gifts:       []string{"Quick thinking", "Wordplay"},
			Suggestions: []string{"Finish what you start"},
		},
		CompletedAt: completedAt,
	}
}

func TestResultRoundTrip(t *testing.T) {
	setupTestDB(t)
	repo := NewResultRepository()
	ctx := context.Background()

	completedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	result := sampleResult("u1", completedAt)
	require.NoError(t, repo.Create(ctx, result))
	assert.NotZero(t, result.ID)

	got, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, result.ID, got[0].ID)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "ENTP", got[0].TypeCode)
	assert.Equal(t, models.VariantFull, got[0].TestType)
	assert.Equal(t, result.Scores, got[0].Scores)
	assert.Equal(t, result.Profile, got[0].Profile)
	assert.True(t, got[0].CompletedAt.Equal(completedAt))
}

func TestGetByUserIDReturnsNewestFirst(t *testing.T) {
	setupTestDB(t)
	repo := NewResultRepository()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, sampleResult("u1", base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, repo.Create(ctx, sampleResult("other", base)))

	got, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].CompletedAt.Before(got[i].CompletedAt))
	}
}

func TestGetByUserIDEmpty(t *testing.T) {
	setupTestDB(t)
	repo := NewResultRepository()

	got, err := repo.GetByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetAllSpansUsers(t *testing.T) {
	setupTestDB(t)
	repo := NewResultRepository()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, sampleResult("u1", base)))
	require.NoError(t, repo.Create(ctx, sampleResult("u2", base.Add(time.Hour))))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].UserID)
	assert.Equal(t, "u1", got[1].UserID)
}

func TestCreateFillsCompletedAt(t *testing.T) {
	setupTestDB(t)
	repo := NewResultRepository()

	result := sampleResult("u1", time.Time{})
	require.NoError(t, repo.Create(context.Background(), result))
	assert.False(t, result.CompletedAt.IsZero())
}

func TestMessageCreateAndCount(t *testing.T) {
	setupTestDB(t)
	repo := NewMessageRepository()
	ctx := context.Background()

	edited := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)
	msg := &models.Message{
		MessageID:      "m1",
		UserID:         "u1",
		Username:       "alice",
		Text:           "start test",
		ChannelID:      "c1",
		ChannelName:    "general",
		ServerID:       "g1",
		IsDM:           false,
		Length:         10,
		HasAttachments: false,
		HasEmbeds:      false,
		HasMentions:    true,
		CreatedAt:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		EditedAt:       &edited,
	}
	require.NoError(t, repo.Create(ctx, msg))
	require.NoError(t, repo.Create(ctx, &models.Message{
		MessageID: "m2",
		UserID:    "u1",
		Username:  "alice",
		Text:      "my results",
		IsDM:      true,
		Length:    10,
		CreatedAt: time.Date(2026, 8, 30, 12, 1, 0, 0, time.UTC),
	}))

	count, err := repo.CountByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMessageDuplicateIDRejected(t *testing.T) {
	setupTestDB(t)
	repo := NewMessageRepository()
	ctx := context.Background()

	msg := &models.Message{
		MessageID: "m1",
		UserID:    "u1",
		Username:  "alice",
		Text:      "hello",
		Length:    5,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, msg))
	assert.Error(t, repo.Create(ctx, msg))

	count, err := repo.CountByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
