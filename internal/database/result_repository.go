package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// ResultRepository handles database operations for test results
type ResultRepository struct{}

// NewResultRepository creates a new repository instance
func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

// resultRow is the flat table shape; scores and profile fields are stored
// as JSON text so historical results keep the content they were computed
// against.
type resultRow struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"discord_user_id"`
	Username    string    `db:"discord_username"`
	TypeCode    string    `db:"personality_type"`
	TestType    string    `db:"test_type"`
	Scores      string    `db:"scores"`
	Description string    `db:"description"`
	Characters  string    `db:"characters"`
	Gifts       string    `db:"gifts"`
	Suggestions string    `db:"suggestions"`
	CompletedAt time.Time `db:"completed_at"`
}

// Create inserts a new test result. The write is durable before the call
// returns; any error means the result was not persisted.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}
	row, err := toRow(result)
	if err != nil {
		return err
	}
	res, err := DB.ExecContext(ctx, `
		INSERT INTO test_results (
			discord_user_id, discord_username, personality_type, test_type,
			scores, description, characters, gifts, suggestions, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		row.UserID, row.Username, row.TypeCode, row.TestType,
		row.Scores, row.Description, row.Characters, row.Gifts,
		row.Suggestions, row.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save test result: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		result.ID = id
	}
	return nil
}

// GetByUserID returns all results for a user, newest first
func (r *ResultRepository) GetByUserID(ctx context.Context, userID string) ([]models.Result, error) {
	var rows []resultRow
	err := DB.SelectContext(ctx, &rows, `
		SELECT id, discord_user_id, discord_username, personality_type,
		       test_type, scores, description, characters, gifts,
		       suggestions, completed_at
		FROM test_results
		WHERE discord_user_id = ?
		ORDER BY completed_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}
	results := make([]models.Result, 0, len(rows))
	for _, row := range rows {
		result, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// GetAll returns every stored result, newest first
func (r *ResultRepository) GetAll(ctx context.Context) ([]models.Result, error) {
	var rows []resultRow
	err := DB.SelectContext(ctx, &rows, `
		SELECT id, discord_user_id, discord_username, personality_type,
		       test_type, scores, description, characters, gifts,
		       suggestions, completed_at
		FROM test_results
		ORDER BY completed_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}
	results := make([]models.Result, 0, len(rows))
	for _, row := range rows {
		result, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func toRow(result *models.Result) (resultRow, error) {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return resultRow{}, fmt.Errorf("failed to encode scores: %w", err)
	}
	characters, err := json.Marshal(result.Profile.Characters)
	if err != nil {
		return resultRow{}, fmt.Errorf("failed to encode characters: %w", err)
	}
	gifts, err := json.Marshal(result.Profile.Gifts)
	if err != nil {
		return resultRow{}, fmt.Errorf("failed to encode gifts: %w", err)
	}
	suggestions, err := json.Marshal(result.Profile.Suggestions)
	if err != nil {
		return resultRow{}, fmt.Errorf("failed to encode suggestions: %w", err)
	}
	return resultRow{
		UserID:      result.UserID,
		Username:    result.Username,
		TypeCode:    result.TypeCode,
		TestType:    string(result.TestType),
		Scores:      string(scores),
		Description: result.Profile.Description,
		Characters:  string(characters),
		Gifts:       string(gifts),
		Suggestions: string(suggestions),
		CompletedAt: result.CompletedAt,
	}, nil
}

func fromRow(row resultRow) (models.Result, error) {
	result := models.Result{
		ID:          row.ID,
		UserID:      row.UserID,
		Username:    row.Username,
		TypeCode:    row.TypeCode,
		TestType:    models.Variant(row.TestType),
		Profile:     models.Profile{Description: row.Description},
		CompletedAt: row.CompletedAt,
	}
	if err := json.Unmarshal([]byte(row.Scores), &result.Scores); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode scores for result %d: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Characters), &result.Profile.Characters); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode characters for result %d: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Gifts), &result.Profile.Gifts); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode gifts for result %d: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Suggestions), &result.Profile.Suggestions); err != nil {
		return models.Result{}, fmt.Errorf("failed to decode suggestions for result %d: %w", row.ID, err)
	}
	return result, nil
}
