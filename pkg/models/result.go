package models

import "time"

// Result is a finalized test outcome. Results are append-only: a user may
// have any number of historical results, and the profile content is
// snapshotted at completion time so later content edits do not rewrite
// history.
type Result struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"discord_user_id" db:"discord_user_id"`
	Username    string    `json:"discord_username" db:"discord_username"`
	TypeCode    string    `json:"personality_type" db:"personality_type"`
	TestType    Variant   `json:"test_type" db:"test_type"`
	Scores      Scores    `json:"scores" db:"-"`
	Profile     Profile   `json:"profile" db:"-"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}
