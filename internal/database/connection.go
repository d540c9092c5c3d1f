package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the backing store. With a Turso URL
// configured it talks to the remote libsql database, otherwise it opens a
// local SQLite file.
func Connect(tursoURL, tursoToken, localPath string) error {
	var (
		db  *sqlx.DB
		err error
	)
	if tursoURL != "" {
		dsn := tursoURL
		if tursoToken != "" {
			u, perr := url.Parse(tursoURL)
			if perr != nil {
				return fmt.Errorf("invalid turso url: %w", perr)
			}
			q := u.Query()
			q.Set("authToken", tursoToken)
			u.RawQuery = q.Encode()
			dsn = u.String()
		}
		db, err = sqlx.Connect("libsql", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to turso: %w", err)
		}
	} else {
		if dir := filepath.Dir(localPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", localPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS test_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			discord_user_id TEXT NOT NULL,
			discord_username TEXT NOT NULL,
			personality_type TEXT NOT NULL,
			test_type TEXT NOT NULL,
			scores TEXT NOT NULL,
			description TEXT,
			characters TEXT,
			gifts TEXT,
			suggestions TEXT,
			completed_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create test_results table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL UNIQUE,
			discord_user_id TEXT NOT NULL,
			discord_username TEXT NOT NULL,
			message_text TEXT NOT NULL,
			channel_id TEXT,
			channel_name TEXT,
			server_id TEXT,
			server_name TEXT,
			is_dm INTEGER NOT NULL,
			message_length INTEGER NOT NULL,
			has_attachments INTEGER NOT NULL,
			has_embeds INTEGER NOT NULL,
			has_mentions INTEGER NOT NULL,
			reply_to_message_id TEXT,
			created_at TIMESTAMP NOT NULL,
			edited_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_results_user ON test_results(discord_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_completed ON test_results(completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(discord_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
