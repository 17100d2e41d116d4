package utils

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// EcoTip is one user-submitted greener-driving tip, optionally tagged with
// the prediction the user received when they submitted it.
type EcoTip struct {
	ID        string    `json:"id"`
	Tip       string    `json:"tip"`
	Predicted *float64  `json:"predicted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TipsStore persists user eco tips in SQLite. It lives beside the predict
// path, which stays free of side effects; only the tip endpoints write.
type TipsStore struct {
	db   *sql.DB
	path string
}

// NewTipsStore opens (creating if needed) the tips database.
func NewTipsStore(dbPath string) (*TipsStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	store := &TipsStore{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema
func (ts *TipsStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS eco_tips (
		id TEXT PRIMARY KEY,
		tip TEXT NOT NULL,
		predicted REAL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tips_created_at ON eco_tips(created_at);
	`
	_, err := ts.db.Exec(schema)
	return err
}

// Add stores one tip and returns it with its generated ID.
func (ts *TipsStore) Add(tip string, predicted *float64) (*EcoTip, error) {
	if tip == "" {
		return nil, fmt.Errorf("tip must not be empty")
	}
	if len(tip) > 160 {
		tip = tip[:160]
	}

	record := &EcoTip{
		ID:        uuid.New().String(),
		Tip:       tip,
		Predicted: predicted,
		CreatedAt: time.Now().UTC(),
	}

	_, err := ts.db.Exec(
		`INSERT INTO eco_tips (id, tip, predicted, created_at) VALUES (?, ?, ?, ?)`,
		record.ID, record.Tip, record.Predicted, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tip: %w", err)
	}

	return record, nil
}

// List returns the most recent tips, newest first.
func (ts *TipsStore) List(limit int) ([]EcoTip, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := ts.db.Query(
		`SELECT id, tip, predicted, created_at FROM eco_tips ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer rows.Close()

	tips := []EcoTip{}
	for rows.Next() {
		var tip EcoTip
		var predicted sql.NullFloat64
		if err := rows.Scan(&tip.ID, &tip.Tip, &predicted, &tip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		if predicted.Valid {
			tip.Predicted = &predicted.Float64
		}
		tips = append(tips, tip)
	}

	return tips, rows.Err()
}

// Close closes the underlying database.
func (ts *TipsStore) Close() error {
	return ts.db.Close()
}
