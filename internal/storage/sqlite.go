package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voltcraft/certify/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		form TEXT NOT NULL,
		items TEXT,
		results TEXT,
		validation TEXT NOT NULL,
		metrics TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		agents TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveReport inserts a validation run. CreatedAt is set here.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *models.StoredReport) error {
	formJSON, err := json.Marshal(report.Form)
	if err != nil {
		return fmt.Errorf("failed to marshal form: %w", err)
	}
	itemsJSON, err := json.Marshal(report.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	resultsJSON, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	validationJSON, err := json.Marshal(report.Validation)
	if err != nil {
		return fmt.Errorf("failed to marshal validation: %w", err)
	}
	metricsJSON, err := json.Marshal(report.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	report.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, form, items, results, validation, metrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID, formJSON, itemsJSON, resultsJSON, validationJSON, metricsJSON, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// GetReport fetches a report by id.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*models.StoredReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, form, items, results, validation, metrics, created_at FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

// ListReports returns the most recent reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]*models.StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form, items, results, validation, metrics, created_at
		 FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.StoredReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// CountReports returns the number of stored reports.
func (s *SQLiteStore) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// SaveSession inserts an orchestration session summary.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.Session) error {
	agentsJSON, err := json.Marshal(session.Agents)
	if err != nil {
		return fmt.Errorf("failed to marshal agents: %w", err)
	}
	session.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, query, agents, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Query, agentsJSON, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.StoredReport, error) {
	var (
		r                                                models.StoredReport
		formJSON, itemsJSON, resultsJSON, valJSON, mJSON []byte
	)
	err := row.Scan(&r.ID, &formJSON, &itemsJSON, &resultsJSON, &valJSON, &mJSON, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	if err := json.Unmarshal(formJSON, &r.Form); err != nil {
		return nil, fmt.Errorf("failed to unmarshal form: %w", err)
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &r.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
	}
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &r.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}
	if err := json.Unmarshal(valJSON, &r.Validation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation: %w", err)
	}
	if err := json.Unmarshal(mJSON, &r.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	return &r, nil
}
