package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/datainfa/compliance-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS assessments (
	id           TEXT PRIMARY KEY,
	organization TEXT NOT NULL,
	regulation   TEXT NOT NULL,
	industry     TEXT NOT NULL,
	responses    TEXT NOT NULL,
	results      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_assessments_regulation ON assessments(regulation);
CREATE INDEX IF NOT EXISTS idx_assessments_industry ON assessments(industry);
CREATE INDEX IF NOT EXISTS idx_assessments_organization ON assessments(organization);
CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	saved := *a
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	responsesJSON, err := json.Marshal(saved.Responses)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal responses")
	}
	resultsJSON, err := json.Marshal(saved.Results)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal results")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, organization, regulation, industry, responses, results, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.Organization, saved.Regulation, saved.Industry, string(responsesJSON), string(resultsJSON), saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert assessment")
	}
	return &saved, nil
}

func (s *SQLiteStore) CreateAssessments(ctx context.Context, assessments []model.Assessment) (int64, error) {
	if len(assessments) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assessments (id, organization, regulation, industry, responses, results, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var n int64
	for i := range assessments {
		a := assessments[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		responsesJSON, err := json.Marshal(a.Responses)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal responses")
		}
		resultsJSON, err := json.Marshal(a.Results)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal results")
		}
		if _, err := stmt.ExecContext(ctx, a.ID, a.Organization, a.Regulation, a.Industry, string(responsesJSON), string(resultsJSON), a.CreatedAt); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert assessment %s", a.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

func (s *SQLiteStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	var responsesJSON, resultsJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, organization, regulation, industry, responses, results, created_at FROM assessments WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Organization, &a.Regulation, &a.Industry, &responsesJSON, &resultsJSON, &a.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get assessment %s", id)
	}

	if err := json.Unmarshal([]byte(responsesJSON), &a.Responses); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal responses")
	}
	if err := json.Unmarshal([]byte(resultsJSON), &a.Results); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal results")
	}
	return &a, nil
}

func (s *SQLiteStore) ListAssessments(ctx context.Context, filter Filter) ([]model.Assessment, error) {
	query := `SELECT id, organization, regulation, industry, responses, results, created_at FROM assessments WHERE 1=1`
	var args []any

	if filter.Regulation != "" {
		query += ` AND regulation = ?`
		args = append(args, filter.Regulation)
	}
	if filter.Industry != "" {
		query += ` AND industry = ?`
		args = append(args, filter.Industry)
	}
	if filter.Organization != "" {
		query += ` AND organization = ?`
		args = append(args, filter.Organization)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list assessments")
	}
	defer rows.Close()

	var out []model.Assessment
	for rows.Next() {
		var a model.Assessment
		var responsesJSON, resultsJSON string
		if err := rows.Scan(&a.ID, &a.Organization, &a.Regulation, &a.Industry, &responsesJSON, &resultsJSON, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan assessment")
		}
		if err := json.Unmarshal([]byte(responsesJSON), &a.Responses); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal responses")
		}
		if err := json.Unmarshal([]byte(resultsJSON), &a.Results); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal results")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate assessments")
}
