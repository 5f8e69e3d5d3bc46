package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/datainfa/compliance-cli/internal/db"
	"github.com/datainfa/compliance-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_assessment": `INSERT INTO assessments (id, organization, regulation, industry, responses, results, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_assessment":    `SELECT id, organization, regulation, industry, responses, results, created_at FROM assessments WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS assessments (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	organization TEXT NOT NULL,
	regulation   TEXT NOT NULL,
	industry     TEXT NOT NULL,
	responses    JSONB NOT NULL,
	results      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_assessments_regulation ON assessments(regulation);
CREATE INDEX IF NOT EXISTS idx_assessments_industry ON assessments(industry);
CREATE INDEX IF NOT EXISTS idx_assessments_organization ON assessments(organization);
CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	saved := *a
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	responsesJSON, err := json.Marshal(saved.Responses)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal responses")
	}
	resultsJSON, err := json.Marshal(saved.Results)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal results")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO assessments (id, organization, regulation, industry, responses, results, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		saved.ID, saved.Organization, saved.Regulation, saved.Industry, responsesJSON, resultsJSON, saved.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert assessment")
	}
	return &saved, nil
}

func (s *PostgresStore) CreateAssessments(ctx context.Context, assessments []model.Assessment) (int64, error) {
	if len(assessments) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(assessments))
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
			return 0, eris.Wrap(err, "postgres: marshal responses")
		}
		resultsJSON, err := json.Marshal(a.Results)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal results")
		}
		rows = append(rows, []any{a.ID, a.Organization, a.Regulation, a.Industry, responsesJSON, resultsJSON, a.CreatedAt})
	}

	return db.CopyFrom(ctx, s.pool, "assessments",
		[]string{"id", "organization", "regulation", "industry", "responses", "results", "created_at"},
		rows,
	)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	var responsesJSON, resultsJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, organization, regulation, industry, responses, results, created_at FROM assessments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Organization, &a.Regulation, &a.Industry, &responsesJSON, &resultsJSON, &a.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get assessment %s", id)
	}

	if err := json.Unmarshal(responsesJSON, &a.Responses); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal responses")
	}
	if err := json.Unmarshal(resultsJSON, &a.Results); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal results")
	}
	return &a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, filter Filter) ([]model.Assessment, error) {
	query := `SELECT id, organization, regulation, industry, responses, results, created_at FROM assessments WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Regulation != "" {
		query += fmt.Sprintf(` AND regulation = $%d`, argIdx)
		args = append(args, filter.Regulation)
		argIdx++
	}
	if filter.Industry != "" {
		query += fmt.Sprintf(` AND industry = $%d`, argIdx)
		args = append(args, filter.Industry)
		argIdx++
	}
	if filter.Organization != "" {
		query += fmt.Sprintf(` AND organization = $%d`, argIdx)
		args = append(args, filter.Organization)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list assessments")
	}
	defer rows.Close()

	var out []model.Assessment
	for rows.Next() {
		var a model.Assessment
		var responsesJSON, resultsJSON []byte
		if err := rows.Scan(&a.ID, &a.Organization, &a.Regulation, &a.Industry, &responsesJSON, &resultsJSON, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan assessment")
		}
		if err := json.Unmarshal(responsesJSON, &a.Responses); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal responses")
		}
		if err := json.Unmarshal(resultsJSON, &a.Results); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal results")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate assessments")
}
