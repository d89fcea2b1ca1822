package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
)

// PostgresStore reads the most recently published catalog version.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const questionColumns = `question_id, category, prompt, answer_type, options, weight`

func (s *PostgresStore) LoadCatalog(ctx context.Context) (*questionnaire.Catalog, error) {
	var version string
	err := s.pool.QueryRow(ctx, `
		SELECT version FROM catalog_versions
		ORDER BY published_at DESC
		LIMIT 1`,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("latest catalog version: %w", err)
	}
	return s.loadVersion(ctx, version)
}

// LoadCatalogVersion loads a specific published version.
func (s *PostgresStore) LoadCatalogVersion(ctx context.Context, version string) (*questionnaire.Catalog, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM catalog_versions WHERE version = $1)`, version,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup catalog version: %w", err)
	}
	if !exists {
		return nil, ErrNoCatalog
	}
	return s.loadVersion(ctx, version)
}

func (s *PostgresStore) loadVersion(ctx context.Context, version string) (*questionnaire.Catalog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM catalog_questions
		WHERE version = $1
		ORDER BY position ASC`, version)
	if err != nil {
		return nil, fmt.Errorf("query catalog questions: %w", err)
	}
	defer rows.Close()

	var questions []questionnaire.Question
	for rows.Next() {
		var q questionnaire.Question
		var answerType string
		if err := rows.Scan(&q.ID, &q.Category, &q.Prompt, &answerType, &q.Options, &q.Weight); err != nil {
			return nil, fmt.Errorf("scan catalog question: %w", err)
		}
		q.Type = questionnaire.AnswerType(answerType)
		if len(q.Options) == 0 {
			q.Options = nil
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog questions: %w", err)
	}
	return questionnaire.NewCatalog(version, questions)
}

// PublishCatalog stores c as a new version. Publishing an existing version
// fails on the primary key.
func (s *PostgresStore) PublishCatalog(ctx context.Context, c *questionnaire.Catalog) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO catalog_versions (version) VALUES ($1)`, c.Version(),
	); err != nil {
		return fmt.Errorf("insert catalog version: %w", err)
	}

	batch := &pgx.Batch{}
	for i, q := range c.Questions() {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		batch.Queue(`
			INSERT INTO catalog_questions (version, position, `+questionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.Version(), i, q.ID, q.Category, q.Prompt, string(q.Type), options, q.Weight,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert catalog questions: %w", err)
	}
	return tx.Commit(ctx)
}
