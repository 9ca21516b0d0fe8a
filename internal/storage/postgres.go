package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists publishers and submissions in a PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables when they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS publishers (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	website     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS submissions (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	synopsis       TEXT NOT NULL,
	category       TEXT NOT NULL,
	reader_segment TEXT NOT NULL,
	publisher_ids  BIGINT[] NOT NULL,
	author_name    TEXT NOT NULL,
	national_id    TEXT NOT NULL,
	phone          TEXT NOT NULL,
	email          TEXT NOT NULL,
	promotion_plan TEXT NOT NULL,
	manuscript     JSONB NOT NULL,
	status         TEXT NOT NULL,
	stage          TEXT NOT NULL DEFAULT '',
	review_note    TEXT NOT NULL DEFAULT '',
	reviewed_at    TIMESTAMPTZ,
	submitted_at   TIMESTAMPTZ NOT NULL,
	history        JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS submissions_status_idx ON submissions (status, stage);`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) ListPublishers(ctx context.Context) ([]Publisher, error) {
	const query = `SELECT id, name, website, description, email, created_at FROM publishers ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []Publisher
	for rows.Next() {
		var p Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Website, &p.Description, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	return publishers, rows.Err()
}

func (s *PostgresStore) GetPublisher(ctx context.Context, id int64) (Publisher, error) {
	const query = `SELECT id, name, website, description, email, created_at FROM publishers WHERE id = $1`
	var p Publisher
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Website, &p.Description, &p.Email, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Publisher{}, ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) CreatePublisher(ctx context.Context, p Publisher) (Publisher, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Publisher{}, errors.New("storage: publisher name is required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO publishers (name, website, description, email, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := s.pool.QueryRow(ctx, query, p.Name, p.Website, p.Description, p.Email, p.CreatedAt).Scan(&p.ID)
	return p, err
}

const submissionColumns = `id, title, synopsis, category, reader_segment, publisher_ids,
	author_name, national_id, phone, email, promotion_plan, manuscript,
	status, stage, review_note, reviewed_at, submitted_at, history`

func (s *PostgresStore) ListSubmissions(ctx context.Context, filter Filter) ([]Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
WHERE ($1 = '' OR status = $1) AND ($2 = '' OR stage = $2)
ORDER BY submitted_at DESC`
	rows, err := s.pool.Query(ctx, query, string(filter.Status), string(filter.Stage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub, err := scanSubmission(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	return sub, err
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	sub = prepareSubmission(sub)
	manuscript, history, err := encodeSubmissionJSON(sub)
	if err != nil {
		return Submission{}, err
	}
	query := `INSERT INTO submissions (` + submissionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = s.pool.Exec(ctx, query,
		sub.ID, sub.Title, sub.Synopsis, sub.Category, sub.ReaderSegment, sub.PublisherIDs,
		sub.AuthorName, sub.NationalID, sub.Phone, sub.Email, sub.PromotionPlan, manuscript,
		string(sub.Status), string(sub.Stage), sub.ReviewNote, sub.ReviewedAt, sub.SubmittedAt, history,
	)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// UpdateSubmission writes the review and production fields of sub inside a transaction.
func (s *PostgresStore) UpdateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	if sub.ID == "" {
		return Submission{}, errors.New("storage: update requires submission id")
	}
	_, history, err := encodeSubmissionJSON(sub)
	if err != nil {
		return Submission{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Submission{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const query = `
UPDATE submissions
SET status = $2, stage = $3, review_note = $4, reviewed_at = $5, history = $6
WHERE id = $1`
	tag, err := tx.Exec(ctx, query, sub.ID, string(sub.Status), string(sub.Stage), sub.ReviewNote, sub.ReviewedAt, history)
	if err != nil {
		return Submission{}, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotFound
		return Submission{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func encodeSubmissionJSON(sub Submission) ([]byte, []byte, error) {
	manuscript, err := json.Marshal(sub.Manuscript)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: encode manuscript: %w", err)
	}
	events := sub.History
	if events == nil {
		events = []Event{}
	}
	history, err := json.Marshal(events)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: encode history: %w", err)
	}
	return manuscript, history, nil
}

func scanSubmission(row pgx.Row) (Submission, error) {
	var (
		sub              Submission
		status, stage    string
		manuscript, hist []byte
	)
	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Synopsis, &sub.Category, &sub.ReaderSegment, &sub.PublisherIDs,
		&sub.AuthorName, &sub.NationalID, &sub.Phone, &sub.Email, &sub.PromotionPlan, &manuscript,
		&status, &stage, &sub.ReviewNote, &sub.ReviewedAt, &sub.SubmittedAt, &hist,
	)
	if err != nil {
		return Submission{}, err
	}
	sub.Status = Status(status)
	sub.Stage = Stage(stage)
	if err := json.Unmarshal(manuscript, &sub.Manuscript); err != nil {
		return Submission{}, fmt.Errorf("storage: decode manuscript: %w", err)
	}
	if err := json.Unmarshal(hist, &sub.History); err != nil {
		return Submission{}, fmt.Errorf("storage: decode history: %w", err)
	}
	return sub, nil
}
