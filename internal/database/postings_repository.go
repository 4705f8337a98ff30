package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scoutline/leadscore/internal/domain"
)

// Posting status values as stored in the postings table.
const (
	PostingStatusPending = "pending"
	PostingStatusScored  = "scored"
	PostingStatusSkipped = "skipped"
)

// PostingRow is one stored job posting awaiting or finished scoring.
type PostingRow struct {
	ID          int        `db:"id"           json:"id"`
	CompanyName string     `db:"company_name" json:"company_name"`
	Title       string     `db:"title"        json:"title"`
	Description string     `db:"description"  json:"description"`
	Location    string     `db:"location"     json:"location"`
	SourceURL   string     `db:"source_url"   json:"source_url,omitempty"`
	PostedDate  *time.Time `db:"posted_date"  json:"posted_date,omitempty"`
	Status      string     `db:"status"       json:"status"`
	SkipReason  *string    `db:"skip_reason"  json:"skip_reason,omitempty"`
	RunID       *string    `db:"run_id"       json:"run_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	ScoredAt    *time.Time `db:"scored_at"    json:"scored_at,omitempty"`
}

// Posting converts the stored row to the scoring core's posting value.
func (r *PostingRow) Posting() domain.JobPosting {
	return domain.JobPosting{
		CompanyName: r.CompanyName,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		SourceURL:   r.SourceURL,
		PostedDate:  r.PostedDate,
	}
}

// PostingsRepository handles database operations for job postings.
type PostingsRepository struct {
	db *sqlx.DB
}

// NewPostingsRepository creates a new postings repository.
func NewPostingsRepository(db *sqlx.DB) *PostingsRepository {
	return &PostingsRepository{db: db}
}

// Create inserts a new posting with pending status.
func (r *PostingsRepository) Create(ctx context.Context, p domain.JobPosting) (*PostingRow, error) {
	row := &PostingRow{
		CompanyName: p.CompanyName,
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		SourceURL:   p.SourceURL,
		PostedDate:  p.PostedDate,
		Status:      PostingStatusPending,
	}

	query := `
		INSERT INTO postings (company_name, title, description, location, source_url, posted_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		row.CompanyName,
		row.Title,
		row.Description,
		row.Location,
		row.SourceURL,
		row.PostedDate,
		row.Status,
	).Scan(&row.ID, &row.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create posting: %w", err)
	}

	return row, nil
}

// CreateBatch inserts multiple postings with pending status and returns their IDs.
func (r *PostingsRepository) CreateBatch(ctx context.Context, postings []domain.JobPosting) ([]int, error) {
	if len(postings) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO postings (company_name, title, description, location, source_url, posted_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	ids := make([]int, 0, len(postings))
	for _, p := range postings {
		var id int
		err = tx.QueryRowContext(
			ctx, query,
			p.CompanyName, p.Title, p.Description, p.Location, p.SourceURL, p.PostedDate,
			PostingStatusPending,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert posting: %w", err)
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit posting batch: %w", err)
	}

	return ids, nil
}

// ListPending retrieves up to limit postings awaiting scoring, oldest first.
func (r *PostingsRepository) ListPending(ctx context.Context, limit int) ([]*PostingRow, error) {
	var rows []*PostingRow
	query := `
		SELECT id, company_name, title, description, location, source_url, posted_date,
		       status, skip_reason, run_id, created_at, scored_at
		FROM postings
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &rows, query, PostingStatusPending, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending postings: %w", err)
	}

	return rows, nil
}

// GetByID retrieves a posting by its ID.
func (r *PostingsRepository) GetByID(ctx context.Context, id int) (*PostingRow, error) {
	var row PostingRow
	query := `
		SELECT id, company_name, title, description, location, source_url, posted_date,
		       status, skip_reason, run_id, created_at, scored_at
		FROM postings
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("posting not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	return &row, nil
}

// MarkScored marks the given postings as scored under the given run.
func (r *PostingsRepository) MarkScored(ctx context.Context, ids []int, runID string, scoredAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE postings
		SET status = $1, run_id = $2, scored_at = $3
		WHERE id = ANY($4)
	`

	if _, err := r.db.ExecContext(ctx, query, PostingStatusScored, runID, scoredAt, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to mark postings scored: %w", err)
	}

	return nil
}

// MarkSkipped marks a posting as skipped with the given reason.
func (r *PostingsRepository) MarkSkipped(ctx context.Context, id int, runID string, reason domain.SkipReason) error {
	query := `
		UPDATE postings
		SET status = $1, run_id = $2, skip_reason = $3, scored_at = $4
		WHERE id = $5
	`

	if _, err := r.db.ExecContext(ctx, query, PostingStatusSkipped, runID, string(reason), time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark posting skipped: %w", err)
	}

	return nil
}

// CountByStatus returns the number of postings per status.
func (r *PostingsRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) as count
		FROM postings
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count postings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan posting count: %w", err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting counts: %w", err)
	}

	return counts, nil
}
