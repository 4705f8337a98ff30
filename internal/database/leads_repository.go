package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/leadscore/internal/domain"
)

// LeadsRepository handles database operations for scored company leads.
type LeadsRepository struct {
	db *sqlx.DB
}

// NewLeadsRepository creates a new leads repository.
func NewLeadsRepository(db *sqlx.DB) *LeadsRepository {
	return &LeadsRepository{db: db}
}

// TierStat represents lead counts and score spread for a single tier.
type TierStat struct {
	Tier     string  `json:"tier"      db:"tier"`
	Count    int     `json:"count"     db:"count"`
	AvgScore float64 `json:"avg_score" db:"avg_score"`
	MaxScore float64 `json:"max_score" db:"max_score"`
}

// leadRow mirrors the company_leads table with the JSONB columns raw.
type leadRow struct {
	domain.CompanyLead
	AggregateJSON []byte `db:"aggregate"`
	BreakdownJSON []byte `db:"breakdown"`
}

func (r *leadRow) lead() (*domain.CompanyLead, error) {
	lead := r.CompanyLead
	if err := json.Unmarshal(r.AggregateJSON, &lead.Aggregate); err != nil {
		return nil, fmt.Errorf("failed to decode lead aggregate: %w", err)
	}
	if err := json.Unmarshal(r.BreakdownJSON, &lead.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode lead breakdown: %w", err)
	}
	return &lead, nil
}

const leadColumns = `id, company_key, company_name, final_score, tier,
	       aggregate, breakdown, run_id, scored_at, created_at, updated_at`

// Upsert inserts or replaces the lead for a company key. Re-scoring the same
// company in a later run overwrites the previous result and bumps updated_at.
func (r *LeadsRepository) Upsert(ctx context.Context, lead *domain.CompanyLead) error {
	aggregateJSON, err := json.Marshal(lead.Aggregate)
	if err != nil {
		return fmt.Errorf("failed to encode lead aggregate: %w", err)
	}
	breakdownJSON, err := json.Marshal(lead.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode lead breakdown: %w", err)
	}

	query := `
		INSERT INTO company_leads (
			company_key, company_name, final_score, tier,
			aggregate, breakdown, run_id, scored_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_key) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			final_score  = EXCLUDED.final_score,
			tier         = EXCLUDED.tier,
			aggregate    = EXCLUDED.aggregate,
			breakdown    = EXCLUDED.breakdown,
			run_id       = EXCLUDED.run_id,
			scored_at    = EXCLUDED.scored_at,
			updated_at   = NOW()
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		lead.CompanyKey,
		lead.CompanyName,
		lead.FinalScore,
		string(lead.Tier),
		aggregateJSON,
		breakdownJSON,
		lead.RunID,
		lead.ScoredAt,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert lead: %w", err)
	}

	return nil
}

// GetByCompanyKey retrieves the lead for a canonical company key.
func (r *LeadsRepository) GetByCompanyKey(ctx context.Context, companyKey string) (*domain.CompanyLead, error) {
	var row leadRow
	query := `
		SELECT ` + leadColumns + `
		FROM company_leads
		WHERE company_key = $1
	`

	if err := r.db.GetContext(ctx, &row, query, companyKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead not found: %s", companyKey)
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return row.lead()
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Tier     domain.Tier
	MinScore float64
	Limit    int
	Offset   int
}

const defaultListLimit = 100

// List retrieves leads ordered by final score descending.
func (r *LeadsRepository) List(ctx context.Context, filter ListFilter) ([]*domain.CompanyLead, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	query := `
		SELECT ` + leadColumns + `
		FROM company_leads
		WHERE final_score >= $1
		  AND ($2 = '' OR tier = $2)
		ORDER BY final_score DESC, company_key ASC
		LIMIT $3 OFFSET $4
	`

	var rows []*leadRow
	err := r.db.SelectContext(ctx, &rows, query, filter.MinScore, string(filter.Tier), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	leads := make([]*domain.CompanyLead, 0, len(rows))
	for _, row := range rows {
		lead, err := row.lead()
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

// GetTierStats retrieves lead counts and score spread per tier.
func (r *LeadsRepository) GetTierStats(ctx context.Context) ([]*TierStat, error) {
	var stats []*TierStat

	query := `
		SELECT
			tier,
			COUNT(*) as count,
			COALESCE(AVG(final_score), 0) as avg_score,
			COALESCE(MAX(final_score), 0) as max_score
		FROM company_leads
		GROUP BY tier
		ORDER BY max_score DESC
	`

	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get tier stats: %w", err)
	}

	return stats, nil
}

// DeleteByCompanyKey removes the lead for a company key.
func (r *LeadsRepository) DeleteByCompanyKey(ctx context.Context, companyKey string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM company_leads WHERE company_key = $1`, companyKey)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("lead not found: %s", companyKey)
	}

	return nil
}
