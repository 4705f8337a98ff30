package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/scoutline/leadscore/internal/database"
	"github.com/scoutline/leadscore/internal/domain"
)

func newLeadsRepo(t *testing.T) (*database.LeadsRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return database.NewLeadsRepository(sqlxDB), mock, func() { db.Close() }
}

func leadColumns() []string {
	return []string{
		"id", "company_key", "company_name", "final_score", "tier",
		"aggregate", "breakdown", "run_id", "scored_at", "created_at", "updated_at",
	}
}

func TestLeadsRepository_Upsert(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	now := time.Now()
	lead := &domain.CompanyLead{
		CompanyKey:  "acme plumbing",
		CompanyName: "Acme Plumbing",
		FinalScore:  72.5,
		Tier:        domain.TierQualified,
		Aggregate:   domain.CompanyAggregate{CompanyKey: "acme plumbing", PostingCount: 3},
		Breakdown:   domain.ScoreBreakdown{CompanyKey: "acme plumbing", FinalScore: 72.5},
		RunID:       "run-123",
		ScoredAt:    now,
	}

	mock.ExpectQuery("INSERT INTO company_leads").
		WithArgs("acme plumbing", "Acme Plumbing", 72.5, string(domain.TierQualified),
			sqlmock.AnyArg(), sqlmock.AnyArg(), "run-123", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(9, now, now))

	if err := repo.Upsert(context.Background(), lead); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if lead.ID != 9 {
		t.Errorf("ID = %d, want 9", lead.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_GetByCompanyKey(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	now := time.Now()
	aggregateJSON := []byte(`{"company_key":"acme plumbing","company_name":"Acme Plumbing","posting_count":3}`)
	breakdownJSON := []byte(`{"company_key":"acme plumbing","final_score":72.5,"tier":"QUALIFIED"}`)

	mock.ExpectQuery("SELECT (.+) FROM company_leads").
		WithArgs("acme plumbing").
		WillReturnRows(sqlmock.NewRows(leadColumns()).
			AddRow(9, "acme plumbing", "Acme Plumbing", 72.5, "QUALIFIED",
				aggregateJSON, breakdownJSON, "run-123", now, now, now))

	lead, err := repo.GetByCompanyKey(context.Background(), "acme plumbing")
	if err != nil {
		t.Fatalf("GetByCompanyKey() error = %v", err)
	}
	if lead.Tier != domain.TierQualified {
		t.Errorf("Tier = %q, want QUALIFIED", lead.Tier)
	}
	if lead.Aggregate.PostingCount != 3 {
		t.Errorf("Aggregate.PostingCount = %d, want 3", lead.Aggregate.PostingCount)
	}
	if lead.Breakdown.FinalScore != 72.5 {
		t.Errorf("Breakdown.FinalScore = %v, want 72.5", lead.Breakdown.FinalScore)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_GetByCompanyKeyNotFound(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM company_leads").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(leadColumns()))

	if _, err := repo.GetByCompanyKey(context.Background(), "nobody"); err == nil {
		t.Fatal("GetByCompanyKey() = nil, want error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_List(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	now := time.Now()
	emptyAggregate := []byte(`{}`)
	emptyBreakdown := []byte(`{}`)

	mock.ExpectQuery("SELECT (.+) FROM company_leads").
		WithArgs(60.0, string(domain.TierHot), 10, 0).
		WillReturnRows(sqlmock.NewRows(leadColumns()).
			AddRow(1, "acme plumbing", "Acme Plumbing", 100.0, "HOT",
				emptyAggregate, emptyBreakdown, "run-123", now, now, now).
			AddRow(2, "zenith roofing", "Zenith Roofing", 85.0, "HOT",
				emptyAggregate, emptyBreakdown, "run-123", now, now, now))

	leads, err := repo.List(context.Background(), database.ListFilter{
		Tier:     domain.TierHot,
		MinScore: 60,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("got %d leads, want 2", len(leads))
	}
	if leads[0].CompanyKey != "acme plumbing" || leads[1].CompanyKey != "zenith roofing" {
		t.Errorf("lead order = %s, %s", leads[0].CompanyKey, leads[1].CompanyKey)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_ListDefaultLimit(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM company_leads").
		WithArgs(0.0, "", 100, 0).
		WillReturnRows(sqlmock.NewRows(leadColumns()))

	leads, err := repo.List(context.Background(), database.ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("got %d leads, want 0", len(leads))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_GetTierStats(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT(.+)FROM company_leads(.+)GROUP BY tier").
		WillReturnRows(sqlmock.NewRows([]string{"tier", "count", "avg_score", "max_score"}).
			AddRow("HOT", 4, 91.5, 100.0).
			AddRow("SKIP", 30, 8.2, 35.0))

	stats, err := repo.GetTierStats(context.Background())
	if err != nil {
		t.Fatalf("GetTierStats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d tiers, want 2", len(stats))
	}
	if stats[0].Tier != "HOT" || stats[0].Count != 4 {
		t.Errorf("stats[0] = %+v, want HOT with 4 leads", stats[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_DeleteByCompanyKey(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM company_leads").
		WithArgs("acme plumbing").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByCompanyKey(context.Background(), "acme plumbing"); err != nil {
		t.Fatalf("DeleteByCompanyKey() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadsRepository_DeleteByCompanyKeyNotFound(t *testing.T) {
	repo, mock, cleanup := newLeadsRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM company_leads").
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByCompanyKey(context.Background(), "nobody"); err == nil {
		t.Fatal("DeleteByCompanyKey() = nil, want error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
