// Package api exposes the leadscore HTTP API.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scoutline/leadscore/internal/database"
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/processor"
	"github.com/scoutline/leadscore/internal/signals"
)

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// PostingsStore defines the posting persistence operations the API needs.
type PostingsStore interface {
	CreateBatch(ctx context.Context, postings []domain.JobPosting) ([]int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// LeadsStore defines the lead persistence operations the API needs.
type LeadsStore interface {
	Upsert(ctx context.Context, lead *domain.CompanyLead) error
	GetByCompanyKey(ctx context.Context, companyKey string) (*domain.CompanyLead, error)
	List(ctx context.Context, filter database.ListFilter) ([]*domain.CompanyLead, error)
	GetTierStats(ctx context.Context) ([]*database.TierStat, error)
}

// Pinger reports backing-store liveness for the readiness check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for the leadscore API
type Handler struct {
	batchProcessor *processor.BatchProcessor
	postings       PostingsStore
	leads          LeadsStore
	db             Pinger
	logger         Logger
}

// NewHandler creates a new API handler
func NewHandler(
	batchProcessor *processor.BatchProcessor,
	postings PostingsStore,
	leads LeadsStore,
	db Pinger,
	logger Logger,
) *Handler {
	return &Handler{
		batchProcessor: batchProcessor,
		postings:       postings,
		leads:          leads,
		db:             db,
		logger:         logger,
	}
}

// ScoreBatch handles POST /api/v1/score
//
// Scores the posted batch synchronously and returns every company lead
// with its full breakdown. Set persist=true to also upsert the leads.
func (h *Handler) ScoreBatch(c *gin.Context) {
	var req ScoreBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid score request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Scoring posting batch",
		"batch_size", len(req.Postings),
		"persist", req.Persist,
	)

	result, err := h.batchProcessor.Process(c.Request.Context(), req.Postings)
	if err != nil {
		h.logger.Error("Batch scoring failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Persist {
		for _, lead := range result.Leads {
			if err := h.leads.Upsert(c.Request.Context(), lead); err != nil {
				h.logger.Error("Failed to persist lead",
					"company_key", lead.CompanyKey,
					"error", err,
				)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist leads"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, toScoreBatchResponse(result))
}

// IngestPostings handles POST /api/v1/postings
//
// Queues scraped postings for the next scoring run.
func (h *Handler) IngestPostings(c *gin.Context) {
	var req IngestPostingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid ingest request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := h.postings.CreateBatch(c.Request.Context(), req.Postings)
	if err != nil {
		h.logger.Error("Failed to ingest postings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest postings"})
		return
	}

	h.logger.Info("Postings ingested", "count", len(ids))

	c.JSON(http.StatusCreated, IngestPostingsResponse{
		IDs:   ids,
		Total: len(ids),
	})
}

// ListLeads handles GET /api/v1/leads
//
// Query params: tier, min_score, limit, offset.
func (h *Handler) ListLeads(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leads, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list leads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads"})
		return
	}

	c.JSON(http.StatusOK, LeadsListResponse{
		Leads: leads,
		Total: len(leads),
	})
}

// GetLead handles GET /api/v1/leads/:company_key
func (h *Handler) GetLead(c *gin.Context) {
	companyKey := c.Param("company_key")
	if companyKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_key is required"})
		return
	}

	lead, err := h.leads.GetByCompanyKey(c.Request.Context(), companyKey)
	if err != nil {
		h.logger.Debug("Lead lookup failed", "company_key", companyKey, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// GetTierStats handles GET /api/v1/stats/tiers
func (h *Handler) GetTierStats(c *gin.Context) {
	stats, err := h.leads.GetTierStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get tier stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tier stats"})
		return
	}

	c.JSON(http.StatusOK, TierStatsResponse{Tiers: stats})
}

// GetPostingStats handles GET /api/v1/stats/postings
func (h *Handler) GetPostingStats(c *gin.Context) {
	counts, err := h.postings.CountByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get posting stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posting stats"})
		return
	}

	c.JSON(http.StatusOK, PostingStatsResponse{Statuses: counts})
}

// GetVocabInfo handles GET /api/v1/vocab
//
// Reports the vocabulary version so collaborators can detect when scores
// were produced by stale keyword tables.
func (h *Handler) GetVocabInfo(c *gin.Context) {
	c.JSON(http.StatusOK, VocabInfoResponse{
		Version: signals.VocabVersion,
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			h.logger.Error("Readiness check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"checks": gin.H{"postgresql": err.Error()},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{"postgresql": "ok"},
	})
}

// listFilterFromQuery parses lead list filters from query parameters.
func listFilterFromQuery(c *gin.Context) (database.ListFilter, error) {
	var filter database.ListFilter

	if tier := c.Query("tier"); tier != "" {
		filter.Tier = domain.Tier(tier)
	}

	if raw := c.Query("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errInvalidQueryParam("min_score")
		}
		filter.MinScore = minScore
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}
