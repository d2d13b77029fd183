package services

import (
	"context"
	"fmt"
	"time"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/ctxutil"
	"github.com/yungbote/fundgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type IngestFailure struct {
	Index       int    `json:"index"`
	CompanyName string `json:"companyName"`
	Error       string `json:"error"`
}

type IngestSummary struct {
	CreatedCount           int `json:"createdCount"`
	InvestmentLinksCreated int `json:"investmentLinksCreated"`

	// ProcessedCount counts records that committed; FailedCount the ones that rolled back.
	ProcessedCount    int             `json:"processedCount"`
	FailedCount       int             `json:"failedCount"`
	CompaniesCreated  int             `json:"companiesCreated"`
	InvestorsCreated  int             `json:"investorsCreated"`
	RoundsEnriched    int             `json:"roundsEnriched"`
	CompaniesEnriched int             `json:"companiesEnriched"`
	Failures          []IngestFailure `json:"failures"`
}

func (s *IngestSummary) Message() string {
	return fmt.Sprintf(
		"Processing complete. %d new funding rounds created, and %d new investor links established.",
		s.CreatedCount, s.InvestmentLinksCreated,
	)
}

func (s *IngestSummary) wrote() bool {
	return s.CreatedCount+s.InvestmentLinksCreated+s.CompaniesCreated+s.InvestorsCreated+
		s.RoundsEnriched+s.CompaniesEnriched > 0
}

func (s *IngestSummary) add(st recordStats) {
	s.ProcessedCount++
	s.CreatedCount += st.roundsCreated
	s.InvestmentLinksCreated += st.linksCreated
	s.CompaniesCreated += st.companiesCreated
	s.InvestorsCreated += st.investorsCreated
	s.RoundsEnriched += st.roundsEnriched
	s.CompaniesEnriched += st.companiesEnriched
}

type recordStats struct {
	roundsCreated     int
	linksCreated      int
	companiesCreated  int
	investorsCreated  int
	roundsEnriched    int
	companiesEnriched int
}

// CacheInvalidator drops derived read models after writes.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type IngestionService interface {
	// Ingest applies records in order. A failing record is rolled back and reported in the
	// summary; it never aborts the batch. Only context cancellation returns an error, together
	// with the summary of what committed before it.
	Ingest(ctx context.Context, records []DealRecord) (*IngestSummary, error)
}

type ingestionService struct {
	tx          dbctx.TxRunner
	log         *logger.Logger
	resolver    EntityResolver
	invalidator CacheInvalidator
	metrics     *observability.Metrics
}

func NewIngestionService(tx dbctx.TxRunner, log *logger.Logger, resolver EntityResolver, invalidator CacheInvalidator, metrics *observability.Metrics) IngestionService {
	return &ingestionService{
		tx:          tx,
		log:         log.With("service", "IngestionService"),
		resolver:    resolver,
		invalidator: invalidator,
		metrics:     metrics,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, records []DealRecord) (*IngestSummary, error) {
	start := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "ingestion.Ingest",
		trace.WithAttributes(attribute.Int("deals.count", len(records))))
	defer span.End()

	summary := &IngestSummary{Failures: []IngestFailure{}}
	defer func() {
		s.finish(ctx, summary, time.Since(start))
		span.SetAttributes(
			attribute.Int("deals.created_rounds", summary.CreatedCount),
			attribute.Int("deals.failed", summary.FailedCount),
		)
	}()

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return summary, fmt.Errorf("ingestion stopped at record %d: %w", i, err)
		}
		st, err := s.ingestOne(ctx, i, rec)
		if err != nil {
			summary.FailedCount++
			summary.Failures = append(summary.Failures, IngestFailure{
				Index:       i,
				CompanyName: string(rec.CompanyName),
				Error:       err.Error(),
			})
			s.metrics.IncIngestRecord("failed")
			s.log.Error("deal record failed",
				append(ctxutil.LogFields(ctx), "index", i, "company", string(rec.CompanyName), "error", err)...)
			continue
		}
		summary.add(st)
		s.metrics.IncIngestRecord("processed")
	}

	s.log.Info("ingestion batch complete", append(ctxutil.LogFields(ctx),
		"records", len(records),
		"rounds_created", summary.CreatedCount,
		"links_created", summary.InvestmentLinksCreated,
		"failed", summary.FailedCount,
	)...)
	return summary, nil
}

func (s *ingestionService) ingestOne(ctx context.Context, index int, rec DealRecord) (recordStats, error) {
	ctx, span := observability.Tracer().Start(ctx, "ingestion.record",
		trace.WithAttributes(attribute.Int("deal.index", index)))
	defer span.End()

	if err := rec.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record undecodable")
		return recordStats{}, err
	}

	var st recordStats
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		st = recordStats{}
		return s.applyRecord(dbc, rec, &st)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record failed")
		return recordStats{}, err
	}
	return st, nil
}

func (s *ingestionService) applyRecord(dbc dbctx.Context, rec DealRecord, st *recordStats) error {
	company, outcome, err := s.resolver.ResolveCompany(dbc, string(rec.CompanyName), rec.CompanyFields())
	if err != nil {
		return err
	}
	switch outcome {
	case OutcomeCreated:
		st.companiesCreated++
	case OutcomeEnriched:
		st.companiesEnriched++
	}

	investorIDs := make([]uuid.UUID, 0, len(rec.LeadInvestors))
	for _, name := range rec.LeadInvestors {
		inv, outcome, err := s.resolver.ResolveInvestor(dbc, name)
		if err != nil {
			return err
		}
		if inv == nil {
			continue
		}
		if outcome.Created() {
			st.investorsCreated++
		}
		investorIDs = append(investorIDs, inv.ID)
	}
	investorIDs = slice.Unique(investorIDs)

	round, outcome, err := s.resolver.ResolveFundingRound(dbc, company.ID, rec.RoundInput())
	if err != nil {
		return err
	}
	switch outcome {
	case OutcomeCreated:
		st.roundsCreated++
	case OutcomeEnriched:
		st.roundsEnriched++
	}

	for _, investorID := range investorIDs {
		linked, err := s.resolver.LinkInvestor(dbc, round.ID, investorID)
		if err != nil {
			return err
		}
		if linked {
			st.linksCreated++
		}
	}
	return nil
}

func (s *ingestionService) finish(ctx context.Context, summary *IngestSummary, dur time.Duration) {
	s.metrics.ObserveIngestBatch(dur)
	s.metrics.AddIngestEntities("funding_round", "created", summary.CreatedCount)
	s.metrics.AddIngestEntities("funding_round", "enriched", summary.RoundsEnriched)
	s.metrics.AddIngestEntities("company", "created", summary.CompaniesCreated)
	s.metrics.AddIngestEntities("company", "enriched", summary.CompaniesEnriched)
	s.metrics.AddIngestEntities("investor", "created", summary.InvestorsCreated)
	s.metrics.AddIngestEntities("investment", "created", summary.InvestmentLinksCreated)

	if s.invalidator == nil || !summary.wrote() {
		return
	}
	// the batch may have been cancelled; invalidation still has to land
	if err := s.invalidator.InvalidateCache(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("investor cache invalidation failed", append(ctxutil.LogFields(ctx), "error", err)...)
	}
}
