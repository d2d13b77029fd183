package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/fundgraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
)

func deal(company, stage string, investors ...string) DealRecord {
	return DealRecord{
		CompanyName:   FlexString(company),
		FundingStage:  FlexString(stage),
		LeadInvestors: FlexStrings(investors),
	}
}

func TestIngestTerraCO2Enrichment(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	company := testutil.SeedCompany(t, ctx, s.db, "Terra CO2", types.CompanyFields{})
	seeded := testutil.SeedRound(t, ctx, s.db, company, "Series B", 0, "")

	rec := deal("Terra CO2", "Series B", "BEV")
	rec.AmountRaisedRaw = "$82M"
	rec.AnnouncedAt = "2025-03-04"

	sum, err := s.ingestion.Ingest(ctx, []DealRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.CreatedCount)
	assert.Equal(t, 1, sum.InvestmentLinksCreated)
	assert.Equal(t, 1, sum.RoundsEnriched)
	assert.Equal(t, 1, sum.InvestorsCreated)
	assert.Equal(t, "Processing complete. 0 new funding rounds created, and 1 new investor links established.", sum.Message())

	round, err := s.roundRepo.GetByID(ctx, nil, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(82_000_000), pointers.Int64Value(round.AmountUSD))
	assert.Equal(t, "2025-03-04", pointers.StringValue(round.AnnouncedAt))

	bev, err := s.investorRepo.GetByNameKey(ctx, nil, "BEV")
	require.NoError(t, err)
	require.NotNil(t, bev)
	links, err := s.linkRepo.GetByRoundIDs(ctx, nil, []uuid.UUID{seeded.ID})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, bev.ID, links[0].InvestorID)
}

func TestIngestIsIdempotent(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()
	batch := []DealRecord{
		deal("Terra CO2", "Series B", "BEV", "Acme Ventures", "BEV", " "),
		deal("SunGrid", "Seed", "Acme Ventures"),
	}

	first, err := s.ingestion.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, first.CreatedCount)
	assert.Equal(t, 3, first.InvestmentLinksCreated)
	assert.Equal(t, 2, first.CompaniesCreated)
	assert.Equal(t, 2, first.InvestorsCreated)

	second, err := s.ingestion.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Equal(t, 0, second.InvestmentLinksCreated)
	assert.Equal(t, 2, second.ProcessedCount)

	assert.Equal(t, int64(2), s.count(t, &types.Company{}))
	assert.Equal(t, int64(2), s.count(t, &types.Investor{}))
	assert.Equal(t, int64(2), s.count(t, &types.FundingRound{}))
	assert.Equal(t, int64(3), s.count(t, &types.Investment{}))
}

func TestIngestEnrichmentIsMonotonic(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	first := deal("Terra CO2", "Series B")
	first.Country = "USA"
	first.AmountRaisedRaw = "$10M"
	_, err := s.ingestion.Ingest(ctx, []DealRecord{first})
	require.NoError(t, err)

	second := deal("Terra CO2", "Series B")
	second.Country = "Canada"
	second.ClimateTechSector = "Materials"
	second.AmountRaisedRaw = "$99M"
	second.AnnouncedAt = "2025-01-02"
	sum, err := s.ingestion.Ingest(ctx, []DealRecord{second})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.CompaniesEnriched)
	assert.Equal(t, 1, sum.RoundsEnriched)

	c, err := s.companyRepo.GetByNameKey(ctx, nil, "Terra CO2")
	require.NoError(t, err)
	assert.Equal(t, "USA", pointers.StringValue(c.Country))
	assert.Equal(t, "Materials", pointers.StringValue(c.Industry))

	r, err := s.roundRepo.GetByCompanyAndStage(ctx, nil, c.ID, "Series B")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), pointers.Int64Value(r.AmountUSD))
	assert.Equal(t, "2025-01-02", pointers.StringValue(r.AnnouncedAt))
}

func TestIngestIsolatesFailingRecords(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()
	batch := []DealRecord{
		deal("", "Seed", "Ghost Capital"),
		deal("Orphan Co", "", "Ghost Capital"),
		deal("SunGrid", "Seed", "Acme Ventures"),
	}
	sum, err := s.ingestion.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.FailedCount)
	assert.Equal(t, 1, sum.ProcessedCount)
	assert.Equal(t, 1, sum.CreatedCount)
	require.Len(t, sum.Failures, 2)
	assert.Equal(t, 0, sum.Failures[0].Index)
	assert.Equal(t, "Orphan Co", sum.Failures[1].CompanyName)

	// the failed record's company and investor were rolled back with it
	got, err := s.companyRepo.GetByNameKey(ctx, nil, "Orphan Co")
	require.NoError(t, err)
	assert.Nil(t, got)
	ghost, err := s.investorRepo.GetByNameKey(ctx, nil, "Ghost Capital")
	require.NoError(t, err)
	assert.Nil(t, ghost)
}

func TestIngestInvalidatesInvestorCache(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	_, err := s.aggregation.Aggregate(ctx)
	require.NoError(t, err)
	require.Len(t, s.cache.data, 1)

	_, err = s.ingestion.Ingest(ctx, []DealRecord{deal("SunGrid", "Seed", "Acme Ventures")})
	require.NoError(t, err)
	assert.Empty(t, s.cache.data)

	aggs, err := s.aggregation.Aggregate(ctx)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "Acme Ventures", aggs[0].Name)

	deletes := s.cache.deletes
	_, err = s.ingestion.Ingest(ctx, []DealRecord{deal("SunGrid", "Seed", "Acme Ventures")})
	require.NoError(t, err)
	assert.Equal(t, deletes, s.cache.deletes, "a no-op batch leaves the cache alone")
}

func TestIngestStopsOnCancelledContext(t *testing.T) {
	s := newTestStack(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := s.ingestion.Ingest(ctx, []DealRecord{deal("SunGrid", "Seed")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, sum)
	assert.Equal(t, 0, sum.ProcessedCount)
}

func TestDealRecordDecodesLooseTypes(t *testing.T) {
	raw := `{
		"companyName": "Terra CO2",
		"fundingStage": "Series B",
		"amountRaisedRaw": 82000000,
		"announcedAt": null,
		"tags": ["Cement", "Hardware"],
		"leadInvestors": "BEV"
	}`
	var rec DealRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, FlexString("82000000"), rec.AmountRaisedRaw)
	assert.Equal(t, FlexString(""), rec.AnnouncedAt)
	assert.Equal(t, FlexString("Cement, Hardware"), rec.Tags)
	assert.Equal(t, FlexStrings{"BEV"}, rec.LeadInvestors)

	assert.Error(t, json.Unmarshal([]byte(`{"companyName": {"x": 1}}`), &rec))
}

func TestIngestFailsUndecodableElementsAlone(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	deals, err := ParseDealPayload([]byte(`[
		{"companyName":"Good Co","fundingStage":"Seed","leadInvestors":["Acme Ventures"]},
		"garbage",
		{"companyName":{"x":1},"fundingStage":"Seed"}
	]`))
	require.NoError(t, err)

	sum, err := s.ingestion.Ingest(ctx, deals)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.ProcessedCount)
	assert.Equal(t, 2, sum.FailedCount)
	assert.Equal(t, 1, sum.CreatedCount)
	require.Len(t, sum.Failures, 2)
	assert.Equal(t, 1, sum.Failures[0].Index)
	assert.Equal(t, 2, sum.Failures[1].Index)
	assert.Contains(t, sum.Failures[1].Error, "decode deal")
	assert.Equal(t, int64(1), s.count(t, &types.Company{}))
}
