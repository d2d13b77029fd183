package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
)

func seedEvents(t *testing.T, s *testStack) {
	t.Helper()
	terra := deal("Terra CO2", "Series B", "Zeta Partners", "BEV")
	terra.AmountRaisedRaw = "$82M"
	terra.AnnouncedAt = "2025-03-04"
	terra.Country = "USA"
	terra.ClimateTechSector = "Materials"
	terra.Tags = "Cement, Hardware"

	sun := deal("SunGrid", "Seed", "Acme Ventures")
	sun.AnnouncedAt = "2024-06-01"
	sun.Country = "Germany"
	sun.ClimateTechSector = "Energy"

	tide := deal("TideWorks", "Seed")
	tide.Country = "USA"

	_, err := s.ingestion.Ingest(context.Background(), []DealRecord{terra, sun, tide})
	require.NoError(t, err)
}

func TestFundingEventSearch(t *testing.T) {
	s := newTestStack(t, false)
	seedEvents(t, s)
	ctx := context.Background()

	all, err := s.events.Search(ctx, EventQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Terra CO2", all[0].CompanyName)
	assert.Equal(t, "BEV, Zeta Partners", all[0].LeadInvestors)
	assert.Equal(t, int64(82_000_000), pointers.Int64Value(all[0].AmountRaisedUSD))
	assert.Equal(t, "Materials", pointers.StringValue(all[0].ClimateTechSector))
	assert.Equal(t, "", all[2].LeadInvestors)

	byInvestor, err := s.events.Search(ctx, EventQuery{InvestorName: "zeta"})
	require.NoError(t, err)
	require.Len(t, byInvestor, 1)
	assert.Equal(t, "Terra CO2", byInvestor[0].CompanyName)

	bySearch, err := s.events.Search(ctx, EventQuery{SearchTerm: "acme"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "SunGrid", bySearch[0].CompanyName)

	usaSeed, err := s.events.Search(ctx, EventQuery{Country: "USA", Stage: "Seed", Sector: "all"})
	require.NoError(t, err)
	require.Len(t, usaSeed, 1)
	assert.Equal(t, "TideWorks", usaSeed[0].CompanyName)

	tagged, err := s.events.Search(ctx, EventQuery{Tags: "cement, hardware"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)

	dated, err := s.events.Search(ctx, EventQuery{StartDate: "2024-01-01", EndDate: "December 31, 2024"})
	require.NoError(t, err)
	require.Len(t, dated, 1)
	assert.Equal(t, "SunGrid", dated[0].CompanyName)

	asc, err := s.events.Search(ctx, EventQuery{SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"SunGrid", "Terra CO2", "TideWorks"}, []string{asc[0].CompanyName, asc[1].CompanyName, asc[2].CompanyName})
}

func TestFundingEventSearchRejectsBadDates(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	_, err := s.events.Search(ctx, EventQuery{StartDate: "yesterday"})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
	_, err = s.events.Search(ctx, EventQuery{StartDate: "2025-01-02", EndDate: "2025-01-01"})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
}

func TestJoinInvestorNames(t *testing.T) {
	assert.Equal(t, "", joinInvestorNames(nil))
	assert.Equal(t, "A, B", joinInvestorNames([]string{"B", "A", "B"}))
}
