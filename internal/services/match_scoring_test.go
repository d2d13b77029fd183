package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yungbote/fundgraph-backend/internal/data/repos/testutil"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
)

func entry(company, stage, sector string) InvestmentEntry {
	e := InvestmentEntry{CompanyName: company, Stage: stage}
	if sector != "" {
		e.Sector = pointers.String(sector)
	}
	return e
}

func TestScoreCriteria(t *testing.T) {
	svc := NewMatchScoringService(testutil.Logger(t), DefaultMatchRules(), nil)
	agg := &InvestorAggregate{
		Name:         "Acme",
		AvgCheckSize: 3,
		Investments: []InvestmentEntry{
			entry("Terra CO2", "Seed", "Materials"),
			entry("SolarGrid", "Series A", ""),
			entry("TideWorks", "Series B", "Ocean"),
		},
	}
	cases := []struct {
		name string
		p    StartupProfile
		want int
	}{
		{"empty", StartupProfile{}, 100},
		{"any selectors", StartupProfile{Sector: "any", FundingStage: "all"}, 100},
		{"sector hit", StartupProfile{Sector: "materials"}, 100},
		{"sector via company name", StartupProfile{Sector: "Solar"}, 100},
		{"sector miss", StartupProfile{Sector: "Agriculture"}, 0},
		{"stage exact", StartupProfile{FundingStage: "Series B"}, 100},
		{"stage case differs", StartupProfile{FundingStage: "series b"}, 0},
		{"check size hit", StartupProfile{FundingNeeded: "small"}, 100},
		{"check size miss", StartupProfile{FundingNeeded: "mega"}, 0},
		{"half", StartupProfile{Sector: "Ocean", FundingNeeded: "large"}, 50},
		{"two of three", StartupProfile{Sector: "Ocean", FundingStage: "Seed", FundingNeeded: "large"}, 67},
		{"one of three", StartupProfile{Sector: "Wind", FundingStage: "Seed", FundingNeeded: "large"}, 33},
		// 2 of 3 recent investments are early stage.
		{"team small", StartupProfile{TeamSize: "small"}, 100},
		{"team solo", StartupProfile{TeamSize: "solo"}, 0},
		{"team medium", StartupProfile{TeamSize: "medium"}, 100},
		{"team large", StartupProfile{TeamSize: "large"}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, svc.Score(agg, tc.p), tc.name)
	}
}

func TestScoreSectorCompanyNameRule(t *testing.T) {
	rules := DefaultMatchRules()
	rules.SectorMatchesCompanyName = false
	svc := NewMatchScoringService(testutil.Logger(t), rules, nil)
	agg := &InvestorAggregate{Investments: []InvestmentEntry{entry("SolarGrid", "Seed", "")}}
	assert.Equal(t, 0, svc.Score(agg, StartupProfile{Sector: "Solar"}))
}

func TestScoreTeamSizeWithoutInvestments(t *testing.T) {
	svc := NewMatchScoringService(testutil.Logger(t), DefaultMatchRules(), nil)
	agg := &InvestorAggregate{Name: "Idle"}
	for _, size := range []string{"solo", "small", "medium", "large"} {
		assert.Equal(t, 0, svc.Score(agg, StartupProfile{TeamSize: size}), size)
	}
}

func TestScoreRecentWindow(t *testing.T) {
	rules := DefaultMatchRules()
	rules.RecentWindow = 2
	svc := NewMatchScoringService(testutil.Logger(t), rules, nil)
	// Newest first: only the two late-stage deals fall inside the window.
	agg := &InvestorAggregate{Investments: []InvestmentEntry{
		entry("A", "Series C", ""),
		entry("B", "Series B", ""),
		entry("C", "Seed", ""),
		entry("D", "Seed", ""),
	}}
	assert.Equal(t, 100, svc.Score(agg, StartupProfile{TeamSize: "large"}))
	assert.Equal(t, 0, svc.Score(agg, StartupProfile{TeamSize: "medium"}))
}

func TestValidateProfile(t *testing.T) {
	svc := NewMatchScoringService(testutil.Logger(t), DefaultMatchRules(), nil)
	require.NoError(t, svc.Validate(StartupProfile{}))
	require.NoError(t, svc.Validate(StartupProfile{FundingNeeded: "Medium", TeamSize: "SOLO"}))
	require.NoError(t, svc.Validate(StartupProfile{FundingNeeded: "any", TeamSize: "all"}))

	err := svc.Validate(StartupProfile{FundingNeeded: "gigantic"})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
	err = svc.Validate(StartupProfile{TeamSize: "crowd"})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
}

func TestScoreBounds(t *testing.T) {
	svc := NewMatchScoringService(testutil.Logger(t), DefaultMatchRules(), nil)
	stages := []string{"Seed", "Series A", "Series B", "Series C", "Pre-Seed"}
	sectors := []string{"", "Energy", "Materials", "Ocean"}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(rt, "n")
		agg := &InvestorAggregate{AvgCheckSize: rapid.Float64Range(0, 500).Draw(rt, "avg")}
		for i := 0; i < n; i++ {
			agg.Investments = append(agg.Investments, entry(
				rapid.SampledFrom([]string{"Terra", "SolarGrid", "Wave"}).Draw(rt, fmt.Sprintf("company%d", i)),
				rapid.SampledFrom(stages).Draw(rt, fmt.Sprintf("stage%d", i)),
				rapid.SampledFrom(sectors).Draw(rt, fmt.Sprintf("sector%d", i)),
			))
		}
		p := StartupProfile{
			Sector:        rapid.SampledFrom(append([]string{"any"}, sectors...)).Draw(rt, "sector"),
			FundingStage:  rapid.SampledFrom(append([]string{""}, stages...)).Draw(rt, "stage"),
			FundingNeeded: rapid.SampledFrom([]string{"", "small", "medium", "large", "mega"}).Draw(rt, "needed"),
			TeamSize:      rapid.SampledFrom([]string{"", "solo", "small", "medium", "large"}).Draw(rt, "team"),
		}
		score := svc.Score(agg, p)
		if score < 0 || score > 100 {
			rt.Fatalf("score %d out of range", score)
		}
		if p.IsEmpty() && score != 100 {
			rt.Fatalf("empty profile scored %d", score)
		}
	})
}

func TestMatchInvestorsOrdering(t *testing.T) {
	s := newTestStack(t, false)
	ctx := context.Background()

	energy := deal("SunGrid", "Seed", "Zeta Fund", "Alpha Partners")
	energy.ClimateTechSector = "Energy"
	energy.AmountRaisedRaw = "$4M"
	ocean := deal("TideWorks", "Series B", "Beta Capital")
	ocean.ClimateTechSector = "Ocean"
	ocean.AmountRaisedRaw = "$40M"
	_, err := s.ingestion.Ingest(ctx, []DealRecord{energy, ocean})
	require.NoError(t, err)

	got, err := s.scoring.MatchInvestors(ctx, StartupProfile{Sector: "Energy", FundingNeeded: "small"}, InvestorFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Alpha Partners", "Zeta Fund", "Beta Capital"}, names(got))
	assert.Equal(t, 100, *got[0].MatchScore)
	assert.Equal(t, 100, *got[1].MatchScore)
	assert.Equal(t, 0, *got[2].MatchScore)

	filtered, err := s.scoring.MatchInvestors(ctx, StartupProfile{Sector: "Energy"}, InvestorFilter{SearchTerm: "beta"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta Capital"}, names(filtered))

	_, err = s.scoring.MatchInvestors(ctx, StartupProfile{TeamSize: "crowd"}, InvestorFilter{})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
}
