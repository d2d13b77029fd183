package funding

import (
	"context"
	"testing"

	"github.com/yungbote/fundgraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
)

func TestFundingRoundRepoUpsertAndFill(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewFundingRoundRepo(db, testutil.Logger(t))
	c := testutil.SeedCompany(t, ctx, db, "Terra CO2", types.CompanyFields{})

	r, created, err := repo.Upsert(ctx, nil, &types.FundingRound{CompanyID: c.ID, Stage: "Series A"})
	if err != nil || !created {
		t.Fatalf("Upsert: created=%v err=%v", created, err)
	}
	r2, created, err := repo.Upsert(ctx, nil, &types.FundingRound{CompanyID: c.ID, Stage: "Series A", AmountUSD: pointers.Int64(5)})
	if err != nil || created || r2.ID != r.ID || r2.AmountUSD != nil {
		t.Fatalf("Upsert dup: got=%+v created=%v err=%v", r2, created, err)
	}

	changed, err := repo.FillEmpty(ctx, nil, r.ID, types.RoundFields{
		AmountUSD:   pointers.Int64(82_000_000),
		AnnouncedAt: pointers.String("2025-07-10"),
	})
	if err != nil || !changed {
		t.Fatalf("FillEmpty: changed=%v err=%v", changed, err)
	}
	changed, err = repo.FillEmpty(ctx, nil, r.ID, types.RoundFields{AmountUSD: pointers.Int64(1)})
	if err != nil || changed {
		t.Fatalf("FillEmpty populated: changed=%v err=%v", changed, err)
	}

	got, err := repo.GetByID(ctx, nil, r.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if pointers.Int64Value(got.AmountUSD) != 82_000_000 || pointers.StringValue(got.AnnouncedAt) != "2025-07-10" {
		t.Fatalf("unexpected round: amount=%d date=%q", pointers.Int64Value(got.AmountUSD), pointers.StringValue(got.AnnouncedAt))
	}
	if got.Company == nil || got.Company.Name != "Terra CO2" {
		t.Fatalf("Company not preloaded: %+v", got.Company)
	}
}

func TestFundingRoundRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewFundingRoundRepo(db, testutil.Logger(t))

	acme := testutil.SeedInvestor(t, ctx, db, "Acme Ventures")
	beta := testutil.SeedInvestor(t, ctx, db, "Beta Capital")

	terra := testutil.SeedCompany(t, ctx, db, "Terra CO2", types.CompanyFields{Country: "USA", Industry: "Materials", Tags: "Cement,Hardware"})
	sun := testutil.SeedCompany(t, ctx, db, "SunGrid", types.CompanyFields{Country: "Germany", Industry: "Energy", Tags: "Solar"})
	tide := testutil.SeedCompany(t, ctx, db, "TideWorks", types.CompanyFields{Country: "USA", Industry: "Energy"})

	rTerra := testutil.SeedRound(t, ctx, db, terra, "Series B", 82_000_000, "2025-07-10", acme)
	rSun := testutil.SeedRound(t, ctx, db, sun, "Seed", 2_000_000, "2024-01-05", beta)
	rTide := testutil.SeedRound(t, ctx, db, tide, "Seed", 0, "")

	ids := func(rows []*types.FundingRound) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ID.String())
		}
		return out
	}
	eq := func(label string, got []*types.FundingRound, want ...*types.FundingRound) {
		t.Helper()
		g := ids(got)
		if len(g) != len(want) {
			t.Fatalf("%s: got %d rows, want %d", label, len(g), len(want))
		}
		for i := range want {
			if g[i] != want[i].ID.String() {
				t.Fatalf("%s: row %d = %s, want %s", label, i, g[i], want[i].ID)
			}
		}
	}

	cases := []struct {
		name string
		f    EventFilter
		want []*types.FundingRound
	}{
		{"no filter keeps insertion order", EventFilter{}, []*types.FundingRound{rTerra, rSun, rTide}},
		{"search term on investor name", EventFilter{SearchTerm: "beta"}, []*types.FundingRound{rSun}},
		{"search term on company name is case-insensitive", EventFilter{SearchTerm: "TERRA"}, []*types.FundingRound{rTerra}},
		{"search term on country", EventFilter{SearchTerm: "germ"}, []*types.FundingRound{rSun}},
		{"stage exact", EventFilter{Stage: "Seed"}, []*types.FundingRound{rSun, rTide}},
		{"sector and country", EventFilter{Sector: "Energy", Country: "USA"}, []*types.FundingRound{rTide}},
		{"tags are AND of substrings", EventFilter{Tags: []string{"cement", "hard"}}, []*types.FundingRound{rTerra}},
		{"tags miss", EventFilter{Tags: []string{"cement", "solar"}}, nil},
		{"date bounds drop undated", EventFilter{StartDate: "2024-01-01", EndDate: "2024-12-31"}, []*types.FundingRound{rSun}},
		{"inclusive bounds", EventFilter{StartDate: "2025-07-10", EndDate: "2025-07-10"}, []*types.FundingRound{rTerra}},
		{"asc puts undated last", EventFilter{SortOrder: "asc"}, []*types.FundingRound{rSun, rTerra, rTide}},
		{"desc puts undated last", EventFilter{SortOrder: "desc"}, []*types.FundingRound{rTerra, rSun, rTide}},
	}
	for _, tc := range cases {
		rows, err := repo.Search(ctx, nil, tc.f)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		eq(tc.name, rows, tc.want...)
	}
}

func TestFundingRoundRepoSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewFundingRoundRepo(db, testutil.Logger(t))

	flux := testutil.SeedCompany(t, ctx, db, "Flux_Labs", types.CompanyFields{ProblemStatement: "Cut kiln emissions 50% by 2030", Tags: "co_2"})
	fluxo := testutil.SeedCompany(t, ctx, db, "FluxoLabs", types.CompanyFields{ProblemStatement: "Cut kiln emissions 500 tonnes", Tags: "coo2"})
	rFlux := testutil.SeedRound(t, ctx, db, flux, "Seed", 0, "")
	testutil.SeedRound(t, ctx, db, fluxo, "Seed", 0, "")

	for _, f := range []EventFilter{
		{SearchTerm: "x_l"},
		{SearchTerm: "50%"},
		{Tags: []string{"o_2"}},
	} {
		rows, err := repo.Search(ctx, nil, f)
		if err != nil {
			t.Fatalf("%+v: %v", f, err)
		}
		if len(rows) != 1 || rows[0].ID != rFlux.ID {
			t.Fatalf("%+v: got %d rows, want only Flux_Labs", f, len(rows))
		}
	}

	if rows, err := repo.Search(ctx, nil, EventFilter{SearchTerm: `s\`}); err != nil || len(rows) != 0 {
		t.Fatalf("backslash term: rows=%d err=%v", len(rows), err)
	}
}
