package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
)

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, fields types.CompanyFields) *types.Company {
	tb.Helper()
	c := &types.Company{
		Name:             name,
		NameKey:          name,
		Country:          pointers.NonEmpty(fields.Country),
		Industry:         pointers.NonEmpty(fields.Industry),
		ProblemStatement: pointers.NonEmpty(fields.ProblemStatement),
		ImpactMetric:     pointers.NonEmpty(fields.ImpactMetric),
		Tags:             pointers.NonEmpty(fields.Tags),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedInvestor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Investor {
	tb.Helper()
	inv := &types.Investor{Name: name, NameKey: name}
	if err := tx.WithContext(ctx).Create(inv).Error; err != nil {
		tb.Fatalf("seed investor: %v", err)
	}
	return inv
}

// SeedRound links every investor to the new round. amountUSD 0 and announcedAt "" are stored as NULL.
func SeedRound(tb testing.TB, ctx context.Context, tx *gorm.DB, company *types.Company, stage string, amountUSD int64, announcedAt string, investors ...*types.Investor) *types.FundingRound {
	tb.Helper()
	r := &types.FundingRound{
		CompanyID:   company.ID,
		Stage:       stage,
		AnnouncedAt: pointers.NonEmpty(announcedAt),
	}
	if amountUSD != 0 {
		r.AmountUSD = pointers.Int64(amountUSD)
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed round: %v", err)
	}
	for _, inv := range investors {
		link := &types.Investment{FundingRoundID: r.ID, InvestorID: inv.ID}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			tb.Fatalf("seed investment: %v", err)
		}
	}
	return r
}
