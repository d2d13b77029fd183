package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
	"github.com/yungbote/fundgraph-backend/internal/platform/dbctx"
)

func TestResolveCompanyCreateThenEnrich(t *testing.T) {
	s := newTestStack(t, false)
	dbc := dbctx.Background(context.Background())

	c, outcome, err := s.resolver.ResolveCompany(dbc, " Terra CO2 ", types.CompanyFields{Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, "Terra CO2", c.Name)

	again, outcome, err := s.resolver.ResolveCompany(dbc, "Terra CO2", types.CompanyFields{Country: "Canada", Industry: "Materials"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEnriched, outcome)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "USA", pointers.StringValue(again.Country), "populated field must not be overwritten")
	assert.Equal(t, "Materials", pointers.StringValue(again.Industry))

	_, outcome, err = s.resolver.ResolveCompany(dbc, "Terra CO2", types.CompanyFields{Industry: "Energy"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, outcome)

	_, _, err = s.resolver.ResolveCompany(dbc, "   ", types.CompanyFields{})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
}

func TestResolveInvestor(t *testing.T) {
	s := newTestStack(t, false)
	dbc := dbctx.Background(context.Background())

	inv, outcome, err := s.resolver.ResolveInvestor(dbc, "  ")
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, OutcomeSkipped, outcome)

	a, outcome, err := s.resolver.ResolveInvestor(dbc, "Acme Ventures")
	require.NoError(t, err)
	assert.True(t, outcome.Created())

	// exact identity by default
	b, outcome, err := s.resolver.ResolveInvestor(dbc, "ACME Ventures")
	require.NoError(t, err)
	assert.True(t, outcome.Created())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestResolveTrimsNamesWithoutNormalization(t *testing.T) {
	s := newTestStack(t, false)
	dbc := dbctx.Background(context.Background())

	c, _, err := s.resolver.ResolveCompany(dbc, "Acme", types.CompanyFields{})
	require.NoError(t, err)
	padded, outcome, err := s.resolver.ResolveCompany(dbc, " Acme\t", types.CompanyFields{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, outcome)
	assert.Equal(t, c.ID, padded.ID)

	inv, _, err := s.resolver.ResolveInvestor(dbc, "Acme")
	require.NoError(t, err)
	paddedInv, outcome, err := s.resolver.ResolveInvestor(dbc, " Acme")
	require.NoError(t, err)
	assert.False(t, outcome.Created())
	assert.Equal(t, inv.ID, paddedInv.ID)
	assert.Equal(t, "Acme", paddedInv.Name)

	assert.Equal(t, int64(1), s.count(t, &types.Company{}))
	assert.Equal(t, int64(1), s.count(t, &types.Investor{}))
}

func TestResolveInvestorNormalizedKey(t *testing.T) {
	s := newTestStack(t, true)
	dbc := dbctx.Background(context.Background())

	a, _, err := s.resolver.ResolveInvestor(dbc, "Acme Ventures")
	require.NoError(t, err)
	b, outcome, err := s.resolver.ResolveInvestor(dbc, "ACME   ventures")
	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, outcome)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Acme Ventures", b.Name, "display name keeps the first spelling")
}

func TestResolveFundingRound(t *testing.T) {
	s := newTestStack(t, false)
	dbc := dbctx.Background(context.Background())
	c, _, err := s.resolver.ResolveCompany(dbc, "Terra CO2", types.CompanyFields{})
	require.NoError(t, err)

	r, outcome, err := s.resolver.ResolveFundingRound(dbc, c.ID, RoundInput{Stage: "Series B", AmountRaw: "n/a", AnnouncedAt: "someday"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Nil(t, r.AmountUSD, "unparseable amount is stored as null")
	assert.Nil(t, r.AnnouncedAt, "unparseable date is stored as null")

	r2, outcome, err := s.resolver.ResolveFundingRound(dbc, c.ID, RoundInput{
		Stage: "Series B", AmountRaw: "$82M", AnnouncedAt: "March 4, 2025", SourceURL: "https://example.com/a",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEnriched, outcome)
	assert.Equal(t, r.ID, r2.ID)
	assert.Equal(t, int64(82_000_000), pointers.Int64Value(r2.AmountUSD))
	assert.Equal(t, "2025-03-04", pointers.StringValue(r2.AnnouncedAt))

	r3, outcome, err := s.resolver.ResolveFundingRound(dbc, c.ID, RoundInput{
		Stage: "Series B", AmountRaw: "$1M", AnnouncedAt: "2020-01-01", SourceURL: "https://example.com/b",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, outcome)
	assert.Equal(t, int64(82_000_000), pointers.Int64Value(r3.AmountUSD))
	assert.Equal(t, "https://example.com/a", pointers.StringValue(r3.SourceURL))

	_, _, err = s.resolver.ResolveFundingRound(dbc, c.ID, RoundInput{Stage: " "})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
	_, _, err = s.resolver.ResolveFundingRound(dbc, uuid.Nil, RoundInput{Stage: "Seed"})
	assert.True(t, errors.Is(err, fgerrors.ErrInvalidArgument))
}

func TestLinkInvestorIsIdempotent(t *testing.T) {
	s := newTestStack(t, false)
	dbc := dbctx.Background(context.Background())
	c, _, _ := s.resolver.ResolveCompany(dbc, "Terra CO2", types.CompanyFields{})
	r, _, _ := s.resolver.ResolveFundingRound(dbc, c.ID, RoundInput{Stage: "Seed"})
	inv, _, _ := s.resolver.ResolveInvestor(dbc, "BEV")

	linked, err := s.resolver.LinkInvestor(dbc, r.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, linked)
	linked, err = s.resolver.LinkInvestor(dbc, r.ID, inv.ID)
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Equal(t, int64(1), s.count(t, &types.Investment{}))
}
