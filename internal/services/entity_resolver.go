package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/fundgraph-backend/internal/data/repos"
	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/domain/funding"
	"github.com/yungbote/fundgraph-backend/internal/pkg/amount"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
	"github.com/yungbote/fundgraph-backend/internal/platform/ctxutil"
	"github.com/yungbote/fundgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

// Outcome says what a resolve call did to storage.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeExisting
	OutcomeCreated
	OutcomeEnriched
)

func (o Outcome) Created() bool { return o == OutcomeCreated }

func (o Outcome) String() string {
	switch o {
	case OutcomeExisting:
		return "existing"
	case OutcomeCreated:
		return "created"
	case OutcomeEnriched:
		return "enriched"
	default:
		return "skipped"
	}
}

// RoundInput is the raw round data of one deal record.
type RoundInput struct {
	Stage       string
	AmountRaw   string
	AnnouncedAt string
	SourceURL   string
}

type EntityResolver interface {
	ResolveCompany(dbc dbctx.Context, name string, fields types.CompanyFields) (*types.Company, Outcome, error)
	// ResolveInvestor returns (nil, OutcomeSkipped, nil) for a blank name.
	ResolveInvestor(dbc dbctx.Context, name string) (*types.Investor, Outcome, error)
	ResolveFundingRound(dbc dbctx.Context, companyID uuid.UUID, in RoundInput) (*types.FundingRound, Outcome, error)
	LinkInvestor(dbc dbctx.Context, fundingRoundID, investorID uuid.UUID) (bool, error)
}

type entityResolver struct {
	log            *logger.Logger
	companyRepo    repos.CompanyRepo
	investorRepo   repos.InvestorRepo
	roundRepo      repos.FundingRoundRepo
	investmentRepo repos.InvestmentRepo
	normalizeNames bool
}

func NewEntityResolver(
	log *logger.Logger,
	companyRepo repos.CompanyRepo,
	investorRepo repos.InvestorRepo,
	roundRepo repos.FundingRoundRepo,
	investmentRepo repos.InvestmentRepo,
	normalizeNames bool,
) EntityResolver {
	return &entityResolver{
		log:            log.With("service", "EntityResolver"),
		companyRepo:    companyRepo,
		investorRepo:   investorRepo,
		roundRepo:      roundRepo,
		investmentRepo: investmentRepo,
		normalizeNames: normalizeNames,
	}
}

func (r *entityResolver) ResolveCompany(dbc dbctx.Context, name string, fields types.CompanyFields) (*types.Company, Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, OutcomeSkipped, fmt.Errorf("%w: company name is required", fgerrors.ErrInvalidArgument)
	}
	fields = trimCompanyFields(fields)

	row := &types.Company{
		Name:             name,
		NameKey:          funding.ResolutionKey(name, r.normalizeNames),
		Country:          pointers.NonEmpty(fields.Country),
		Industry:         pointers.NonEmpty(fields.Industry),
		ProblemStatement: pointers.NonEmpty(fields.ProblemStatement),
		ImpactMetric:     pointers.NonEmpty(fields.ImpactMetric),
		Tags:             pointers.NonEmpty(fields.Tags),
	}
	company, created, err := r.companyRepo.Upsert(dbc.Ctx, dbc.Tx, row)
	if err != nil {
		return nil, OutcomeSkipped, fmt.Errorf("resolve company %q: %w", name, err)
	}
	if created {
		return company, OutcomeCreated, nil
	}

	missing := missingCompanyColumns(company, fields)
	if len(missing) == 0 {
		return company, OutcomeExisting, nil
	}
	changed, err := r.companyRepo.FillEmpty(dbc.Ctx, dbc.Tx, company.ID, missing)
	if err != nil {
		return nil, OutcomeSkipped, fmt.Errorf("enrich company %q: %w", name, err)
	}
	if !changed {
		return company, OutcomeExisting, nil
	}
	refreshed, err := r.companyRepo.GetByID(dbc.Ctx, dbc.Tx, company.ID)
	if err != nil || refreshed == nil {
		return nil, OutcomeSkipped, fmt.Errorf("reload company %q: %w", name, orNotFound(err))
	}
	return refreshed, OutcomeEnriched, nil
}

func (r *entityResolver) ResolveInvestor(dbc dbctx.Context, name string) (*types.Investor, Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, OutcomeSkipped, nil
	}
	inv, created, err := r.investorRepo.Upsert(dbc.Ctx, dbc.Tx, &types.Investor{
		Name:    name,
		NameKey: funding.ResolutionKey(name, r.normalizeNames),
	})
	if err != nil {
		return nil, OutcomeSkipped, fmt.Errorf("resolve investor %q: %w", name, err)
	}
	if created {
		return inv, OutcomeCreated, nil
	}
	return inv, OutcomeExisting, nil
}

func (r *entityResolver) ResolveFundingRound(dbc dbctx.Context, companyID uuid.UUID, in RoundInput) (*types.FundingRound, Outcome, error) {
	stage := strings.TrimSpace(in.Stage)
	if stage == "" {
		return nil, OutcomeSkipped, fmt.Errorf("%w: funding stage is required", fgerrors.ErrInvalidArgument)
	}
	if companyID == uuid.Nil {
		return nil, OutcomeSkipped, fmt.Errorf("%w: company id is required", fgerrors.ErrInvalidArgument)
	}
	fields := r.roundFields(dbc, in)

	round, created, err := r.roundRepo.Upsert(dbc.Ctx, dbc.Tx, &types.FundingRound{
		CompanyID:   companyID,
		Stage:       stage,
		AmountUSD:   fields.AmountUSD,
		AnnouncedAt: fields.AnnouncedAt,
		SourceURL:   fields.SourceURL,
	})
	if err != nil {
		return nil, OutcomeSkipped, fmt.Errorf("resolve funding round %q: %w", stage, err)
	}
	if created {
		return round, OutcomeCreated, nil
	}

	missing := missingRoundFields(round, fields)
	if missing == (types.RoundFields{}) {
		return round, OutcomeExisting, nil
	}
	changed, err := r.roundRepo.FillEmpty(dbc.Ctx, dbc.Tx, round.ID, missing)
	if err != nil {
		return nil, OutcomeSkipped, fmt.Errorf("enrich funding round %q: %w", stage, err)
	}
	if !changed {
		return round, OutcomeExisting, nil
	}
	refreshed, err := r.roundRepo.GetByID(dbc.Ctx, dbc.Tx, round.ID)
	if err != nil || refreshed == nil {
		return nil, OutcomeSkipped, fmt.Errorf("reload funding round %q: %w", stage, orNotFound(err))
	}
	return refreshed, OutcomeEnriched, nil
}

func (r *entityResolver) LinkInvestor(dbc dbctx.Context, fundingRoundID, investorID uuid.UUID) (bool, error) {
	n, err := r.investmentRepo.CreateIgnoreDuplicates(dbc.Ctx, dbc.Tx, []*types.Investment{{
		FundingRoundID: fundingRoundID,
		InvestorID:     investorID,
	}})
	if err != nil {
		return false, fmt.Errorf("link investor: %w", err)
	}
	return n > 0, nil
}

// roundFields parses amount and date; unparseable values become NULL with a warning.
func (r *entityResolver) roundFields(dbc dbctx.Context, in RoundInput) types.RoundFields {
	var out types.RoundFields
	if raw := strings.TrimSpace(in.AmountRaw); raw != "" {
		if v, ok := amount.Parse(raw); ok {
			out.AmountUSD = &v
		} else {
			r.log.Warn("unparseable amount stored as null", append(ctxutil.LogFields(dbc.Ctx), "amount_raw", raw)...)
		}
	}
	if raw := strings.TrimSpace(in.AnnouncedAt); raw != "" {
		if d, ok := NormalizeDate(raw); ok {
			out.AnnouncedAt = &d
		} else {
			r.log.Warn("unparseable announced date stored as null", append(ctxutil.LogFields(dbc.Ctx), "announced_at", raw)...)
		}
	}
	out.SourceURL = pointers.NonEmpty(strings.TrimSpace(in.SourceURL))
	return out
}

func trimCompanyFields(f types.CompanyFields) types.CompanyFields {
	return types.CompanyFields{
		Country:          strings.TrimSpace(f.Country),
		Industry:         strings.TrimSpace(f.Industry),
		ProblemStatement: strings.TrimSpace(f.ProblemStatement),
		ImpactMetric:     strings.TrimSpace(f.ImpactMetric),
		Tags:             strings.TrimSpace(f.Tags),
	}
}

// missingCompanyColumns keeps incoming values whose stored column is empty.
func missingCompanyColumns(c *types.Company, incoming types.CompanyFields) map[string]string {
	stored := types.CompanyFields{
		Country:          pointers.StringValue(c.Country),
		Industry:         pointers.StringValue(c.Industry),
		ProblemStatement: pointers.StringValue(c.ProblemStatement),
		ImpactMetric:     pointers.StringValue(c.ImpactMetric),
		Tags:             pointers.StringValue(c.Tags),
	}.Columns()
	out := map[string]string{}
	for col, v := range incoming.Columns() {
		if stored[col] == "" {
			out[col] = v
		}
	}
	return out
}

func missingRoundFields(round *types.FundingRound, incoming types.RoundFields) types.RoundFields {
	var out types.RoundFields
	if pointers.Int64Value(round.AmountUSD) == 0 && pointers.Int64Value(incoming.AmountUSD) != 0 {
		out.AmountUSD = incoming.AmountUSD
	}
	if pointers.StringValue(round.AnnouncedAt) == "" && pointers.StringValue(incoming.AnnouncedAt) != "" {
		out.AnnouncedAt = incoming.AnnouncedAt
	}
	if pointers.StringValue(round.SourceURL) == "" && pointers.StringValue(incoming.SourceURL) != "" {
		out.SourceURL = incoming.SourceURL
	}
	return out
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return fgerrors.ErrNotFound
}
