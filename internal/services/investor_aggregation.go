package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/fundgraph-backend/internal/data/repos"
	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/pkg/pointers"
	"github.com/yungbote/fundgraph-backend/internal/platform/ctxutil"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

const investorAggregateCacheKey = "investors:aggregate:v1"

type InvestmentEntry struct {
	Date           *string `json:"date"`
	AmountMillions float64 `json:"amountMillions"`
	CompanyName    string  `json:"companyName"`
	Stage          string  `json:"stage"`
	Sector         *string `json:"sector"`

	amountUSD int64
}

type InvestorAggregate struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	Investments          []InvestmentEntry `json:"investments"`
	TotalInvested        int64             `json:"totalInvested"`
	InvestmentCount      int               `json:"investmentCount"`
	MostRecentInvestment int64             `json:"mostRecentInvestment"`
	AvgCheckSize         float64           `json:"avgCheckSize"`
	Sectors              []string          `json:"sectors"`
	MatchScore           *int              `json:"matchScore,omitempty"`
}

// AggregateCache is the byte store behind the aggregate read model; redis in production.
type AggregateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, keys ...string) error
}

type InvestorAggregationService interface {
	// Aggregate returns every investor ordered by name, then id.
	Aggregate(ctx context.Context) ([]InvestorAggregate, error)
	Get(ctx context.Context, id uuid.UUID) (*InvestorAggregate, error)
	InvalidateCache(ctx context.Context) error
}

type investorAggregationService struct {
	log            *logger.Logger
	investorRepo   repos.InvestorRepo
	roundRepo      repos.FundingRoundRepo
	investmentRepo repos.InvestmentRepo
	cache          AggregateCache
	metrics        *observability.Metrics
}

func NewInvestorAggregationService(
	log *logger.Logger,
	investorRepo repos.InvestorRepo,
	roundRepo repos.FundingRoundRepo,
	investmentRepo repos.InvestmentRepo,
	cache AggregateCache,
	metrics *observability.Metrics,
) InvestorAggregationService {
	return &investorAggregationService{
		log:            log.With("service", "InvestorAggregationService"),
		investorRepo:   investorRepo,
		roundRepo:      roundRepo,
		investmentRepo: investmentRepo,
		cache:          cache,
		metrics:        metrics,
	}
}

func (s *investorAggregationService) Aggregate(ctx context.Context) ([]InvestorAggregate, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var (
		investors []*types.Investor
		rounds    []*types.FundingRound
		links     []*types.Investment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		investors, err = s.investorRepo.ListAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		rounds, err = s.roundRepo.ListAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.investmentRepo.ListAll(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load investor graph: %w", err)
	}

	out := BuildInvestorAggregates(investors, rounds, links)
	s.toCache(ctx, out)
	return out, nil
}

func (s *investorAggregationService) Get(ctx context.Context, id uuid.UUID) (*InvestorAggregate, error) {
	all, err := s.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("investor %s: %w", id, fgerrors.ErrNotFound)
}

func (s *investorAggregationService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, investorAggregateCacheKey)
}

func (s *investorAggregationService) fromCache(ctx context.Context) ([]InvestorAggregate, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, investorAggregateCacheKey)
	if err != nil {
		s.metrics.IncCacheLookup("error")
		s.log.Warn("investor cache read failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, false
	}
	if !ok {
		s.metrics.IncCacheLookup("miss")
		return nil, false
	}
	var out []InvestorAggregate
	if err := json.Unmarshal(raw, &out); err != nil {
		s.metrics.IncCacheLookup("error")
		s.log.Warn("investor cache entry unreadable", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, false
	}
	s.metrics.IncCacheLookup("hit")
	return out, true
}

func (s *investorAggregationService) toCache(ctx context.Context, aggs []InvestorAggregate) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(aggs)
	if err != nil {
		s.log.Warn("investor cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, investorAggregateCacheKey, raw); err != nil {
		s.log.Warn("investor cache write failed", append(ctxutil.LogFields(ctx), "error", err)...)
	}
}

// BuildInvestorAggregates joins the three tables in memory. rounds must carry Company.
func BuildInvestorAggregates(investors []*types.Investor, rounds []*types.FundingRound, links []*types.Investment) []InvestorAggregate {
	roundByID := make(map[uuid.UUID]*types.FundingRound, len(rounds))
	for _, r := range rounds {
		roundByID[r.ID] = r
	}
	entriesByInvestor := map[uuid.UUID][]InvestmentEntry{}
	for _, l := range links {
		r, ok := roundByID[l.FundingRoundID]
		if !ok {
			continue
		}
		entriesByInvestor[l.InvestorID] = append(entriesByInvestor[l.InvestorID], toInvestmentEntry(r))
	}

	out := make([]InvestorAggregate, 0, len(investors))
	for _, inv := range investors {
		out = append(out, buildAggregate(inv, entriesByInvestor[inv.ID]))
	}
	sort.SliceStable(out, func(i, j int) bool { return lessByName(&out[i], &out[j]) })
	return out
}

func toInvestmentEntry(r *types.FundingRound) InvestmentEntry {
	e := InvestmentEntry{
		Date:      r.AnnouncedAt,
		Stage:     r.Stage,
		amountUSD: pointers.Int64Value(r.AmountUSD),
	}
	e.AmountMillions = millions(e.amountUSD)
	if c := r.Company; c != nil {
		e.CompanyName = c.Name
		e.Sector = c.Industry
	}
	return e
}

func buildAggregate(inv *types.Investor, entries []InvestmentEntry) InvestorAggregate {
	if entries == nil {
		entries = []InvestmentEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := pointers.StringValue(entries[i].Date), pointers.StringValue(entries[j].Date)
		if di != dj {
			if di == "" || dj == "" {
				return dj == ""
			}
			return di > dj
		}
		if entries[i].CompanyName != entries[j].CompanyName {
			return entries[i].CompanyName < entries[j].CompanyName
		}
		return entries[i].Stage < entries[j].Stage
	})

	agg := InvestorAggregate{
		ID:              inv.ID,
		Name:            inv.Name,
		Investments:     entries,
		InvestmentCount: len(entries),
		Sectors:         []string{},
	}
	var (
		sumMillions float64
		withAmount  int
		latest      string
	)
	for _, e := range entries {
		agg.TotalInvested += e.amountUSD
		if e.AmountMillions > 0 {
			sumMillions += e.AmountMillions
			withAmount++
		}
		if d := pointers.StringValue(e.Date); d > latest {
			latest = d
		}
		if sector := strings.TrimSpace(pointers.StringValue(e.Sector)); sector != "" {
			agg.Sectors = append(agg.Sectors, sector)
		}
	}
	if withAmount > 0 {
		agg.AvgCheckSize = sumMillions / float64(withAmount)
	}
	if latest != "" {
		agg.MostRecentInvestment = dateMillis(latest)
	}
	agg.Sectors = slice.Unique(agg.Sectors)
	sort.Strings(agg.Sectors)
	return agg
}

func millions(usd int64) float64 {
	return decimal.NewFromInt(usd).Div(decimal.NewFromInt(1_000_000)).InexactFloat64()
}

func lessByName(a, b *InvestorAggregate) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID.String() < b.ID.String()
}
