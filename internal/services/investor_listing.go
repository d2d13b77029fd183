package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const (
	SortByName           = "name"
	SortByMostActive     = "mostActive"
	SortByDealCount      = "dealCount"
	SortByTotalInvested  = "totalInvested"
	SortByRecentActivity = "recentActivity"
)

type InvestorFilter struct {
	SearchTerm     string
	MinInvestments *int
	MaxInvestments *int
	PreferredStage string
	Sector         string
	CheckSize      string
}

type InvestorQuery struct {
	InvestorFilter
	SortBy   string
	Page     int
	PageSize int
	// Profile, when not empty, attaches matchScore to each returned investor.
	Profile StartupProfile
}

type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

type InvestorPage struct {
	Investors  []InvestorAggregate `json:"investors"`
	Pagination Pagination          `json:"pagination"`
}

type InvestorListingService interface {
	List(ctx context.Context, q InvestorQuery) (*InvestorPage, error)
	Timeline(ctx context.Context) ([]InvestorAggregate, error)
	Get(ctx context.Context, id uuid.UUID) (*InvestorAggregate, error)
}

type investorListingService struct {
	log         *logger.Logger
	aggregation InvestorAggregationService
	scoring     MatchScoringService
	rules       MatchRules
}

func NewInvestorListingService(log *logger.Logger, aggregation InvestorAggregationService, scoring MatchScoringService, rules MatchRules) InvestorListingService {
	return &investorListingService{
		log:         log.With("service", "InvestorListingService"),
		aggregation: aggregation,
		scoring:     scoring,
		rules:       rules.withDefaults(),
	}
}

func (s *investorListingService) List(ctx context.Context, q InvestorQuery) (*InvestorPage, error) {
	scored := !q.Profile.IsEmpty()
	if scored {
		if err := s.scoring.Validate(q.Profile); err != nil {
			return nil, err
		}
	}
	all, err := s.aggregation.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterInvestors(all, q.InvestorFilter, s.rules)
	if err != nil {
		return nil, err
	}
	SortInvestors(filtered, q.SortBy)
	items, pagination := Paginate(filtered, q.Page, q.PageSize)
	if scored {
		for i := range items {
			score := s.scoring.Score(&items[i], q.Profile)
			items[i].MatchScore = &score
		}
	}
	return &InvestorPage{Investors: items, Pagination: pagination}, nil
}

func (s *investorListingService) Timeline(ctx context.Context) ([]InvestorAggregate, error) {
	return s.aggregation.Aggregate(ctx)
}

func (s *investorListingService) Get(ctx context.Context, id uuid.UUID) (*InvestorAggregate, error) {
	return s.aggregation.Get(ctx, id)
}

// FilterInvestors returns the investors satisfying every set criterion, in input order.
func FilterInvestors(all []InvestorAggregate, f InvestorFilter, rules MatchRules) ([]InvestorAggregate, error) {
	rules = rules.withDefaults()
	var bucket *CheckSizeBucket
	if name := selectorValue(f.CheckSize); name != "" {
		b, ok := rules.CheckSize(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown checkSize %q", fgerrors.ErrInvalidArgument, f.CheckSize)
		}
		bucket = &b
	}
	if f.MinInvestments != nil && f.MaxInvestments != nil && *f.MinInvestments > *f.MaxInvestments {
		return nil, fmt.Errorf("%w: minInvestments exceeds maxInvestments", fgerrors.ErrInvalidArgument)
	}
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	stage := selectorValue(f.PreferredStage)
	sector := selectorValue(f.Sector)

	out := make([]InvestorAggregate, 0, len(all))
	for _, inv := range all {
		if term != "" && !strings.Contains(strings.ToLower(inv.Name), term) {
			continue
		}
		if f.MinInvestments != nil && inv.InvestmentCount < *f.MinInvestments {
			continue
		}
		if f.MaxInvestments != nil && inv.InvestmentCount > *f.MaxInvestments {
			continue
		}
		if stage != "" && !hasStageFold(&inv, stage) {
			continue
		}
		if sector != "" && !containsFold(inv.Sectors, sector) {
			continue
		}
		if bucket != nil && !bucket.Contains(inv.AvgCheckSize) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

// SortInvestors orders in place; unknown keys sort by name. Ties always fall back to name, then id.
func SortInvestors(list []InvestorAggregate, sortBy string) {
	var primary func(a, b *InvestorAggregate) int
	switch sortBy {
	case SortByMostActive, SortByDealCount:
		primary = func(a, b *InvestorAggregate) int { return b.InvestmentCount - a.InvestmentCount }
	case SortByTotalInvested:
		primary = func(a, b *InvestorAggregate) int { return cmpInt64(b.TotalInvested, a.TotalInvested) }
	case SortByRecentActivity:
		primary = func(a, b *InvestorAggregate) int { return cmpInt64(b.MostRecentInvestment, a.MostRecentInvestment) }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if primary != nil {
			if c := primary(&list[i], &list[j]); c != 0 {
				return c < 0
			}
		}
		return lessByName(&list[i], &list[j])
	})
}

// Paginate slices a sorted list; page and pageSize are clamped to usable values.
func Paginate(list []InvestorAggregate, page, pageSize int) ([]InvestorAggregate, Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	total := len(list)
	p := Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
	}
	// compare pages before multiplying; a huge page would overflow start
	if page > p.TotalPages {
		return []InvestorAggregate{}, p
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]InvestorAggregate, end-start)
	copy(items, list[start:end])
	return items, p
}

func hasStageFold(agg *InvestorAggregate, stage string) bool {
	for _, e := range agg.Investments {
		if strings.EqualFold(e.Stage, stage) {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, x := range values {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
