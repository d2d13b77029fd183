package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/fundgraph-backend/internal/data/repos"
	types "github.com/yungbote/fundgraph-backend/internal/domain"
	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

// EventQuery carries the raw search parameters of /api/events/search.
type EventQuery struct {
	SearchTerm   string
	Stage        string
	Sector       string
	Country      string
	Tags         string
	StartDate    string
	EndDate      string
	InvestorName string
	SortOrder    string
}

// FundingEvent is one funding round flattened with its company and investor names.
type FundingEvent struct {
	EventID           uuid.UUID `json:"EventID"`
	CompanyName       string    `json:"CompanyName"`
	FundingDate       *string   `json:"FundingDate"`
	FundingStage      string    `json:"FundingStage"`
	AmountRaisedUSD   *int64    `json:"AmountRaisedUSD"`
	LeadInvestors     string    `json:"LeadInvestors"`
	ClimateTechSector *string   `json:"ClimateTechSector"`
	Country           *string   `json:"Country"`
	SourceURL         *string   `json:"SourceURL"`
	Problem           *string   `json:"Problem"`
	ImpactMetric      *string   `json:"ImpactMetric"`
	Tags              *string   `json:"Tags"`
}

type FundingEventService interface {
	Search(ctx context.Context, q EventQuery) ([]FundingEvent, error)
}

type fundingEventService struct {
	log            *logger.Logger
	roundRepo      repos.FundingRoundRepo
	investmentRepo repos.InvestmentRepo
}

func NewFundingEventService(log *logger.Logger, roundRepo repos.FundingRoundRepo, investmentRepo repos.InvestmentRepo) FundingEventService {
	return &fundingEventService{
		log:            log.With("service", "FundingEventService"),
		roundRepo:      roundRepo,
		investmentRepo: investmentRepo,
	}
}

func (s *fundingEventService) Search(ctx context.Context, q EventQuery) ([]FundingEvent, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	rounds, err := s.roundRepo.Search(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("search funding rounds: %w", err)
	}

	roundIDs := make([]uuid.UUID, 0, len(rounds))
	for _, r := range rounds {
		roundIDs = append(roundIDs, r.ID)
	}
	links, err := s.investmentRepo.GetByRoundIDs(ctx, nil, roundIDs)
	if err != nil {
		return nil, fmt.Errorf("load round investors: %w", err)
	}
	namesByRound := map[uuid.UUID][]string{}
	for _, l := range links {
		if l.Investor == nil {
			continue
		}
		namesByRound[l.FundingRoundID] = append(namesByRound[l.FundingRoundID], l.Investor.Name)
	}

	needle := strings.ToLower(strings.TrimSpace(q.InvestorName))
	out := make([]FundingEvent, 0, len(rounds))
	for _, r := range rounds {
		ev := toFundingEvent(r, joinInvestorNames(namesByRound[r.ID]))
		if needle != "" && !strings.Contains(strings.ToLower(ev.LeadInvestors), needle) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (q EventQuery) filter() (repos.EventFilter, error) {
	f := repos.EventFilter{
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		Stage:      selectorValue(q.Stage),
		Sector:     selectorValue(q.Sector),
		Country:    selectorValue(q.Country),
		SortOrder:  strings.ToLower(strings.TrimSpace(q.SortOrder)),
	}
	for _, tag := range strings.Split(q.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			f.Tags = append(f.Tags, tag)
		}
	}
	if raw := strings.TrimSpace(q.StartDate); raw != "" {
		d, ok := NormalizeDate(raw)
		if !ok {
			return f, fmt.Errorf("%w: invalid startDate %q", fgerrors.ErrInvalidArgument, raw)
		}
		f.StartDate = d
	}
	if raw := strings.TrimSpace(q.EndDate); raw != "" {
		d, ok := NormalizeDate(raw)
		if !ok {
			return f, fmt.Errorf("%w: invalid endDate %q", fgerrors.ErrInvalidArgument, raw)
		}
		f.EndDate = d
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return f, fmt.Errorf("%w: startDate after endDate", fgerrors.ErrInvalidArgument)
	}
	return f, nil
}

func toFundingEvent(r *types.FundingRound, investors string) FundingEvent {
	ev := FundingEvent{
		EventID:         r.ID,
		FundingDate:     r.AnnouncedAt,
		FundingStage:    r.Stage,
		AmountRaisedUSD: r.AmountUSD,
		LeadInvestors:   investors,
		SourceURL:       r.SourceURL,
	}
	if c := r.Company; c != nil {
		ev.CompanyName = c.Name
		ev.ClimateTechSector = c.Industry
		ev.Country = c.Country
		ev.Problem = c.ProblemStatement
		ev.ImpactMetric = c.ImpactMetric
		ev.Tags = c.Tags
	}
	return ev
}

// joinInvestorNames renders distinct names alphabetically, comma separated.
func joinInvestorNames(names []string) string {
	seen := make(map[string]struct{}, len(names))
	uniq := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, ", ")
}

// selectorValue maps the UI's catch-all values to "no filter".
func selectorValue(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "all", "any":
		return ""
	}
	return v
}
