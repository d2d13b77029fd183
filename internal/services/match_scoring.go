package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

// CheckSizeBucket is an inclusive range in millions of USD; Max 0 means unbounded.
type CheckSizeBucket struct {
	Name string  `yaml:"name"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

func (b CheckSizeBucket) Contains(millions float64) bool {
	return millions >= b.Min && (b.Max <= 0 || millions <= b.Max)
}

type TeamSizeThresholds struct {
	Solo   float64 `yaml:"solo"`
	Small  float64 `yaml:"small"`
	Medium float64 `yaml:"medium"`
}

type MatchRules struct {
	EarlyStages              []string           `yaml:"early_stages"`
	RecentWindow             int                `yaml:"recent_window"`
	TeamSize                 TeamSizeThresholds `yaml:"team_size"`
	CheckSizes               []CheckSizeBucket  `yaml:"check_sizes"`
	SectorMatchesCompanyName bool               `yaml:"sector_matches_company_name"`
}

func DefaultMatchRules() MatchRules {
	return MatchRules{
		EarlyStages:  []string{"Seed", "Series A"},
		RecentWindow: 10,
		TeamSize:     TeamSizeThresholds{Solo: 0.8, Small: 0.6, Medium: 0.4},
		CheckSizes: []CheckSizeBucket{
			{Name: "small", Min: 1, Max: 5},
			{Name: "medium", Min: 5, Max: 20},
			{Name: "large", Min: 20, Max: 100},
			{Name: "mega", Min: 100},
		},
		SectorMatchesCompanyName: true,
	}
}

// withDefaults fills zero-valued parts from DefaultMatchRules.
func (r MatchRules) withDefaults() MatchRules {
	d := DefaultMatchRules()
	if len(r.EarlyStages) == 0 {
		r.EarlyStages = d.EarlyStages
	}
	if r.RecentWindow <= 0 {
		r.RecentWindow = d.RecentWindow
	}
	if r.TeamSize == (TeamSizeThresholds{}) {
		r.TeamSize = d.TeamSize
	}
	if len(r.CheckSizes) == 0 {
		r.CheckSizes = d.CheckSizes
	}
	return r
}

func (r MatchRules) CheckSize(name string) (CheckSizeBucket, bool) {
	for _, b := range r.CheckSizes {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return CheckSizeBucket{}, false
}

// StartupProfile fields are unspecified when blank, "any" or "all".
type StartupProfile struct {
	Sector        string
	FundingStage  string
	FundingNeeded string
	TeamSize      string
}

func (p StartupProfile) normalized() StartupProfile {
	return StartupProfile{
		Sector:        selectorValue(p.Sector),
		FundingStage:  selectorValue(p.FundingStage),
		FundingNeeded: strings.ToLower(selectorValue(p.FundingNeeded)),
		TeamSize:      strings.ToLower(selectorValue(p.TeamSize)),
	}
}

func (p StartupProfile) IsEmpty() bool {
	return p.normalized() == StartupProfile{}
}

type MatchScoringService interface {
	Validate(p StartupProfile) error
	// Score is in [0,100]; 100 when nothing is specified.
	Score(agg *InvestorAggregate, p StartupProfile) int
	// MatchInvestors scores every investor passing f and orders by score desc, then name.
	MatchInvestors(ctx context.Context, p StartupProfile, f InvestorFilter) ([]InvestorAggregate, error)
}

type matchScoringService struct {
	log         *logger.Logger
	rules       MatchRules
	aggregation InvestorAggregationService
}

func NewMatchScoringService(log *logger.Logger, rules MatchRules, aggregation InvestorAggregationService) MatchScoringService {
	return &matchScoringService{
		log:         log.With("service", "MatchScoringService"),
		rules:       rules.withDefaults(),
		aggregation: aggregation,
	}
}

func (s *matchScoringService) Validate(p StartupProfile) error {
	p = p.normalized()
	if p.FundingNeeded != "" {
		if _, ok := s.rules.CheckSize(p.FundingNeeded); !ok {
			return fmt.Errorf("%w: unknown fundingNeeded %q", fgerrors.ErrInvalidArgument, p.FundingNeeded)
		}
	}
	switch p.TeamSize {
	case "", "solo", "small", "medium", "large":
	default:
		return fmt.Errorf("%w: unknown teamSize %q", fgerrors.ErrInvalidArgument, p.TeamSize)
	}
	return nil
}

func (s *matchScoringService) Score(agg *InvestorAggregate, p StartupProfile) int {
	p = p.normalized()
	specified, satisfied := 0, 0
	check := func(ok bool) {
		specified++
		if ok {
			satisfied++
		}
	}
	if p.Sector != "" {
		check(s.matchesSector(agg, p.Sector))
	}
	if p.FundingStage != "" {
		check(hasStage(agg, p.FundingStage))
	}
	if p.FundingNeeded != "" {
		b, ok := s.rules.CheckSize(p.FundingNeeded)
		check(ok && b.Contains(agg.AvgCheckSize))
	}
	if p.TeamSize != "" {
		check(s.matchesTeamSize(agg, p.TeamSize))
	}
	if specified == 0 {
		return 100
	}
	return int(math.Round(100 * float64(satisfied) / float64(specified)))
}

func (s *matchScoringService) MatchInvestors(ctx context.Context, p StartupProfile, f InvestorFilter) ([]InvestorAggregate, error) {
	if err := s.Validate(p); err != nil {
		return nil, err
	}
	all, err := s.aggregation.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterInvestors(all, f, s.rules)
	if err != nil {
		return nil, err
	}
	for i := range filtered {
		score := s.Score(&filtered[i], p)
		filtered[i].MatchScore = &score
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		si, sj := *filtered[i].MatchScore, *filtered[j].MatchScore
		if si != sj {
			return si > sj
		}
		return lessByName(&filtered[i], &filtered[j])
	})
	return filtered, nil
}

func (s *matchScoringService) matchesSector(agg *InvestorAggregate, sector string) bool {
	needle := strings.ToLower(sector)
	for _, e := range agg.Investments {
		if e.Sector != nil && strings.EqualFold(*e.Sector, sector) {
			return true
		}
		if s.rules.SectorMatchesCompanyName && strings.Contains(strings.ToLower(e.CompanyName), needle) {
			return true
		}
	}
	return false
}

func hasStage(agg *InvestorAggregate, stage string) bool {
	for _, e := range agg.Investments {
		if e.Stage == stage {
			return true
		}
	}
	return false
}

// earlyStageRatio looks at the most recent window of investments; ok is false when there are none.
func (s *matchScoringService) earlyStageRatio(agg *InvestorAggregate) (float64, bool) {
	window := agg.Investments
	if len(window) > s.rules.RecentWindow {
		window = window[:s.rules.RecentWindow]
	}
	if len(window) == 0 {
		return 0, false
	}
	early := 0
	for _, e := range window {
		for _, st := range s.rules.EarlyStages {
			if strings.EqualFold(e.Stage, st) {
				early++
				break
			}
		}
	}
	return float64(early) / float64(len(window)), true
}

func (s *matchScoringService) matchesTeamSize(agg *InvestorAggregate, size string) bool {
	ratio, ok := s.earlyStageRatio(agg)
	if !ok {
		return false
	}
	t := s.rules.TeamSize
	switch size {
	case "solo":
		return ratio >= t.Solo
	case "small":
		return ratio >= t.Small
	case "medium":
		return ratio >= t.Medium
	case "large":
		return ratio < t.Medium
	}
	return false
}
