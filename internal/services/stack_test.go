package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/fundgraph-backend/internal/data/repos"
	"github.com/yungbote/fundgraph-backend/internal/data/repos/testutil"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/dbctx"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type testStack struct {
	db           *gorm.DB
	companyRepo  repos.CompanyRepo
	investorRepo repos.InvestorRepo
	roundRepo    repos.FundingRoundRepo
	linkRepo     repos.InvestmentRepo
	resolver     EntityResolver
	ingestion    IngestionService
	events       FundingEventService
	aggregation  InvestorAggregationService
	scoring      MatchScoringService
	listing      InvestorListingService
	cache        *memCache
	metrics      *observability.Metrics
}

func newTestStack(t *testing.T, normalizeNames bool) *testStack {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	s := &testStack{
		db:           db,
		companyRepo:  repos.NewCompanyRepo(db, log),
		investorRepo: repos.NewInvestorRepo(db, log),
		roundRepo:    repos.NewFundingRoundRepo(db, log),
		linkRepo:     repos.NewInvestmentRepo(db, log),
		cache:        newMemCache(),
		metrics:      observability.NewMetrics(),
	}
	rules := DefaultMatchRules()
	s.resolver = NewEntityResolver(log, s.companyRepo, s.investorRepo, s.roundRepo, s.linkRepo, normalizeNames)
	s.aggregation = NewInvestorAggregationService(log, s.investorRepo, s.roundRepo, s.linkRepo, s.cache, s.metrics)
	s.ingestion = NewIngestionService(dbctx.NewTxRunner(db), log, s.resolver, s.aggregation, s.metrics)
	s.events = NewFundingEventService(log, s.roundRepo, s.linkRepo)
	s.scoring = NewMatchScoringService(log, rules, s.aggregation)
	s.listing = NewInvestorListingService(log, s.aggregation, s.scoring, rules)
	return s
}

func (s *testStack) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
