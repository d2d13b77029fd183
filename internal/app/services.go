package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
	"github.com/yungbote/fundgraph-backend/internal/services"
)

type Services struct {
	Resolver    services.EntityResolver
	Ingestion   services.IngestionService
	Events      services.FundingEventService
	Aggregation services.InvestorAggregationService
	Scoring     services.MatchScoringService
	Listing     services.InvestorListingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var cache services.AggregateCache
	if clients.AggregateCache != nil {
		cache = clients.AggregateCache
	}

	resolver := services.NewEntityResolver(log, reposet.Company, reposet.Investor, reposet.FundingRound, reposet.Investment, cfg.Resolution.NormalizeNames)
	aggregation := services.NewInvestorAggregationService(log, reposet.Investor, reposet.FundingRound, reposet.Investment, cache, metrics)
	scoring := services.NewMatchScoringService(log, cfg.Match, aggregation)

	return Services{
		Resolver:    resolver,
		Ingestion:   services.NewIngestionService(dbctx.NewTxRunner(db), log, resolver, aggregation, metrics),
		Events:      services.NewFundingEventService(log, reposet.FundingRound, reposet.Investment),
		Aggregation: aggregation,
		Scoring:     scoring,
		Listing:     services.NewInvestorListingService(log, aggregation, scoring, cfg.Match),
	}
}
