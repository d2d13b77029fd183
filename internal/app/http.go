package app

import (
	fghttp "github.com/yungbote/fundgraph-backend/internal/http"
	httpH "github.com/yungbote/fundgraph-backend/internal/http/handlers"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Pipeline     *httpH.PipelineHandler
	FundingEvent *httpH.FundingEventHandler
	Investor     *httpH.InvestorHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Pipeline:     httpH.NewPipelineHandler(log, services.Ingestion),
		FundingEvent: httpH.NewFundingEventHandler(services.Events),
		Investor:     httpH.NewInvestorHandler(services.Listing, services.Scoring),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *fghttp.Server {
	serviceName := ""
	if cfg.OTel.Enabled {
		serviceName = cfg.OTel.ServiceName
	}
	return fghttp.NewServer(fghttp.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         serviceName,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		PipelineAPIKey:      cfg.Pipeline.APIKey,
		PipelineHandler:     handlers.Pipeline,
		FundingEventHandler: handlers.FundingEvent,
		InvestorHandler:     handlers.Investor,
		HealthHandler:       handlers.Health,
	})
}
