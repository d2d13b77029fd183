package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/fundgraph-backend/internal/http/handlers"
	httpMW "github.com/yungbote/fundgraph-backend/internal/http/middleware"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	PipelineAPIKey string

	PipelineHandler     *httpH.PipelineHandler
	FundingEventHandler *httpH.FundingEventHandler
	InvestorHandler     *httpH.InvestorHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Pipeline (x-api-key)
		if cfg.PipelineHandler != nil {
			api.POST("/ingest-scraped-data", httpMW.RequireAPIKey(cfg.PipelineAPIKey), cfg.PipelineHandler.IngestScrapedData)
		}

		// Events
		if cfg.FundingEventHandler != nil {
			api.GET("/events/search", cfg.FundingEventHandler.Search)
		}

		// Investors
		if cfg.InvestorHandler != nil {
			api.GET("/investors", cfg.InvestorHandler.List)
			api.GET("/investors/timeline", cfg.InvestorHandler.Timeline)
			api.GET("/investors/matches", cfg.InvestorHandler.Matches)
			api.GET("/investors/:id", cfg.InvestorHandler.Get)
		}
	}

	return r
}
