package observability

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op so callers never branch.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	ingestRecords  *prometheus.CounterVec
	ingestEntities *prometheus.CounterVec
	ingestBatch    prometheus.Histogram

	cacheLookups *prometheus.CounterVec
	redisUp      prometheus.Gauge
	redisPing    prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics once; disabled returns nil.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		instance.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// NewMetrics returns metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fg_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fg_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fg_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		ingestRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fg_ingest_records_total",
			Help: "Deal records handled by the ingestion pipeline by outcome.",
		}, []string{"outcome"}),
		ingestEntities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fg_ingest_entities_total",
			Help: "Entities created or enriched by ingestion.",
		}, []string{"entity", "action"}),
		ingestBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fg_ingest_batch_duration_seconds",
			Help:    "Wall time of one ingestion batch.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fg_investor_cache_lookups_total",
			Help: "Investor aggregate cache lookups by result.",
		}, []string{"result"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fg_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fg_redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
	m.registry.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.ingestRecords, m.ingestEntities, m.ingestBatch,
		m.cacheLookups, m.redisUp, m.redisPing,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// outcome is "processed" or "failed".
func (m *Metrics) IncIngestRecord(outcome string) {
	if m == nil {
		return
	}
	m.ingestRecords.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddIngestEntities(entity, action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingestEntities.WithLabelValues(entity, action).Add(float64(n))
}

func (m *Metrics) ObserveIngestBatch(dur time.Duration) {
	if m == nil {
		return
	}
	m.ingestBatch.Observe(dur.Seconds())
}

// result is "hit", "miss" or "error".
func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RegisterDBStats exports database/sql pool stats for db.
func (m *Metrics) RegisterDBStats(db *gorm.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return m.registry.Register(collectors.NewDBStatsCollector(sqlDB, name))
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
