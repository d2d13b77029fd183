package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/fundgraph-backend/internal/clients/redis"
	"github.com/yungbote/fundgraph-backend/internal/data/db"
	"github.com/yungbote/fundgraph-backend/internal/observability"
	"github.com/yungbote/fundgraph-backend/internal/platform/envutil"
	"github.com/yungbote/fundgraph-backend/internal/services"
)

type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type PipelineConfig struct {
	APIKey string `yaml:"api_key"`
}

type ResolutionConfig struct {
	NormalizeNames bool `yaml:"normalize_names"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Server     ServerConfig             `yaml:"server"`
	Log        LogConfig                `yaml:"log"`
	Database   db.Config                `yaml:"database"`
	Pipeline   PipelineConfig           `yaml:"pipeline"`
	Resolution ResolutionConfig         `yaml:"resolution"`
	Redis      redis.Config             `yaml:"redis"`
	Metrics    MetricsConfig            `yaml:"metrics"`
	OTel       observability.OtelConfig `yaml:"otel"`
	Match      services.MatchRules      `yaml:"match"`
}

func DefaultConfig() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", ShutdownGrace: 10 * time.Second},
		Log:      LogConfig{Mode: "development"},
		Database: db.Config{Driver: db.DriverPostgres, SlowQueryThreshold: 200 * time.Millisecond},
		Redis:    redis.Config{Prefix: "fundgraph", TTL: 5 * time.Minute},
		Metrics:  MetricsConfig{Enabled: true},
		OTel:     observability.OtelConfig{ServiceName: "fundgraph-backend", SampleRatio: 0.1},
		Match:    services.DefaultMatchRules(),
	}
}

// LoadConfig layers defaults, the YAML file at path (or $FUNDGRAPH_CONFIG), then environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = envutil.String("FUNDGRAPH_CONFIG", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = envutil.String("PORT", cfg.Server.Port)
	if origins := envutil.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Log.Mode = envutil.String("LOG_MODE", cfg.Log.Mode)
	cfg.Log.Level = envutil.String("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = envutil.String("LOG_FILE", cfg.Log.File)

	d := &cfg.Database
	d.Driver = strings.ToLower(envutil.String("DB_DRIVER", d.Driver))
	d.DSN = envutil.String("DATABASE_URL", d.DSN)
	d.Host = envutil.String("POSTGRES_HOST", d.Host)
	d.Port = envutil.String("POSTGRES_PORT", d.Port)
	d.User = envutil.String("POSTGRES_USER", d.User)
	d.Password = envutil.String("POSTGRES_PASSWORD", d.Password)
	d.Name = envutil.String("POSTGRES_NAME", d.Name)
	d.SQLitePath = envutil.String("SQLITE_PATH", d.SQLitePath)
	d.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", d.MaxOpenConns)

	cfg.Pipeline.APIKey = envutil.String("INTERNAL_PIPELINE_KEY", cfg.Pipeline.APIKey)
	cfg.Resolution.NormalizeNames = envutil.Bool("NORMALIZE_ENTITY_NAMES", cfg.Resolution.NormalizeNames)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = envutil.Seconds("INVESTOR_CACHE_TTL_SECONDS", cfg.Redis.TTL)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)

	o := &cfg.OTel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName)
	o.Environment = envutil.String("OTEL_ENVIRONMENT", o.Environment)
	o.Version = envutil.String("OTEL_SERVICE_VERSION", o.Version)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		o.Headers = observability.ParseOTLPHeaders(raw)
	}
	if raw := envutil.String("OTEL_TRACES_SAMPLER_ARG", ""); raw != "" {
		var ratio float64
		if _, err := fmt.Sscanf(raw, "%g", &ratio); err == nil {
			o.SampleRatio = ratio
		}
	}
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	for _, b := range c.Match.CheckSizes {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("match.check_sizes: bucket without a name")
		}
		if b.Max > 0 && b.Max < b.Min {
			return fmt.Errorf("match.check_sizes: %s has max below min", b.Name)
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
