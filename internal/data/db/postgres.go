package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func postgresDialector(cfg Config) gorm.Dialector {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			orDefault(cfg.User, "postgres"),
			cfg.Password,
			orDefault(cfg.Host, "localhost"),
			orDefault(cfg.Port, "5432"),
			orDefault(cfg.Name, "fundgraph"),
		)
	}
	return postgres.Open(dsn)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
