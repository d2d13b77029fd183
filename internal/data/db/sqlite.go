package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite" // registers the cgo-free "sqlite" database/sql driver
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

func sqliteDialector(cfg Config) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        SQLiteDSN(cfg.SQLitePath),
	})
}

// SQLiteDSN appends the pragmas every connection needs; ":memory:" maps to a private in-memory db.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		path = "file:fundgraph.db"
	case ":memory:":
		path = "file::memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}
