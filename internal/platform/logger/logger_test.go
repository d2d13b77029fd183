package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "abc123", "company", "Terra CO2", "db_dsn", "postgres://u:p@h/db", "dangling"})
	assert.Equal(t, []interface{}{
		"api_key", "[REDACTED]",
		"company", "Terra CO2",
		"db_dsn", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNewWithOptionsRejectsUnknownLevel(t *testing.T) {
	_, err := NewWithOptions(Options{Mode: "test", Level: "loud"})
	assert.Error(t, err)
}

func TestNewTestModeLogger(t *testing.T) {
	log, err := New("test")
	assert.NoError(t, err)
	log.With("repo", "CompanyRepo").Info("hello", "count", 1)
	log.Sync()
}
