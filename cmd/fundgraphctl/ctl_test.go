package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCtl(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-mode", "test"))
	err := cmd.Execute()
	return out.String(), err
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FUNDGRAPH_CONFIG", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "fg.db"))
	t.Setenv("REDIS_ADDR", "")
}

func TestIngestFencedFileTwice(t *testing.T) {
	sqliteEnv(t)
	path := filepath.Join(t.TempDir(), "deals.json")
	body := "```json\n[{\"companyName\":\"Terra CO2\",\"fundingStage\":\"Series B\",\"leadInvestors\":[\"BEV\"]}]\n```\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := runCtl(t, "", "ingest", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 new funding rounds created, and 1 new investor links established")

	out, err = runCtl(t, "", "ingest", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 new funding rounds created, and 0 new investor links established")
}

func TestIngestStdinAndErrors(t *testing.T) {
	sqliteEnv(t)
	out, err := runCtl(t, `{"deals":[{"companyName":"SunGrid","fundingStage":"Seed"}]}`, "ingest", "-f", "-")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 new funding rounds created")

	_, err = runCtl(t, `{"deals":"x"}`, "ingest", "-f", "-")
	assert.Error(t, err)

	_, err = runCtl(t, "", "ingest")
	assert.Error(t, err, "--file is required")
}

func TestSeedAndMigrate(t *testing.T) {
	sqliteEnv(t)
	out, err := runCtl(t, "", "migrate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "schema up to date (sqlite)")

	out, err = runCtl(t, "", "seed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 new funding rounds created, and 4 new investor links established")
}
