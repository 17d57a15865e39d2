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

// setupEnv points the CLI at temp directories and keeps logs quiet
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MARKETCAL_OUTPUT_DIR", dir)
	t.Setenv("MARKETCAL_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MARKETCAL_ARCHIVE", "false")
	t.Setenv("MARKETCAL_STYLE", "")
	t.Setenv("MARKETCAL_TABLES_FILE", "")
	t.Setenv("MARKETCAL_S3_BUCKET", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PRETTY", "false")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// A nil slice makes cobra fall back to os.Args, which carries the test flags
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_GeneratesByDefault(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, successMessage+"\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "us_stock_market_calendar_2025.ics"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR\nVERSION:2.0\n"))
	assert.Equal(t, 263, strings.Count(string(data), "BEGIN:VEVENT"))
}

func TestGenerateCommand_StrictStyle(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "generate", "--style", "strict")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "us_stock_market_calendar_2025.ics"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\r\n")
	assert.Equal(t, 263, strings.Count(string(data), "UID:"))
}

func TestGenerateCommand_WithArchive(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("MARKETCAL_ARCHIVE", "true")

	_, err := execute(t, "generate")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "data", "marketcal.db"))
	assert.NoError(t, err)
}

func TestCommands_DefaultLeavesNoDataDir(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("MARKETCAL_ARCHIVE", "")

	for _, args := range [][]string{nil, {"summary"}, {"audit"}, {"sessions"}} {
		_, err := execute(t, args...)
		require.NoError(t, err, "args %v", args)
	}

	_, err := os.Stat(filepath.Join(dir, "data"))
	assert.True(t, os.IsNotExist(err), "data directory created without archiving enabled")

	_, err = os.Stat(filepath.Join(dir, "us_stock_market_calendar_2025.ics"))
	assert.NoError(t, err)
}

func TestGenerateCommand_UnwritableOutput(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "generate", "-o", filepath.Join(dir, "missing", "dir"))
	require.Error(t, err)
	assert.NotContains(t, out, successMessage)
}

func TestGenerateCommand_InvalidStyle(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "generate", "--style", "fancy")
	assert.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "January")
	assert.Contains(t, out, "Trading days per month")
}

func TestAuditCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "audit", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Good Friday")
	assert.Contains(t, out, "literal_only")
}

func TestSessionsCommand(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "sessions")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "date,class,open,close,name\n"))

	path := filepath.Join(dir, "sessions.csv")
	_, err = execute(t, "sessions", "--all", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 366)
}
