package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

func defaultTables(t *testing.T) *market_calendar.Tables {
	t.Helper()
	tables, err := market_calendar.DefaultTables()
	require.NoError(t, err)
	return tables
}

func TestSummarize(t *testing.T) {
	s := Summarize(defaultTables(t))

	total := s.Totals()
	assert.Equal(t, 248, total.Regular)
	assert.Equal(t, 3, total.EarlyCloses)
	assert.Equal(t, 10, total.Holidays)
	assert.Equal(t, 104, total.Weekends)
	assert.Equal(t, 251, total.TradingDays())

	jan := s.Months[0]
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, 2, jan.Holidays) // New Year's Day and MLK Day
	assert.Equal(t, 23, jan.Regular+jan.Holidays)

	jul := s.Months[6]
	assert.Equal(t, 1, jul.EarlyCloses)
	assert.Equal(t, 1, jul.Holidays)

	assert.InDelta(t, 251.0/12.0, s.MeanTradingDays, 1e-9)
	assert.Greater(t, s.StdDevTradingDays, 0.0)
}

func TestSummary_Render(t *testing.T) {
	var buf bytes.Buffer
	Summarize(defaultTables(t)).Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "MONTH")
	assert.Contains(t, out, "January")
	assert.Contains(t, out, "December")
	assert.Contains(t, out, "Trading days per month: mean 20.92")
}

func TestSessionRows(t *testing.T) {
	tables := defaultTables(t)

	rows := SessionRows(tables, false)
	require.Len(t, rows, 251)

	first := rows[0]
	assert.Equal(t, "2025-01-02", first.Date)
	assert.Equal(t, "regular", first.Class)
	assert.Equal(t, "2025-01-02T09:30:00", first.Open)
	assert.Equal(t, "2025-01-02T16:00:00", first.Close)

	for _, row := range rows {
		assert.NotEqual(t, "holiday", row.Class)
		assert.NotEqual(t, "weekend", row.Class)
	}

	all := SessionRows(tables, true)
	assert.Len(t, all, 365)
	assert.Equal(t, "holiday", all[0].Class)
	assert.Empty(t, all[0].Open)
}

func TestWriteSessionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSessionsCSV(&buf, defaultTables(t), false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "date,class,open,close,name", lines[0])
	assert.Len(t, lines, 252)
	assert.Contains(t, buf.String(), "2025-07-03,early_close,2025-07-03T09:30:00,2025-07-03T13:00:00,Independence Day Eve")

	var parsed []*SessionRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &parsed))
	assert.Len(t, parsed, 251)
}
