package market_calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const tables2026 = `
year: 2026
hours:
  open: "09:30"
  close: "16:00"
  early_close: "13:00"
holidays:
  - date: 2026-01-01
    name: New Year's Day
  - date: 2026-04-03
    name: Good Friday
early_closes:
  - date: 2026-11-27
    description: Day After Thanksgiving
dst_transitions:
  - start: 2026-03-08T02:00
    end: 2026-03-08T03:00
    label: Daylight Saving Time Begins
    description: US markets switch to summer trading hours
  - start: 2026-11-01T01:00
    end: 2026-11-01T02:00
    label: Daylight Saving Time Ends
    description: US markets switch to winter trading hours
`

func TestParseTables(t *testing.T) {
	tables, err := ParseTables([]byte(tables2026))
	require.NoError(t, err)

	assert.Equal(t, 2026, tables.Year)
	assert.Equal(t, "US Stock Market Schedule 2026", tables.Name)
	assert.Equal(t, "America/New_York", tables.Timezone)
	assert.Equal(t, "ET", tables.TimezoneAbbrev)
	assert.Equal(t, DefaultHours, tables.Hours)
	require.Len(t, tables.Holidays, 2)
	assert.Equal(t, day(2026, time.April, 3), tables.Holidays[1].Date)
	assert.Equal(t, "Good Friday", tables.Holidays[1].Name)
	require.Len(t, tables.DstTransitions, 2)
	assert.Equal(t, time.Date(2026, 3, 8, 2, 0, 0, 0, time.UTC), tables.DstTransitions[0].Start)

	events, err := Build(tables)
	require.NoError(t, err)
	assert.Equal(t, CountEvents(events).Total(), len(events))
}

func TestParseTables_InvalidDate(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "February 30",
			doc:   "year: 2025\nholidays:\n  - date: 2025-02-30\n    name: Nope\n",
			field: "holidays[0].date",
		},
		{
			name:  "month 13",
			doc:   "year: 2025\nearly_closes:\n  - date: 2025-13-01\n    description: Nope\n",
			field: "early_closes[0].date",
		},
		{
			name:  "bad DST clock",
			doc:   "year: 2025\ndst_transitions:\n  - start: 2025-03-09T25:00\n    end: 2025-03-09T03:00\n",
			field: "dst_transitions[0].start",
		},
		{
			name:  "bad session time",
			doc:   "year: 2025\nhours:\n  open: \"9h30\"\n",
			field: "hours.open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.doc))
			require.Error(t, err)

			var dateErr *InvalidDateError
			require.True(t, errors.As(err, &dateErr), "expected InvalidDateError, got %v", err)
			assert.Equal(t, tt.field, dateErr.Field)
		})
	}
}

func TestParseTables_Collision(t *testing.T) {
	doc := `
year: 2026
holidays:
  - date: 2026-12-24
    name: Christmas Eve
early_closes:
  - date: 2026-12-24
    description: Christmas Eve
dst_transitions:
  - start: 2026-03-08T02:00
    end: 2026-03-08T03:00
  - start: 2026-11-01T01:00
    end: 2026-11-01T02:00
`
	_, err := ParseTables([]byte(doc))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
	assert.Equal(t, day(2026, time.December, 24), cfgErr.Date)
}

func TestParseTables_MalformedYAML(t *testing.T) {
	_, err := ParseTables([]byte("year: [unterminated"))
	assert.Error(t, err)
}

func TestLoadTables_RoundTripsDefaults(t *testing.T) {
	tables := defaultTables(t)

	data, err := yaml.Marshal(tables)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, tables, loaded)
}

func TestLoadTables_MissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
