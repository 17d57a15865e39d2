package testing

import (
	"testing"
	"time"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

// Date returns a date-only floating timestamp
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewTablesFixture returns the built-in 2025 tables, failing the test on error
func NewTablesFixture(t *testing.T) *market_calendar.Tables {
	t.Helper()
	tables, err := market_calendar.DefaultTables()
	if err != nil {
		t.Fatalf("Failed to build default tables: %v", err)
	}
	return tables
}

// NewMinimalTablesFixture returns a valid year with a single holiday and early close.
// Jan 1 2026 is a Thursday holiday and Jan 2 2026 a Friday early close.
func NewMinimalTablesFixture() *market_calendar.Tables {
	return &market_calendar.Tables{
		Year:           2026,
		Name:           "US Stock Market Schedule 2026",
		Timezone:       "America/New_York",
		TimezoneAbbrev: "ET",
		Hours:          market_calendar.DefaultHours,
		Holidays: []market_calendar.HolidayEntry{
			{Date: Date(2026, time.January, 1), Name: "New Year's Day"},
		},
		EarlyCloses: []market_calendar.EarlyCloseEntry{
			{Date: Date(2026, time.January, 2), Description: "Day After New Year"},
		},
		DstTransitions: []market_calendar.DstTransition{
			{
				Start:       time.Date(2026, time.March, 8, 2, 0, 0, 0, time.UTC),
				End:         time.Date(2026, time.March, 8, 3, 0, 0, 0, time.UTC),
				Label:       "Daylight Saving Time Begins",
				Description: "US markets switch to summer trading hours",
			},
			{
				Start:       time.Date(2026, time.November, 1, 1, 0, 0, 0, time.UTC),
				End:         time.Date(2026, time.November, 1, 2, 0, 0, 0, time.UTC),
				Label:       "Daylight Saving Time Ends",
				Description: "US markets switch to winter trading hours",
			},
		},
	}
}

// NewCollidingTablesFixture returns tables whose first holiday is also an early close
func NewCollidingTablesFixture(t *testing.T) *market_calendar.Tables {
	t.Helper()
	tables := NewTablesFixture(t)
	tables.EarlyCloses = append(tables.EarlyCloses, market_calendar.EarlyCloseEntry{
		Date:        tables.Holidays[0].Date,
		Description: "Collision",
	})
	return tables
}
