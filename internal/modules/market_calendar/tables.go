package market_calendar

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// NewDate constructs a floating calendar date, rejecting out-of-range months and days
// instead of normalizing them the way time.Date does.
func NewDate(year, month, day int) (time.Time, error) {
	raw := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if month < 1 || month > 12 {
		return time.Time{}, &InvalidDateError{Field: "month", Value: raw}
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, &InvalidDateError{Field: "day", Value: raw}
	}

	return date, nil
}

// NewDateTime constructs a floating wall-clock timestamp on a validated date
func NewDateTime(year, month, day, hour, minute int) (time.Time, error) {
	date, err := NewDate(year, month, day)
	if err != nil {
		return time.Time{}, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, &InvalidDateError{
			Field: "time",
			Value: fmt.Sprintf("%s %02d:%02d", date.Format(dateKeyLayout), hour, minute),
		}
	}
	return ClockTime{Hour: hour, Minute: minute}.On(date), nil
}

// dateKey normalizes a timestamp to its calendar date for set lookups
func dateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

type literalDay struct {
	month int
	day   int
	label string
}

// US exchange closures for 2025. Good Friday is a literal: moving holidays are never computed.
var usHolidays2025 = []literalDay{
	{1, 1, "New Year's Day"},
	{1, 20, "Martin Luther King Jr. Day"},
	{2, 17, "Presidents Day"},
	{4, 18, "Good Friday"},
	{5, 26, "Memorial Day"},
	{6, 19, "Juneteenth"},
	{7, 4, "Independence Day"},
	{9, 1, "Labor Day"},
	{11, 27, "Thanksgiving Day"},
	{12, 25, "Christmas Day"},
}

// 1:00 PM ET closes
var usEarlyCloses2025 = []literalDay{
	{7, 3, "Independence Day Eve"},
	{11, 28, "Day After Thanksgiving"},
	{12, 24, "Christmas Eve"},
}

// DefaultHours are the NYSE/NASDAQ core session hours
var DefaultHours = TradingHours{
	Open:       ClockTime{Hour: 9, Minute: 30},
	Close:      ClockTime{Hour: 16, Minute: 0},
	EarlyClose: ClockTime{Hour: 13, Minute: 0},
}

// DefaultTables returns the built-in US stock market tables for 2025
func DefaultTables() (*Tables, error) {
	const year = 2025

	tables := &Tables{
		Year:           year,
		Name:           fmt.Sprintf("US Stock Market Schedule %d", year),
		Timezone:       "America/New_York",
		TimezoneAbbrev: "ET",
		Hours:          DefaultHours,
	}

	for _, h := range usHolidays2025 {
		date, err := NewDate(year, h.month, h.day)
		if err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.label, err)
		}
		tables.Holidays = append(tables.Holidays, HolidayEntry{Date: date, Name: h.label})
	}

	for _, e := range usEarlyCloses2025 {
		date, err := NewDate(year, e.month, e.day)
		if err != nil {
			return nil, fmt.Errorf("early close %s: %w", e.label, err)
		}
		tables.EarlyCloses = append(tables.EarlyCloses, EarlyCloseEntry{Date: date, Description: e.label})
	}

	springStart, err := NewDateTime(year, 3, 9, 2, 0)
	if err != nil {
		return nil, err
	}
	fallStart, err := NewDateTime(year, 11, 2, 1, 0)
	if err != nil {
		return nil, err
	}

	tables.DstTransitions = []DstTransition{
		{
			Start:       springStart,
			End:         springStart.Add(time.Hour),
			Label:       "Daylight Saving Time Begins",
			Description: "US markets switch to summer trading hours",
		},
		{
			Start:       fallStart,
			End:         fallStart.Add(time.Hour),
			Label:       "Daylight Saving Time Ends",
			Description: "US markets switch to winter trading hours",
		},
	}

	return tables, nil
}

// Validate checks the tables for collisions and out-of-year dates.
// A date present in both the holiday and early-close tables is rejected rather than
// silently dropped from the calendar.
func (t *Tables) Validate() error {
	if t.Year < 1000 || t.Year > 9999 {
		return &ConfigurationError{Reason: fmt.Sprintf("year %d is not a four-digit year", t.Year)}
	}
	if !t.Hours.Open.Before(t.Hours.Close) {
		return &ConfigurationError{Reason: fmt.Sprintf("session close %s is not after open %s", t.Hours.Close, t.Hours.Open)}
	}
	if !t.Hours.Open.Before(t.Hours.EarlyClose) {
		return &ConfigurationError{Reason: fmt.Sprintf("early close %s is not after open %s", t.Hours.EarlyClose, t.Hours.Open)}
	}

	holidays := make(map[string]bool, len(t.Holidays))
	for _, h := range t.Holidays {
		if h.Date.Year() != t.Year {
			return &ConfigurationError{Reason: fmt.Sprintf("holiday %q outside year %d", h.Name, t.Year), Date: h.Date}
		}
		key := dateKey(h.Date)
		if holidays[key] {
			return &ConfigurationError{Reason: "duplicate holiday date", Date: h.Date}
		}
		holidays[key] = true
	}

	earlyCloses := make(map[string]bool, len(t.EarlyCloses))
	for _, e := range t.EarlyCloses {
		if e.Date.Year() != t.Year {
			return &ConfigurationError{Reason: fmt.Sprintf("early close %q outside year %d", e.Description, t.Year), Date: e.Date}
		}
		key := dateKey(e.Date)
		if earlyCloses[key] {
			return &ConfigurationError{Reason: "duplicate early close date", Date: e.Date}
		}
		if holidays[key] {
			return &ConfigurationError{Reason: "date is both a holiday and an early close", Date: e.Date}
		}
		earlyCloses[key] = true
	}

	if len(t.DstTransitions) != 2 {
		return &ConfigurationError{Reason: fmt.Sprintf("expected 2 DST transitions, got %d", len(t.DstTransitions))}
	}
	for _, d := range t.DstTransitions {
		if !d.End.After(d.Start) {
			return &ConfigurationError{Reason: fmt.Sprintf("DST transition %q ends before it starts", d.Label), Date: d.Start}
		}
	}

	return nil
}
