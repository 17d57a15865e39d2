package market_calendar

import (
	"fmt"
	"time"
)

// Transparency marks whether an event blocks time or is informational
type Transparency string

const (
	// Opaque events represent a closure or other notable condition
	Opaque Transparency = "OPAQUE"
	// Transparent events are informational and do not block
	Transparent Transparency = "TRANSPARENT"
)

// DayClass is the trading classification of a calendar date
type DayClass string

const (
	DayWeekend    DayClass = "weekend"
	DayHoliday    DayClass = "holiday"
	DayEarlyClose DayClass = "early_close"
	DayRegular    DayClass = "regular"
	DayOutOfRange DayClass = "out_of_range"
)

// ClockTime is a wall-clock time of day on the exchange clock
type ClockTime struct {
	Hour   int // Hour (0-23)
	Minute int // Minute (0-59)
}

// On returns the clock time on the given date as a floating timestamp
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// Before reports whether c is strictly earlier in the day than other
func (c ClockTime) Before(other ClockTime) bool {
	return c.Hour*60+c.Minute < other.Hour*60+other.Minute
}

// Label formats the clock time the way session descriptions show it, e.g. "9:30 AM"
func (c ClockTime) Label() string {
	return c.On(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)).Format("3:04 PM")
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// TradingHours represents the session windows of the exchange
type TradingHours struct {
	Open       ClockTime
	Close      ClockTime
	EarlyClose ClockTime
}

// HolidayEntry is a full-day market closure
type HolidayEntry struct {
	Date time.Time
	Name string
}

// EarlyCloseEntry is a partial trading day ending at TradingHours.EarlyClose
type EarlyCloseEntry struct {
	Date        time.Time
	Description string
}

// DstTransition is a fixed one-hour window marking a clock change.
// Start and End are floating local wall-clock values.
type DstTransition struct {
	Start       time.Time
	End         time.Time
	Label       string
	Description string
}

// Tables holds everything needed to build one year of the calendar.
// Dates are floating (carried in time.UTC, rendered without a zone suffix).
type Tables struct {
	Year           int
	Name           string // Calendar display name, e.g. "US Stock Market Schedule 2025"
	Timezone       string // IANA name advertised in the calendar header
	TimezoneAbbrev string // Suffix used in session descriptions, e.g. "ET"
	Hours          TradingHours
	Holidays       []HolidayEntry
	EarlyCloses    []EarlyCloseEntry
	DstTransitions []DstTransition
}

// CalendarEvent is one emitted calendar entry.
// AllDay events carry date-only Start/End with End exclusive.
type CalendarEvent struct {
	Start        time.Time    `json:"start" msgpack:"start"`
	End          time.Time    `json:"end" msgpack:"end"`
	AllDay       bool         `json:"all_day" msgpack:"all_day"`
	Summary      string       `json:"summary" msgpack:"summary"`
	Description  string       `json:"description" msgpack:"description"`
	Transparency Transparency `json:"transparency" msgpack:"transparency"`
	Kind         EventKind    `json:"kind" msgpack:"kind"`
}

// EventKind tells which table produced an event
type EventKind string

const (
	KindDST        EventKind = "dst"
	KindHoliday    EventKind = "holiday"
	KindEarlyClose EventKind = "early_close"
	KindRegular    EventKind = "regular"
)

// Session is the trading window of a single day
type Session struct {
	Date  time.Time `json:"date"`
	Class DayClass  `json:"class"`
	Open  time.Time `json:"open,omitempty"`
	Close time.Time `json:"close,omitempty"`
	Name  string    `json:"name,omitempty"` // Holiday name or early-close description
}

// IsTradingDay reports whether the market trades at all on the session's date
func (s Session) IsTradingDay() bool {
	return s.Class == DayRegular || s.Class == DayEarlyClose
}
