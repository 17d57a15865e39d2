package market_calendar

import (
	"fmt"
	"time"
)

const (
	holidaySummaryFormat    = "Market Closed - %s"
	earlyCloseSummaryFormat = "Early Close - %s"
	regularSummary          = "Regular Trading Hours"
	holidayDescription      = "US Stock Market Holiday - Full Day Closure"
)

// Build produces the ordered event sequence for the tables' year:
// DST transitions, then holidays and early closes in table order, then one
// regular session per remaining weekday in ascending date order.
// The returned slice is freshly allocated; tables are not modified.
func Build(tables *Tables) ([]CalendarEvent, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	classifier := NewClassifier(tables)
	hours := tables.Hours

	events := make([]CalendarEvent, 0, len(tables.DstTransitions)+len(tables.Holidays)+len(tables.EarlyCloses)+262)

	for _, d := range tables.DstTransitions {
		events = append(events, CalendarEvent{
			Start:        d.Start,
			End:          d.End,
			Summary:      d.Label,
			Description:  d.Description,
			Transparency: Opaque,
			Kind:         KindDST,
		})
	}

	for _, h := range tables.Holidays {
		events = append(events, CalendarEvent{
			Start:        h.Date,
			End:          h.Date.AddDate(0, 0, 1),
			AllDay:       true,
			Summary:      fmt.Sprintf(holidaySummaryFormat, h.Name),
			Description:  holidayDescription,
			Transparency: Opaque,
			Kind:         KindHoliday,
		})
	}

	earlyDescription := fmt.Sprintf("Early Market Closure - Trading Hours %s - %s %s",
		hours.Open.Label(), hours.EarlyClose.Label(), tables.TimezoneAbbrev)
	for _, e := range tables.EarlyCloses {
		events = append(events, CalendarEvent{
			Start:        hours.Open.On(e.Date),
			End:          hours.EarlyClose.On(e.Date),
			Summary:      fmt.Sprintf(earlyCloseSummaryFormat, e.Description),
			Description:  earlyDescription,
			Transparency: Opaque,
			Kind:         KindEarlyClose,
		})
	}

	regularDescription := fmt.Sprintf("Normal US Stock Market Trading Session (%s - %s %s)",
		hours.Open.Label(), hours.Close.Label(), tables.TimezoneAbbrev)
	first := time.Date(tables.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(tables.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if classifier.Classify(day) != DayRegular {
			continue
		}
		events = append(events, CalendarEvent{
			Start:        hours.Open.On(day),
			End:          hours.Close.On(day),
			Summary:      regularSummary,
			Description:  regularDescription,
			Transparency: Transparent,
			Kind:         KindRegular,
		})
	}

	return events, nil
}

// Counts tallies built events by kind
type Counts struct {
	DST         int `json:"dst" msgpack:"dst"`
	Holidays    int `json:"holidays" msgpack:"holidays"`
	EarlyCloses int `json:"early_closes" msgpack:"early_closes"`
	Regular     int `json:"regular" msgpack:"regular"`
}

// Total returns the number of events counted
func (c Counts) Total() int {
	return c.DST + c.Holidays + c.EarlyCloses + c.Regular
}

// CountEvents tallies events by kind
func CountEvents(events []CalendarEvent) Counts {
	var counts Counts
	for _, e := range events {
		switch e.Kind {
		case KindDST:
			counts.DST++
		case KindHoliday:
			counts.Holidays++
		case KindEarlyClose:
			counts.EarlyCloses++
		case KindRegular:
			counts.Regular++
		}
	}
	return counts
}
