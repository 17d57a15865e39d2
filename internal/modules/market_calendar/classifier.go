package market_calendar

import "time"

// Classifier answers day-class questions by date equality against the tables.
// It never infers holidays from weekday-of-month or Easter rules.
type Classifier struct {
	tables      *Tables
	holidays    map[string]string
	earlyCloses map[string]string
}

// NewClassifier indexes the holiday and early-close tables for lookup
func NewClassifier(tables *Tables) *Classifier {
	c := &Classifier{
		tables:      tables,
		holidays:    make(map[string]string, len(tables.Holidays)),
		earlyCloses: make(map[string]string, len(tables.EarlyCloses)),
	}
	for _, h := range tables.Holidays {
		c.holidays[dateKey(h.Date)] = h.Name
	}
	for _, e := range tables.EarlyCloses {
		c.earlyCloses[dateKey(e.Date)] = e.Description
	}
	return c
}

// Classify returns the class of a date. Holiday wins over early close, which
// Tables.Validate already rules out.
func (c *Classifier) Classify(date time.Time) DayClass {
	class, _ := c.classify(date)
	return class
}

func (c *Classifier) classify(date time.Time) (DayClass, string) {
	if date.Year() != c.tables.Year {
		return DayOutOfRange, ""
	}
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return DayWeekend, ""
	}

	key := dateKey(date)
	if name, ok := c.holidays[key]; ok {
		return DayHoliday, name
	}
	if desc, ok := c.earlyCloses[key]; ok {
		return DayEarlyClose, desc
	}
	return DayRegular, ""
}

// Session returns the trading window of a date; Open/Close are zero when the market is shut
func (c *Classifier) Session(date time.Time) Session {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	class, name := c.classify(day)

	session := Session{Date: day, Class: class, Name: name}
	switch class {
	case DayRegular:
		session.Open = c.tables.Hours.Open.On(day)
		session.Close = c.tables.Hours.Close.On(day)
	case DayEarlyClose:
		session.Open = c.tables.Hours.Open.On(day)
		session.Close = c.tables.Hours.EarlyClose.On(day)
	}
	return session
}

// Sessions returns one Session per calendar date of the year, ascending
func (c *Classifier) Sessions() []Session {
	first := time.Date(c.tables.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(c.tables.Year, time.December, 31, 0, 0, 0, 0, time.UTC)

	sessions := make([]Session, 0, 366)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		sessions = append(sessions, c.Session(day))
	}
	return sessions
}
