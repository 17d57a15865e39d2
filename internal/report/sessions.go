package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

const floatingLayout = "2006-01-02T15:04:05"

// SessionRow is one CSV line of the sessions export
type SessionRow struct {
	Date  string `csv:"date"`
	Class string `csv:"class"`
	Open  string `csv:"open"`
	Close string `csv:"close"`
	Name  string `csv:"name"`
}

// SessionRows returns one row per trading day of the tables' year, ascending.
// With all set, weekends and holidays are included with empty open/close.
func SessionRows(tables *market_calendar.Tables, all bool) []*SessionRow {
	sessions := market_calendar.NewClassifier(tables).Sessions()

	rows := make([]*SessionRow, 0, len(sessions))
	for _, session := range sessions {
		if !all && !session.IsTradingDay() {
			continue
		}
		row := &SessionRow{
			Date:  session.Date.Format("2006-01-02"),
			Class: string(session.Class),
			Name:  session.Name,
		}
		if session.IsTradingDay() {
			row.Open = session.Open.Format(floatingLayout)
			row.Close = session.Close.Format(floatingLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSessionsCSV writes the sessions export to w
func WriteSessionsCSV(w io.Writer, tables *market_calendar.Tables, all bool) error {
	rows := SessionRows(tables, all)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write sessions csv: %w", err)
	}
	return nil
}
