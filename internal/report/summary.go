// Package report renders human-readable and CSV views of a calendar year.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

// MonthSummary counts day classes within one month
type MonthSummary struct {
	Month       time.Month
	Regular     int
	EarlyCloses int
	Holidays    int
	Weekends    int
}

// TradingDays is the number of days the market opens at all
func (m MonthSummary) TradingDays() int {
	return m.Regular + m.EarlyCloses
}

// Summary is the per-month breakdown of a year
type Summary struct {
	Year   int
	Months [12]MonthSummary
	// Mean and standard deviation of trading days per month
	MeanTradingDays   float64
	StdDevTradingDays float64
}

// Summarize classifies every date of the tables' year
func Summarize(tables *market_calendar.Tables) *Summary {
	s := &Summary{Year: tables.Year}
	for i := range s.Months {
		s.Months[i].Month = time.Month(i + 1)
	}

	for _, session := range market_calendar.NewClassifier(tables).Sessions() {
		m := &s.Months[session.Date.Month()-1]
		switch session.Class {
		case market_calendar.DayRegular:
			m.Regular++
		case market_calendar.DayEarlyClose:
			m.EarlyCloses++
		case market_calendar.DayHoliday:
			m.Holidays++
		case market_calendar.DayWeekend:
			m.Weekends++
		}
	}

	tradingDays := make([]float64, len(s.Months))
	for i, m := range s.Months {
		tradingDays[i] = float64(m.TradingDays())
	}
	s.MeanTradingDays, s.StdDevTradingDays = stat.MeanStdDev(tradingDays, nil)

	return s
}

// Totals sums the monthly counts
func (s *Summary) Totals() MonthSummary {
	var total MonthSummary
	for _, m := range s.Months {
		total.Regular += m.Regular
		total.EarlyCloses += m.EarlyCloses
		total.Holidays += m.Holidays
		total.Weekends += m.Weekends
	}
	return total
}

// Render writes the summary as a text table
func (s *Summary) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Month", "Regular", "Early close", "Holiday", "Weekend", "Trading days"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, m := range s.Months {
		table.Append([]string{
			m.Month.String(),
			strconv.Itoa(m.Regular),
			strconv.Itoa(m.EarlyCloses),
			strconv.Itoa(m.Holidays),
			strconv.Itoa(m.Weekends),
			strconv.Itoa(m.TradingDays()),
		})
	}

	total := s.Totals()
	table.SetFooter([]string{
		strconv.Itoa(s.Year),
		strconv.Itoa(total.Regular),
		strconv.Itoa(total.EarlyCloses),
		strconv.Itoa(total.Holidays),
		strconv.Itoa(total.Weekends),
		strconv.Itoa(total.TradingDays()),
	})
	table.Render()

	fmt.Fprintf(w, "Trading days per month: mean %.2f, stddev %.2f\n", s.MeanTradingDays, s.StdDevTradingDays)
}
