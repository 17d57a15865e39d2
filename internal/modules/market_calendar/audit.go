package market_calendar

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// AuditStatus classifies one audit finding
type AuditStatus string

const (
	// AuditMatched means a table holiday coincides with a rule-derived observance
	AuditMatched AuditStatus = "matched"
	// AuditLiteralOnly means a table holiday has no rule (Good Friday and other moving holidays)
	AuditLiteralOnly AuditStatus = "literal_only"
	// AuditMissing means a rule-derived weekday observance is absent from the table
	AuditMissing AuditStatus = "missing_from_table"
)

// AuditFinding is one row of a holiday table audit
type AuditFinding struct {
	Date   time.Time   `json:"date"`
	Name   string      `json:"name"`
	Status AuditStatus `json:"status"`
	Rule   string      `json:"rule,omitempty"`
}

// exchangeRules are the rule-based US holidays observed by NYSE and NASDAQ
var exchangeRules = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// AuditHolidays cross-checks the holiday table against rule-derived US holidays.
// It is advisory only: classification always follows the tables.
func AuditHolidays(tables *Tables) []AuditFinding {
	business := cal.NewBusinessCalendar()
	business.AddHoliday(exchangeRules...)

	findings := make([]AuditFinding, 0, len(tables.Holidays)+len(exchangeRules))
	inTable := make(map[string]bool, len(tables.Holidays))

	for _, h := range tables.Holidays {
		inTable[dateKey(h.Date)] = true

		_, observed, rule := business.IsHoliday(h.Date)
		if observed && rule != nil {
			findings = append(findings, AuditFinding{Date: h.Date, Name: h.Name, Status: AuditMatched, Rule: rule.Name})
			continue
		}
		findings = append(findings, AuditFinding{Date: h.Date, Name: h.Name, Status: AuditLiteralOnly})
	}

	for _, rule := range exchangeRules {
		_, observed := rule.Calc(tables.Year)
		// A Saturday New Year is observed in the previous year, which the exchange skips
		if observed.Year() != tables.Year {
			continue
		}
		if observed.Weekday() == time.Saturday || observed.Weekday() == time.Sunday {
			continue
		}
		if inTable[dateKey(observed)] {
			continue
		}
		date := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, time.UTC)
		findings = append(findings, AuditFinding{Date: date, Name: rule.Name, Status: AuditMissing, Rule: rule.Name})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Date.Before(findings[j].Date)
	})

	return findings
}
