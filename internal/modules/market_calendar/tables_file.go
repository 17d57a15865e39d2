package market_calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TablesFile is the YAML representation of Tables
type TablesFile struct {
	Year           int              `yaml:"year"`
	Name           string           `yaml:"name,omitempty"`
	Timezone       string           `yaml:"timezone,omitempty"`
	TimezoneAbbrev string           `yaml:"timezone_abbrev,omitempty"`
	Hours          *HoursFile       `yaml:"hours,omitempty"`
	Holidays       []HolidayFile    `yaml:"holidays"`
	EarlyCloses    []EarlyCloseFile `yaml:"early_closes"`
	DstTransitions []DstFile        `yaml:"dst_transitions"`
}

// HoursFile holds session times as "HH:MM"
type HoursFile struct {
	Open       string `yaml:"open"`
	Close      string `yaml:"close"`
	EarlyClose string `yaml:"early_close"`
}

// HolidayFile is a holiday row; Date is "YYYY-MM-DD"
type HolidayFile struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// EarlyCloseFile is an early-close row; Date is "YYYY-MM-DD"
type EarlyCloseFile struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

// DstFile is a DST window; Start and End are "YYYY-MM-DDTHH:MM"
type DstFile struct {
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

const (
	fileDateLayout     = "2006-01-02"
	fileDateTimeLayout = "2006-01-02T15:04"
	fileClockLayout    = "15:04"
)

// LoadTables reads calendar tables from a YAML file
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes YAML calendar tables and validates them
func ParseTables(data []byte) (*Tables, error) {
	var file TablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tables file: %w", err)
	}

	tables, err := file.toTables()
	if err != nil {
		return nil, err
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (f *TablesFile) toTables() (*Tables, error) {
	tables := &Tables{
		Year:           f.Year,
		Name:           f.Name,
		Timezone:       f.Timezone,
		TimezoneAbbrev: f.TimezoneAbbrev,
		Hours:          DefaultHours,
	}

	// Set defaults
	if tables.Name == "" {
		tables.Name = fmt.Sprintf("US Stock Market Schedule %d", f.Year)
	}
	if tables.Timezone == "" {
		tables.Timezone = "America/New_York"
	}
	if tables.TimezoneAbbrev == "" {
		tables.TimezoneAbbrev = "ET"
	}

	if f.Hours != nil {
		var err error
		if tables.Hours.Open, err = parseClock("hours.open", f.Hours.Open, DefaultHours.Open); err != nil {
			return nil, err
		}
		if tables.Hours.Close, err = parseClock("hours.close", f.Hours.Close, DefaultHours.Close); err != nil {
			return nil, err
		}
		if tables.Hours.EarlyClose, err = parseClock("hours.early_close", f.Hours.EarlyClose, DefaultHours.EarlyClose); err != nil {
			return nil, err
		}
	}

	for i, h := range f.Holidays {
		date, err := parseFileTime(fmt.Sprintf("holidays[%d].date", i), fileDateLayout, h.Date)
		if err != nil {
			return nil, err
		}
		tables.Holidays = append(tables.Holidays, HolidayEntry{Date: date, Name: h.Name})
	}

	for i, e := range f.EarlyCloses {
		date, err := parseFileTime(fmt.Sprintf("early_closes[%d].date", i), fileDateLayout, e.Date)
		if err != nil {
			return nil, err
		}
		tables.EarlyCloses = append(tables.EarlyCloses, EarlyCloseEntry{Date: date, Description: e.Description})
	}

	for i, d := range f.DstTransitions {
		start, err := parseFileTime(fmt.Sprintf("dst_transitions[%d].start", i), fileDateTimeLayout, d.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseFileTime(fmt.Sprintf("dst_transitions[%d].end", i), fileDateTimeLayout, d.End)
		if err != nil {
			return nil, err
		}
		tables.DstTransitions = append(tables.DstTransitions, DstTransition{
			Start:       start,
			End:         end,
			Label:       d.Label,
			Description: d.Description,
		})
	}

	return tables, nil
}

func parseFileTime(field, layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

func parseClock(field, value string, fallback ClockTime) (ClockTime, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(fileClockLayout, value)
	if err != nil {
		return ClockTime{}, &InvalidDateError{Field: field, Value: value, Err: err}
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ToFile converts tables back into their YAML representation
func (t *Tables) ToFile() *TablesFile {
	file := &TablesFile{
		Year:           t.Year,
		Name:           t.Name,
		Timezone:       t.Timezone,
		TimezoneAbbrev: t.TimezoneAbbrev,
		Hours: &HoursFile{
			Open:       t.Hours.Open.String(),
			Close:      t.Hours.Close.String(),
			EarlyClose: t.Hours.EarlyClose.String(),
		},
	}
	for _, h := range t.Holidays {
		file.Holidays = append(file.Holidays, HolidayFile{Date: h.Date.Format(fileDateLayout), Name: h.Name})
	}
	for _, e := range t.EarlyCloses {
		file.EarlyCloses = append(file.EarlyCloses, EarlyCloseFile{Date: e.Date.Format(fileDateLayout), Description: e.Description})
	}
	for _, d := range t.DstTransitions {
		file.DstTransitions = append(file.DstTransitions, DstFile{
			Start:       d.Start.Format(fileDateTimeLayout),
			End:         d.End.Format(fileDateTimeLayout),
			Label:       d.Label,
			Description: d.Description,
		})
	}
	return file
}

// MarshalYAML renders tables as a YAML document that ParseTables accepts
func (t *Tables) MarshalYAML() (interface{}, error) {
	return t.ToFile(), nil
}
