package market_calendar

import (
	"fmt"
	"time"
)

// InvalidDateError represents a table date that cannot be constructed
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid date for %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid date for %s %q", e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// ConfigurationError represents tables that are individually valid but inconsistent
type ConfigurationError struct {
	Reason string
	Date   time.Time
}

func (e *ConfigurationError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("calendar configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("calendar configuration error: %s (%s)", e.Reason, e.Date.Format(dateKeyLayout))
}

// WriteError represents a failure to create, write or close the output sink
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write calendar to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
