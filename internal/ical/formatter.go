// Package ical renders market calendar events as iCalendar text.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

const (
	floatingDateTimeFormat = "20060102T150405"
	utcDateTimeFormat      = "20060102T150405Z"
	dateFormat             = "20060102"

	// DefaultProdID is the PRODID of published calendars
	DefaultProdID = "-//Anthropic//Stock Market Calendar Generator//EN"

	maxLineOctets = 75
)

// Style selects the output dialect
type Style string

const (
	// StyleReference reproduces the published file byte for byte: LF endings, blank
	// lines between blocks, no UID/DTSTAMP, no escaping and no folding.
	StyleReference Style = "reference"
	// StyleStrict follows RFC 5545: CRLF endings, UID/DTSTAMP, TEXT escaping and folding.
	StyleStrict Style = "strict"
)

// ParseStyle maps a configuration value onto a Style
func ParseStyle(value string) (Style, error) {
	switch Style(strings.ToLower(value)) {
	case StyleReference, "":
		return StyleReference, nil
	case StyleStrict:
		return StyleStrict, nil
	}
	return "", fmt.Errorf("unknown calendar style %q", value)
}

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("marketcal"))

// Calendar is the envelope around a sequence of events
type Calendar struct {
	Name     string
	Timezone string
	ProdID   string
	Events   []market_calendar.CalendarEvent
}

// NewCalendar wraps built events with the header fields from their tables
func NewCalendar(tables *market_calendar.Tables, events []market_calendar.CalendarEvent) *Calendar {
	return &Calendar{
		Name:     tables.Name,
		Timezone: tables.Timezone,
		ProdID:   DefaultProdID,
		Events:   events,
	}
}

// Options controls rendering
type Options struct {
	Style Style
	// Stamp is written as DTSTAMP in strict style; zero means time.Now()
	Stamp time.Time
}

// Format converts a calendar into iCalendar text
func Format(cal *Calendar, opts Options) string {
	var builder strings.Builder
	_ = Write(&builder, cal, opts)
	return builder.String()
}

// Write streams the rendered calendar to w
func Write(w io.Writer, cal *Calendar, opts Options) error {
	lw := newLineWriter(w, opts.Style)
	if opts.Style == StyleStrict && opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	prodID := cal.ProdID
	if prodID == "" {
		prodID = DefaultProdID
	}

	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + prodID)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("METHOD:PUBLISH")
	lw.line("X-WR-CALNAME:" + lw.text(cal.Name))
	if cal.Timezone != "" {
		lw.line("X-WR-TIMEZONE:" + cal.Timezone)
	}

	for i := range cal.Events {
		if i > 0 {
			lw.separator()
		}
		writeEvent(lw, &cal.Events[i], opts)
	}

	lw.separator()
	lw.line("END:VCALENDAR")

	return lw.err
}

func writeEvent(lw *lineWriter, event *market_calendar.CalendarEvent, opts Options) {
	lw.line("BEGIN:VEVENT")

	if opts.Style == StyleStrict {
		lw.line("UID:" + EventUID(event))
		lw.line("DTSTAMP:" + opts.Stamp.UTC().Format(utcDateTimeFormat))
	}

	if event.AllDay {
		lw.line("DTSTART;VALUE=DATE:" + event.Start.Format(dateFormat))
		lw.line("DTEND;VALUE=DATE:" + event.End.Format(dateFormat))
	} else {
		lw.line("DTSTART:" + event.Start.Format(floatingDateTimeFormat))
		lw.line("DTEND:" + event.End.Format(floatingDateTimeFormat))
	}

	lw.line("SUMMARY:" + lw.text(event.Summary))
	lw.line("DESCRIPTION:" + lw.text(event.Description))
	lw.line("TRANSP:" + string(event.Transparency))
	lw.line("END:VEVENT")
}

// EventUID derives a stable UID from the event's start and summary
func EventUID(event *market_calendar.CalendarEvent) string {
	key := event.Start.Format(floatingDateTimeFormat) + "|" + event.Summary
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@marketcal"
}

// lineWriter applies the line ending, separator and folding rules of a style.
// The first write error is kept and later writes are skipped.
type lineWriter struct {
	w       io.Writer
	style   Style
	pending bool // reference style: a line is buffered awaiting its "\n"
	err     error
}

func newLineWriter(w io.Writer, style Style) *lineWriter {
	return &lineWriter{w: w, style: style}
}

func (lw *lineWriter) write(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s)
}

// line emits one content line
func (lw *lineWriter) line(s string) {
	if lw.style == StyleStrict {
		lw.write(fold(s) + "\r\n")
		return
	}
	// Reference output joins lines with "\n" and has no trailing newline
	if lw.pending {
		lw.write("\n")
	}
	lw.write(s)
	lw.pending = true
}

// separator emits the blank line the reference output places between blocks
func (lw *lineWriter) separator() {
	if lw.style == StyleStrict {
		return
	}
	lw.line("")
}

// text escapes TEXT values in strict style only
func (lw *lineWriter) text(s string) string {
	if lw.style != StyleStrict {
		return s
	}
	return escapeText(s)
}

func escapeText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}

// fold splits a content line into 75-octet chunks without breaking UTF-8 sequences
func fold(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var builder strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			// No rune start within the limit: the bytes are not UTF-8, cut at the octet limit
			cut = limit
		}
		builder.WriteString(line[:cut])
		builder.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines spend one octet on the leading space
		limit = maxLineOctets - 1
	}
	builder.WriteString(line)
	return builder.String()
}
