package utils

import (
	"fmt"
	"strings"
	"time"
)

// OrdinalSuffix returns the English ordinal suffix for a day of month
func OrdinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// Ordinal formats a day as "1st", "22nd"
func Ordinal(day int) string {
	return fmt.Sprintf("%d%s", day, OrdinalSuffix(day))
}

// ParseStoredDate parses a DDMMYYYY date
func ParseStoredDate(raw string) (time.Time, bool) {
	t, err := time.Parse(StoredDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatOrdinalDate turns "20092025" into "20th September". Unparseable input passes through.
func FormatOrdinalDate(raw string) string {
	t, ok := ParseStoredDate(raw)
	if !ok {
		return raw
	}
	return Ordinal(t.Day()) + " " + t.Format("January")
}

// FormatOrdinalDateWithYear turns "20092025" into "20th September 2025"
func FormatOrdinalDateWithYear(raw string) string {
	t, ok := ParseStoredDate(raw)
	if !ok {
		return raw
	}
	return Ordinal(t.Day()) + " " + t.Format("January 2006")
}

// FormatLongDate turns "20092025" into "Saturday, 20 September 2025"
func FormatLongDate(raw string) string {
	t, ok := ParseStoredDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Monday, 02 January 2006")
}

// FormatTicketDate renders the departing line printed on tickets
func FormatTicketDate(raw string) string {
	t, ok := ParseStoredDate(raw)
	if !ok {
		return "Departing " + raw
	}
	return t.Format("Departing Mon 02 Jan 2006")
}

// APIDateToStored converts YYYY-MM-DD into DDMMYYYY, passing anything else through
func APIDateToStored(value string) string {
	t, err := time.Parse(APIDateLayout, strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return t.Format(StoredDateLayout)
}

// StoredDateToAPI converts DDMMYYYY into YYYY-MM-DD, passing anything else through
func StoredDateToAPI(raw string) string {
	t, ok := ParseStoredDate(raw)
	if !ok {
		return raw
	}
	return t.Format(APIDateLayout)
}
