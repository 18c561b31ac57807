// Package core holds the financial domain model and the pure
// aggregation logic behind the dashboard and balance backfill.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Full Indonesian month names, index 0 = Januari.
var namaBulan = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Chart label abbreviations, index 0 = Jan.
var singkatanBulan = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// Fallback layouts tried, in order, when the localized pattern does not match.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTanggal parses a date string as stored or displayed by the system.
// The primary form is the localized "2 Juli 2025 pukul 07.00" (the "pukul"
// time part is optional); anything else falls through to a fixed set of
// timestamp layouts. The second return value is false when nothing matched;
// callers must treat that as "unknown date" and never panic on it. The
// zero time is the sentinel for unknown, which sorts as earliest.
func ParseTanggal(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseLokal(s); ok {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseLokal handles "<day> <MonthName> <year>[ pukul <hour>.<minute>]".
func parseLokal(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 5 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := bulanIndex(fields[1])
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil || year < 1 {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if len(fields) == 5 {
		if !strings.EqualFold(fields[3], "pukul") {
			return time.Time{}, false
		}
		hh, mm, found := strings.Cut(fields[4], ".")
		if !found {
			return time.Time{}, false
		}
		hour, err = strconv.Atoi(hh)
		if err != nil || hour < 0 || hour > 23 {
			return time.Time{}, false
		}
		minute, err = strconv.Atoi(mm)
		if err != nil || minute < 0 || minute > 59 {
			return time.Time{}, false
		}
	}

	return time.Date(year, time.Month(month+1), day, hour, minute, 0, 0, time.UTC), true
}

// bulanIndex resolves a month name (full or chart abbreviation) to its
// zero-based index, case-insensitively.
func bulanIndex(name string) (int, bool) {
	for i := range namaBulan {
		if strings.EqualFold(name, namaBulan[i]) || strings.EqualFold(name, singkatanBulan[i]) {
			return i, true
		}
	}
	return 0, false
}

// NamaBulan returns the full Indonesian month name for bulan 1-12.
func NamaBulan(bulan int) string {
	if bulan < 1 || bulan > 12 {
		return ""
	}
	return namaBulan[bulan-1]
}

// MonthLabel returns the chart bucket label for t, e.g. "Agu 2025".
func MonthLabel(t time.Time) string {
	return singkatanBulan[int(t.Month())-1] + " " + strconv.Itoa(t.Year())
}

// monthLabelSortKey reconstructs the first-of-month instant a label
// represents, for chronological label ordering.
func monthLabelSortKey(label string) time.Time {
	name, yearStr, found := strings.Cut(label, " ")
	if !found {
		return time.Time{}
	}
	idx, ok := bulanIndex(name)
	if !ok {
		return time.Time{}
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, time.Month(idx+1), 1, 0, 0, 0, 0, time.UTC)
}

// DayKey truncates t to calendar-day granularity as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDayKey parses a normalized YYYY-MM-DD day key.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", s, err)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
