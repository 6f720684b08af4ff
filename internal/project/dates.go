package project

import (
	"sort"
	"strings"
	"time"
)

const shootDateLayout = "2006-01-02"

// NormalizeShootDates de-duplicates the list and sorts it ascending by plain
// string comparison, which is correct for the fixed-width ISO form. Entries
// that fail strict validation (wrong shape, year before 1900, roll-forward
// dates like 2025-02-29) are kept verbatim rather than reformatted or dropped.
func NormalizeShootDates(dates []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ValidShootDate reports whether s is a strict YYYY-MM-DD calendar date with
// a year of 1900 or later. time.Parse already rejects rolled-forward dates.
func ValidShootDate(s string) bool {
	t, err := time.Parse(shootDateLayout, s)
	if err != nil {
		return false
	}
	return t.Year() >= 1900
}

// FormatShootDate renders one date as "Mon D, YYYY". An entry that does not
// parse is returned verbatim.
func FormatShootDate(s string) string {
	t, err := time.Parse(shootDateLayout, s)
	if err != nil || t.Year() < 1900 {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// FormatShootDates renders a normalized date list for display: one date as
// is, two as a range, three or more as a comma-separated list.
func FormatShootDates(dates []string) string {
	switch len(dates) {
	case 0:
		return ""
	case 1:
		return FormatShootDate(dates[0])
	case 2:
		return FormatShootDate(dates[0]) + " - " + FormatShootDate(dates[1])
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = FormatShootDate(d)
	}
	return strings.Join(parts, ", ")
}
