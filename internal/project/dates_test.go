package project

import (
	"reflect"
	"testing"
)

func TestNormalizeShootDatesSortsAndDedupes(t *testing.T) {
	in := []string{"2026-03-02", "2026-01-15", "2026-03-02", " 2026-01-15", "2025-12-31"}
	got := NormalizeShootDates(in)
	want := []string{"2025-12-31", "2026-01-15", "2026-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNormalizeShootDatesPreservesInvalidVerbatim(t *testing.T) {
	in := []string{"2026-02-10", "2025-02-29", "next tuesday", "1899-01-01"}
	got := NormalizeShootDates(in)
	// invalid entries survive untouched and still sort lexicographically
	want := []string{"1899-01-01", "2025-02-29", "2026-02-10", "next tuesday"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestValidShootDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-02-10", true},
		{"2024-02-29", true},  // real leap day
		{"2025-02-29", false}, // rolls forward
		{"1899-12-31", false}, // before 1900
		{"2026-2-10", false},
		{"20260210", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidShootDate(tc.in); got != tc.ok {
			t.Errorf("ValidShootDate(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestFormatShootDateSingle(t *testing.T) {
	if got := FormatShootDate("2026-03-02"); got != "Mar 2, 2026" {
		t.Fatalf("got %q", got)
	}
	// unparseable entries render verbatim
	if got := FormatShootDate("2025-02-29"); got != "2025-02-29" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatShootDatesShapes(t *testing.T) {
	if got := FormatShootDates(nil); got != "" {
		t.Fatalf("empty list: got %q", got)
	}
	if got := FormatShootDates([]string{"2026-03-02"}); got != "Mar 2, 2026" {
		t.Fatalf("one date: got %q", got)
	}
	if got := FormatShootDates([]string{"2026-03-02", "2026-03-05"}); got != "Mar 2, 2026 - Mar 5, 2026" {
		t.Fatalf("two dates: got %q", got)
	}
	if got := FormatShootDates([]string{"2026-03-02", "2026-03-05", "2026-03-09"}); got != "Mar 2, 2026, Mar 5, 2026, Mar 9, 2026" {
		t.Fatalf("three dates: got %q", got)
	}
}
