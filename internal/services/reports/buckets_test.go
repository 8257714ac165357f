package reports

import (
	"testing"
	"time"
)

func TestParseGroupBy(t *testing.T) {
	for _, valid := range []string{"DAY", "WEEK", "MONTH"} {
		if _, err := ParseGroupBy(valid); err != nil {
			t.Fatalf("ParseGroupBy(%q): %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "day", "YEAR", "HOUR"} {
		if _, err := ParseGroupBy(invalid); err != ErrInvalidGroupBy {
			t.Fatalf("ParseGroupBy(%q): expected ErrInvalidGroupBy, got %v", invalid, err)
		}
	}
}

func TestParseAmountField(t *testing.T) {
	got, err := ParseAmountField("")
	if err != nil || got != AmountTotal {
		t.Fatalf("empty selector should default to totalAmount, got %q, %v", got, err)
	}
	if _, err := ParseAmountField("profit"); err != nil {
		t.Fatalf("profit should be allowed: %v", err)
	}
	if _, err := ParseAmountField("$totalAmount"); err != ErrInvalidAmountField {
		t.Fatalf("raw field injection must be rejected, got %v", err)
	}
	if _, err := ParseAmountField("couponID"); err != ErrInvalidAmountField {
		t.Fatalf("non-numeric field must be rejected, got %v", err)
	}
}

func TestDayNormalization(t *testing.T) {
	ts := time.Date(2025, 8, 14, 13, 45, 12, 0, time.UTC)

	start := StartOfDay(ts)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("StartOfDay not normalized: %v", start)
	}

	end := EndOfDay(ts)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("EndOfDay not normalized: %v", end)
	}
	if end.Nanosecond() != int(999*time.Millisecond) {
		t.Fatalf("EndOfDay should end at .999, got %d ns", end.Nanosecond())
	}
}

func TestISOWeekRange(t *testing.T) {
	cases := []struct {
		year, week int
		start, end string
	}{
		// week 31 of 2025: Mon Jul 28 .. Sun Aug 3
		{2025, 31, "2025-07-28", "2025-08-03"},
		// week 1 of 2026 starts in the previous calendar year
		{2026, 1, "2025-12-29", "2026-01-04"},
		// 2020 is a 53-week ISO year
		{2020, 53, "2020-12-28", "2021-01-03"},
	}

	for _, tc := range cases {
		start, end := isoWeekRange(tc.year, tc.week)
		if got := start.Format("2006-01-02"); got != tc.start {
			t.Fatalf("isoWeekRange(%d, %d) start = %s, want %s", tc.year, tc.week, got, tc.start)
		}
		if got := end.Format("2006-01-02"); got != tc.end {
			t.Fatalf("isoWeekRange(%d, %d) end = %s, want %s", tc.year, tc.week, got, tc.end)
		}
		if start.Weekday() != time.Monday {
			t.Fatalf("ISO week must start on Monday, got %v", start.Weekday())
		}
		// cross-check against the stdlib's ISO week calculation
		y, w := start.ISOWeek()
		if y != tc.year || w != tc.week {
			t.Fatalf("isoWeekRange(%d, %d) start maps back to week %d of %d", tc.year, tc.week, w, y)
		}
	}
}

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year, month int
		start, end  string
	}{
		{2025, 8, "2025-08-01", "2025-08-31"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2025, 2, "2025-02-01", "2025-02-28"},
		{2025, 12, "2025-12-01", "2025-12-31"},
	}

	for _, tc := range cases {
		start, end := monthRange(tc.year, tc.month)
		if got := start.Format("2006-01-02"); got != tc.start {
			t.Fatalf("monthRange(%d, %d) start = %s, want %s", tc.year, tc.month, got, tc.start)
		}
		if got := end.Format("2006-01-02"); got != tc.end {
			t.Fatalf("monthRange(%d, %d) end = %s, want %s", tc.year, tc.month, got, tc.end)
		}
	}
}

func TestDayRange(t *testing.T) {
	start, end := dayRange(2025, 8, 14)
	if !start.Equal(end) {
		t.Fatalf("day bucket start and end must be equal, got %v / %v", start, end)
	}
	if got := start.Format("2006-01-02"); got != "2025-08-14" {
		t.Fatalf("dayRange = %s, want 2025-08-14", got)
	}
}
