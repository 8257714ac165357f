package reports

import (
	"errors"
	"time"
)

// GroupBy selects the sales-graph bucket granularity.
type GroupBy string

const (
	GroupByDay   GroupBy = "DAY"
	GroupByWeek  GroupBy = "WEEK"
	GroupByMonth GroupBy = "MONTH"
)

var ErrInvalidGroupBy = errors.New("groupBy must be DAY, WEEK or MONTH")

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return GroupBy(s), nil
	}
	return "", ErrInvalidGroupBy
}

// AmountField is the statically validated set of numeric order fields a
// sales graph may sum. Anything outside the set is rejected at the boundary.
type AmountField string

const (
	AmountTotal  AmountField = "totalAmount"
	AmountNet    AmountField = "netAmount"
	AmountProfit AmountField = "profit"
)

var ErrInvalidAmountField = errors.New("amountField must be totalAmount, netAmount or profit")

// ParseAmountField defaults to totalAmount when the selector is absent.
func ParseAmountField(s string) (AmountField, error) {
	if s == "" {
		return AmountTotal, nil
	}
	switch AmountField(s) {
	case AmountTotal, AmountNet, AmountProfit:
		return AmountField(s), nil
	}
	return "", ErrInvalidAmountField
}

// StartOfDay normalizes t to 00:00:00.000.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes t to 23:59:59.999.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func dayRange(year, month, day int) (time.Time, time.Time) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d, d
}

// isoWeekRange returns the Monday and Sunday of ISO week `week` of `year`.
// January 4th always falls in ISO week 1.
func isoWeekRange(year, week int) (time.Time, time.Time) {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	start := week1Monday.AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 6)
}

// monthRange returns the first and last day of the month; the last day is
// day 0 of the following month.
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}
