package view

import (
	"time"

	"cloud.google.com/go/civil"
)

type Timeframe int

const (
	TimeframeAll       Timeframe = 0
	TimeframeThisMonth Timeframe = 1
	TimeframeLastMonth Timeframe = 2
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// MonthRange returns the first and last day of year/month.
func MonthRange(year int, month time.Month) (civil.Date, civil.Date) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(start), civil.DateOf(start.AddDate(0, 1, -1))
}

// ShiftMonth moves year/month by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

// TimeframeToDateRange resolves tf relative to now. ok is false for
// TimeframeAll, which has no bounds.
func TimeframeToDateRange(tf Timeframe, now time.Time) (start, end civil.Date, ok bool) {
	switch tf {
	case TimeframeThisMonth:
		start, end = MonthRange(now.Year(), now.Month())
		return start, end, true
	case TimeframeLastMonth:
		start, end = MonthRange(ShiftMonth(now.Year(), now.Month(), -1))
		return start, end, true
	}

	return civil.Date{}, civil.Date{}, false
}
