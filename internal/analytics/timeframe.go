package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the calendar bucket size for time-series aggregation.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// DateRange is an inclusive calendar window with a display label.
type DateRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// NewDateRange builds a range, normalising both bounds to calendar days.
func NewDateRange(start, end time.Time, label string) (DateRange, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("date range: end %s before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return DateRange{Start: start, End: end, Label: label}, nil
}

// LastNDays covers the n days ending today, inclusive.
func LastNDays(now time.Time, n int) DateRange {
	end := dateOnly(now)
	return DateRange{
		Start: end.AddDate(0, 0, -(n - 1)),
		End:   end,
		Label: fmt.Sprintf("Last %d Days", n),
	}
}

// ThisMonth covers the calendar month containing now.
func ThisMonth(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: start,
		End:   start.AddDate(0, 1, -1),
		Label: start.Format("January 2006"),
	}
}

// LastMonth covers the calendar month before the one containing now.
func LastMonth(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return DateRange{
		Start: start,
		End:   start.AddDate(0, 1, -1),
		Label: start.Format("January 2006"),
	}
}

// LastNMonths covers the window from n months ago through today. It feeds the
// rolling analytics summary and the month-bucketed chart series.
func LastNMonths(now time.Time, n int) DateRange {
	end := dateOnly(now)
	return DateRange{
		Start: end.AddDate(0, -n, 0),
		End:   end,
		Label: fmt.Sprintf("Last %d Months", n),
	}
}

// Contains reports inclusive membership of a calendar date.
func (r DateRange) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	return daysBetween(r.End, r.Start) + 1
}

// Filter returns the transactions whose dates fall within the range.
func (r DateRange) Filter(txs []Transaction) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// Bucket is one calendar sub-interval of a range. Start and End are both
// inclusive calendar days; adjacent buckets never share a day, so a
// transaction belongs to exactly one bucket.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether a date falls inside the bucket.
func (b Bucket) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(b.Start) && !d.After(b.End)
}

// Buckets partitions the range into calendar buckets of the given
// granularity, in chronological order. Week buckets start Monday; month
// buckets span calendar months; the first and final buckets are clipped to
// the range bounds, so a trailing partial bucket is always emitted.
func Buckets(r DateRange, g Granularity) []Bucket {
	var out []Bucket
	cur := r.Start
	for !cur.After(r.End) {
		end := bucketEnd(cur, g)
		if end.After(r.End) {
			end = r.End
		}
		out = append(out, Bucket{Label: bucketLabel(cur, end, g), Start: cur, End: end})
		cur = end.AddDate(0, 0, 1)
	}
	return out
}

// SuggestGranularity surfaces the display policy that month buckets are only
// worthwhile once the range spans at least three of them. It is advice for
// callers, never enforced by the bucketer itself.
func SuggestGranularity(r DateRange) Granularity {
	if len(Buckets(r, GranularityMonth)) >= 3 {
		return GranularityMonth
	}
	return GranularityWeek
}

func bucketEnd(start time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		// ISO weekday with Monday = 1; the bucket runs through Sunday.
		wd := int(start.Weekday())
		if wd == 0 {
			wd = 7
		}
		return start.AddDate(0, 0, 7-wd)
	case GranularityMonth:
		firstOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth.AddDate(0, 1, -1)
	default:
		return start
	}
}

func bucketLabel(start, end time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		return start.Format("Jan 2") + "-" + end.Format("Jan 2")
	case GranularityMonth:
		return start.Format("Jan 2006")
	default:
		return start.Format("Jan 2")
	}
}
