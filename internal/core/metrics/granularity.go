package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the time resolution at which request metrics are bucketed.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
	GranularityAll     Granularity = "all"
)

// granularityOrder lists the supported granularities in display order.
var granularityOrder = []Granularity{
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
	GranularityQuarter,
	GranularityYear,
	GranularityAll,
}

// ParseGranularity converts a string (e.g. a query parameter) into a
// Granularity, case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range granularityOrder {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// BucketKey identifies one aggregation bucket for a given granularity.
// Keys are totally ordered by (Year, Ord) within a granularity:
//   - day:     Year = calendar year, Ord = day of year (1..366)
//   - week:    Year = ISO week-numbering year, Ord = ISO week (1..53)
//   - month:   Year = calendar year, Ord = month (1..12)
//   - quarter: Year = calendar year, Ord = quarter (1..4)
//   - year:    Year = calendar year, Ord = 0
//   - all:     Year = 0, Ord = 0 (single sentinel key)
//
// Chronologically later timestamps never produce a key that sorts earlier.
type BucketKey struct {
	Granularity Granularity
	Year        int
	Ord         int
}

// allTimeKey is the sentinel key for the all-time rollup.
var allTimeKey = BucketKey{Granularity: GranularityAll}

// ResolveKey computes the bucket key for a timestamp at the given
// granularity. All bucketing happens in UTC so results are independent of
// the caller's locale. The ISO week-numbering year is used for weekly keys,
// which may differ from the calendar year near year boundaries.
func ResolveKey(t time.Time, g Granularity) BucketKey {
	t = t.UTC()
	switch g {
	case GranularityDay:
		return BucketKey{Granularity: g, Year: t.Year(), Ord: t.YearDay()}
	case GranularityWeek:
		isoYear, isoWeek := t.ISOWeek()
		return BucketKey{Granularity: g, Year: isoYear, Ord: isoWeek}
	case GranularityMonth:
		return BucketKey{Granularity: g, Year: t.Year(), Ord: int(t.Month())}
	case GranularityQuarter:
		return BucketKey{Granularity: g, Year: t.Year(), Ord: (int(t.Month())-1)/3 + 1}
	case GranularityYear:
		return BucketKey{Granularity: g, Year: t.Year()}
	default:
		return allTimeKey
	}
}

// Less reports whether k sorts strictly before other. Only meaningful for
// keys of the same granularity.
func (k BucketKey) Less(other BucketKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Ord < other.Ord
}

// Label renders the human-readable form of the key, e.g. "2025-03-10",
// "2025-W11", "March 2025", "Q1 2025", "2025" or "All Time".
func (k BucketKey) Label() string {
	switch k.Granularity {
	case GranularityDay:
		// time.Date normalizes day-of-year offsets into the right month.
		return time.Date(k.Year, time.January, k.Ord, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	case GranularityWeek:
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Ord)
	case GranularityMonth:
		return fmt.Sprintf("%s %d", time.Month(k.Ord), k.Year)
	case GranularityQuarter:
		return fmt.Sprintf("Q%d %d", k.Ord, k.Year)
	case GranularityYear:
		return fmt.Sprintf("%d", k.Year)
	default:
		return "All Time"
	}
}

// next returns the immediately following bucket key at the same
// granularity. Used for gap-filling idle periods between observed buckets.
func (k BucketKey) next() BucketKey {
	switch k.Granularity {
	case GranularityDay:
		t := time.Date(k.Year, time.January, k.Ord+1, 0, 0, 0, 0, time.UTC)
		return ResolveKey(t, GranularityDay)
	case GranularityWeek:
		return ResolveKey(isoWeekStart(k.Year, k.Ord).AddDate(0, 0, 7), GranularityWeek)
	case GranularityMonth:
		if k.Ord == 12 {
			return BucketKey{Granularity: k.Granularity, Year: k.Year + 1, Ord: 1}
		}
		return BucketKey{Granularity: k.Granularity, Year: k.Year, Ord: k.Ord + 1}
	case GranularityQuarter:
		if k.Ord == 4 {
			return BucketKey{Granularity: k.Granularity, Year: k.Year + 1, Ord: 1}
		}
		return BucketKey{Granularity: k.Granularity, Year: k.Year, Ord: k.Ord + 1}
	case GranularityYear:
		return BucketKey{Granularity: k.Granularity, Year: k.Year + 1}
	default:
		return k
	}
}

// isoWeekStart returns the Monday (UTC midnight) of the given ISO week.
func isoWeekStart(isoYear, isoWeek int) time.Time {
	// January 4th is always inside ISO week 1 of its week-numbering year.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (isoWeek-1)*7)
}
