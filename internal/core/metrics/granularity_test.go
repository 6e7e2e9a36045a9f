package metrics_test

import (
	"testing"
	"time"

	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	t.Run("accepts known granularities case-insensitively", func(t *testing.T) {
		g, err := metrics.ParseGranularity(" Month ")
		require.NoError(t, err)
		assert.Equal(t, metrics.GranularityMonth, g)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := metrics.ParseGranularity("fortnight")
		assert.ErrorIs(t, err, metrics.ErrUnknownGranularity)
	})
}

func TestResolveKey(t *testing.T) {
	ts := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		granularity metrics.Granularity
		wantYear    int
		wantOrd     int
		wantLabel   string
	}{
		{"day", metrics.GranularityDay, 2025, 69, "2025-03-10"},
		{"week", metrics.GranularityWeek, 2025, 11, "2025-W11"},
		{"month", metrics.GranularityMonth, 2025, 3, "March 2025"},
		{"quarter", metrics.GranularityQuarter, 2025, 1, "Q1 2025"},
		{"year", metrics.GranularityYear, 2025, 0, "2025"},
		{"all", metrics.GranularityAll, 0, 0, "All Time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := metrics.ResolveKey(ts, tt.granularity)
			assert.Equal(t, tt.wantYear, key.Year)
			assert.Equal(t, tt.wantOrd, key.Ord)
			assert.Equal(t, tt.wantLabel, key.Label())
		})
	}
}

func TestResolveKey_ISOWeekYearBoundary(t *testing.T) {
	// Dec 31 2024 is a Tuesday inside ISO week 1 of 2025: the
	// week-numbering year differs from the calendar year.
	ts := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)

	key := metrics.ResolveKey(ts, metrics.GranularityWeek)

	assert.Equal(t, 2025, key.Year)
	assert.Equal(t, 1, key.Ord)
	assert.Equal(t, "2025-W01", key.Label())
}

func TestResolveKey_BucketingIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	// 2025-03-01 01:00 in UTC+13 is still 2025-02-28 in UTC.
	local := time.Date(2025, time.March, 1, 1, 0, 0, 0, loc)

	key := metrics.ResolveKey(local, metrics.GranularityMonth)

	assert.Equal(t, 2, key.Ord)
	assert.Equal(t, "February 2025", key.Label())
}

func TestBucketKey_Ordering(t *testing.T) {
	earlier := metrics.ResolveKey(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), metrics.GranularityDay)
	later := metrics.ResolveKey(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), metrics.GranularityDay)

	assert.True(t, earlier.Less(later))
	assert.False(t, later.Less(earlier))
}

func TestBucketKey_QuarterLabels(t *testing.T) {
	for month, wantQuarter := range map[time.Month]int{
		time.January: 1, time.March: 1,
		time.April: 2, time.June: 2,
		time.July: 3, time.September: 3,
		time.October: 4, time.December: 4,
	} {
		key := metrics.ResolveKey(time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC), metrics.GranularityQuarter)
		assert.Equal(t, wantQuarter, key.Ord, "month %s", month)
	}
}
