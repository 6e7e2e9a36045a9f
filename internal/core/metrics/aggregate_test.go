package metrics_test

import (
	"fmt"
	"testing"

	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solutionEntry(t *testing.T, id, submittedAt, status string, amount float64) metrics.Entry {
	t.Helper()
	entries, warnings := metrics.NormalizeSolutions([]metrics.RawSolutionRecord{
		{ID: id, SubmittedAt: submittedAt, Status: status, TrainingTotal: amount},
	})
	require.Len(t, entries, 1)
	require.Empty(t, warnings)
	return entries[0]
}

func TestAggregate_Monthly(t *testing.T) {
	entries := []metrics.Entry{
		solutionEntry(t, "s-1", "2025-01-05T10:00:00Z", "SUBMITTED", 1000),
		solutionEntry(t, "s-2", "2025-01-20T08:00:00Z", "APPROVED", 2000),
		solutionEntry(t, "s-3", "2025-02-11T09:30:00Z", "SUBMITTED", 500),
	}

	buckets := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{})

	require.Len(t, buckets, 2)

	assert.Equal(t, "January 2025", buckets[0].Label)
	assert.Equal(t, int64(2), buckets[0].Count)
	assert.Equal(t, "3000", buckets[0].TotalAmount.String())
	assert.Equal(t, map[string]int64{"SUBMITTED": 1, "APPROVED": 1}, buckets[0].StatusCounts)

	assert.Equal(t, "February 2025", buckets[1].Label)
	assert.Equal(t, int64(1), buckets[1].Count)
	assert.Equal(t, "500", buckets[1].TotalAmount.String())
	assert.Equal(t, map[string]int64{"SUBMITTED": 1}, buckets[1].StatusCounts)
}

func TestAggregate_SkipsSentinelEntries(t *testing.T) {
	good := solutionEntry(t, "s-1", "2025-01-05T10:00:00Z", "SUBMITTED", 100)
	bad := metrics.Entry{ID: "s-2", Kind: metrics.KindSolution, Status: "SUBMITTED", Amount: decimal.NewFromInt(200)}

	buckets := metrics.Aggregate([]metrics.Entry{good, bad}, metrics.GranularityMonth, metrics.AggregateOptions{})

	require.Len(t, buckets, 1)
	assert.Equal(t, int64(1), buckets[0].Count)
	assert.Equal(t, "100", buckets[0].TotalAmount.String())
}

func TestAggregate_GapFill(t *testing.T) {
	t.Run("monthly gap becomes a zero bucket", func(t *testing.T) {
		entries := []metrics.Entry{
			solutionEntry(t, "s-1", "2025-01-05T10:00:00Z", "SUBMITTED", 100),
			solutionEntry(t, "s-2", "2025-03-05T10:00:00Z", "SUBMITTED", 300),
		}

		buckets := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{GapFill: true})

		require.Len(t, buckets, 3)
		assert.Equal(t, "February 2025", buckets[1].Label)
		assert.Equal(t, int64(0), buckets[1].Count)
		assert.True(t, buckets[1].TotalAmount.IsZero())
		assert.Empty(t, buckets[1].StatusCounts)
	})

	t.Run("weekly gap fill crosses an ISO year boundary", func(t *testing.T) {
		entries := []metrics.Entry{
			solutionEntry(t, "s-1", "2024-12-18T10:00:00Z", "SUBMITTED", 100), // 2024-W51
			solutionEntry(t, "s-2", "2025-01-08T10:00:00Z", "SUBMITTED", 200), // 2025-W02
		}

		buckets := metrics.Aggregate(entries, metrics.GranularityWeek, metrics.AggregateOptions{GapFill: true})

		labels := make([]string, 0, len(buckets))
		for _, b := range buckets {
			labels = append(labels, b.Label)
		}
		assert.Equal(t, []string{"2024-W51", "2024-W52", "2025-W01", "2025-W02"}, labels)
	})

	t.Run("quarterly gap fill crosses a calendar year", func(t *testing.T) {
		entries := []metrics.Entry{
			solutionEntry(t, "s-1", "2024-11-01T10:00:00Z", "SUBMITTED", 100), // Q4 2024
			solutionEntry(t, "s-2", "2025-05-01T10:00:00Z", "SUBMITTED", 200), // Q2 2025
		}

		buckets := metrics.Aggregate(entries, metrics.GranularityQuarter, metrics.AggregateOptions{GapFill: true})

		labels := make([]string, 0, len(buckets))
		for _, b := range buckets {
			labels = append(labels, b.Label)
		}
		assert.Equal(t, []string{"Q4 2024", "Q1 2025", "Q2 2025"}, labels)
	})

	t.Run("without gap fill only active buckets appear", func(t *testing.T) {
		entries := []metrics.Entry{
			solutionEntry(t, "s-1", "2025-01-05T10:00:00Z", "SUBMITTED", 100),
			solutionEntry(t, "s-2", "2025-03-05T10:00:00Z", "SUBMITTED", 300),
		}

		buckets := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{})

		require.Len(t, buckets, 2)
	})
}

func TestAggregate_OrderingIsDeterministic(t *testing.T) {
	var entries []metrics.Entry
	for month := 12; month >= 1; month-- {
		entries = append(entries, solutionEntry(t,
			fmt.Sprintf("s-%d", month),
			fmt.Sprintf("2025-%02d-10T00:00:00Z", month),
			"SUBMITTED", float64(month)))
	}

	first := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{})
	for i := 0; i < 10; i++ {
		again := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{})
		assert.Equal(t, first, again)
	}

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Key.Less(first[i].Key), "buckets must be strictly ascending")
	}
}

func TestAggregate_CountMatchesStatusBreakdown(t *testing.T) {
	entries := []metrics.Entry{
		solutionEntry(t, "s-1", "2025-01-05T10:00:00Z", "SUBMITTED", 10),
		solutionEntry(t, "s-2", "2025-01-06T10:00:00Z", "APPROVED", 20),
		solutionEntry(t, "s-3", "2025-01-07T10:00:00Z", "APPROVED", 30),
		solutionEntry(t, "s-4", "2025-06-01T10:00:00Z", "REJECTED", 40),
	}

	for _, g := range []metrics.Granularity{
		metrics.GranularityDay, metrics.GranularityWeek, metrics.GranularityMonth,
		metrics.GranularityQuarter, metrics.GranularityYear, metrics.GranularityAll,
	} {
		buckets := metrics.Aggregate(entries, g, metrics.AggregateOptions{})
		for _, b := range buckets {
			var statusTotal int64
			for _, n := range b.StatusCounts {
				statusTotal += n
			}
			assert.Equal(t, b.Count, statusTotal, "granularity %s bucket %s", g, b.Label)
		}
	}
}

func TestAggregate_DecimalSumsDoNotDrift(t *testing.T) {
	var entries []metrics.Entry
	for i := 0; i < 10000; i++ {
		entries = append(entries, solutionEntry(t, fmt.Sprintf("s-%d", i), "2025-01-05T10:00:00Z", "SUBMITTED", 0.1))
	}

	buckets := metrics.Aggregate(entries, metrics.GranularityMonth, metrics.AggregateOptions{})

	require.Len(t, buckets, 1)
	assert.True(t, buckets[0].TotalAmount.Equal(decimal.NewFromInt(1000)),
		"10000 x 0.1 must sum to exactly 1000, got %s", buckets[0].TotalAmount)
}

func TestAggregate_Empty(t *testing.T) {
	buckets := metrics.Aggregate(nil, metrics.GranularityMonth, metrics.AggregateOptions{GapFill: true})
	assert.Equal(t, []metrics.Bucket{}, buckets)
}
