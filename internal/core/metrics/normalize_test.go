package metrics_test

import (
	"math"
	"testing"

	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSolutions(t *testing.T) {
	t.Run("maps family fields into canonical entries", func(t *testing.T) {
		records := []metrics.RawSolutionRecord{
			{ID: "s-1", SubmittedAt: "2025-01-05T10:00:00Z", Status: "SUBMITTED", TrainingTotal: 1000},
			{ID: "s-2", SubmittedAt: "2025-01-20T08:00:00Z", Status: "APPROVED", TrainingTotal: 2000},
		}

		entries, warnings := metrics.NormalizeSolutions(records)

		require.Len(t, entries, 2)
		assert.Empty(t, warnings)
		assert.Equal(t, "s-1", entries[0].ID)
		assert.Equal(t, metrics.KindSolution, entries[0].Kind)
		assert.Equal(t, "SUBMITTED", entries[0].Status)
		require.NotNil(t, entries[0].SubmittedAt)
		assert.Equal(t, "1000", entries[0].Amount.String())
	})

	t.Run("bad timestamp becomes sentinel without aborting the batch", func(t *testing.T) {
		records := []metrics.RawSolutionRecord{
			{ID: "s-1", SubmittedAt: "not-a-date", Status: "SUBMITTED", TrainingTotal: 100},
			{ID: "s-2", SubmittedAt: "", Status: "SUBMITTED", TrainingTotal: 200},
			{ID: "s-3", SubmittedAt: "2025-02-03", Status: "SUBMITTED", TrainingTotal: 300},
		}

		entries, warnings := metrics.NormalizeSolutions(records)

		require.Len(t, entries, 3, "normalization must preserve length and order")
		assert.Empty(t, warnings)
		assert.Nil(t, entries[0].SubmittedAt)
		assert.Nil(t, entries[1].SubmittedAt)
		assert.NotNil(t, entries[2].SubmittedAt)
	})

	t.Run("negative amount clamps to zero with a warning", func(t *testing.T) {
		records := []metrics.RawSolutionRecord{
			{ID: "s-1", SubmittedAt: "2025-01-05T10:00:00Z", Status: "SUBMITTED", TrainingTotal: -500},
		}

		entries, warnings := metrics.NormalizeSolutions(records)

		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.IsZero())
		require.Len(t, warnings, 1)
		assert.Equal(t, metrics.Warning{ID: "s-1", Reason: metrics.WarnNegativeAmount}, warnings[0])
	})

	t.Run("NaN amount clamps to zero with a warning", func(t *testing.T) {
		records := []metrics.RawSolutionRecord{
			{ID: "s-1", SubmittedAt: "2025-01-05T10:00:00Z", Status: "SUBMITTED", TrainingTotal: math.NaN()},
		}

		entries, warnings := metrics.NormalizeSolutions(records)

		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.IsZero())
		require.Len(t, warnings, 1)
		assert.Equal(t, metrics.WarnNonNumericAmount, warnings[0].Reason)
	})
}

func TestNormalizeDeliveries(t *testing.T) {
	records := []metrics.RawDeliveryRecord{
		{ID: "d-1", SubmittedAt: "2025-03-01T09:00:00Z", Status: "PENDING", InvoicedAmount: 750.25, CourierCost: 40},
	}

	entries, warnings := metrics.NormalizeDeliveries(records)

	require.Len(t, entries, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, metrics.KindDelivery, entries[0].Kind)
	// The invoiced amount is the delivery family's primary monetary field.
	assert.Equal(t, "750.25", entries[0].Amount.String())
}

func TestNormalize_UnknownKind(t *testing.T) {
	_, _, err := metrics.Normalize(metrics.Kind("purchase"), []metrics.RawSolutionRecord{})
	assert.ErrorIs(t, err, metrics.ErrUnknownKind)
}

func TestNormalize_KindRecordMismatch(t *testing.T) {
	_, _, err := metrics.Normalize(metrics.KindSolution, []metrics.RawDeliveryRecord{})
	assert.ErrorIs(t, err, metrics.ErrUnknownKind)
}

func TestNormalize_TableDrivenDispatch(t *testing.T) {
	entries, warnings, err := metrics.Normalize(metrics.KindDelivery, []metrics.RawDeliveryRecord{
		{ID: "d-1", SubmittedAt: "2025-03-01T09:00:00Z", Status: "DELIVERED", InvoicedAmount: 10},
	})

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, "d-1", entries[0].ID)
}
