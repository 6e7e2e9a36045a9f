// Package metrics computes time-bucketed rollups over lab request records.
//
// The package is a pure, synchronous computation core: it never touches
// storage, the clock (beyond the documented DateTo default) or any shared
// state. The storage collaborator hands it fully materialized record
// collections and it recomputes everything from scratch on every call;
// realtime invalidation is the caller's concern.
package metrics

import (
	"errors"
	"time"
)

// Configuration and integration errors. Data-quality issues are never
// returned as errors; they surface as counters and warnings in the Result.
var (
	ErrNoGranularities    = errors.New("at least one granularity is required")
	ErrInvalidDateRange   = errors.New("dateFrom must not be after dateTo")
	ErrUnknownGranularity = errors.New("unknown granularity")
	ErrUnknownKind        = errors.New("unknown record kind")
)

// Input carries the raw record collections, one slice per family, in
// whatever shape the storage layer returned them.
type Input struct {
	Solutions  []RawSolutionRecord
	Deliveries []RawDeliveryRecord
}

// Config controls a single metrics computation.
type Config struct {
	// Granularities to aggregate at. Must be non-empty. The all-time
	// rollup is always computed regardless of what is listed here.
	Granularities []Granularity

	// DateFrom / DateTo bound the submission timestamps considered,
	// inclusive. DateTo defaults to the current time, resolved once at
	// call time. Records outside the range count toward
	// FilteredOutCount, distinct from ExcludedCount.
	DateFrom *time.Time
	DateTo   *time.Time

	// GapFill inserts zero-activity buckets within the observed span.
	GapFill bool
}

// Result is the presentation-ready outcome of one computation. It is
// created fresh on every Compute call and never mutated afterwards;
// callers treat it as an immutable value.
type Result struct {
	// Series holds one ordered bucket sequence per requested granularity.
	Series map[Granularity][]Bucket `json:"series"`

	// Overall is the all-time rollup, always present.
	Overall Bucket `json:"overall"`

	// ExcludedCount is the number of records whose submission timestamp
	// could not be parsed.
	ExcludedCount int `json:"excludedCount"`

	// FilteredOutCount is the number of records dropped by the
	// DateFrom/DateTo range.
	FilteredOutCount int `json:"filteredOutCount"`

	// Warnings lists per-record monetary clamps.
	Warnings []Warning `json:"warnings"`
}

// Compute normalizes both record families, applies the date-range filter,
// and aggregates the combined sequence once per requested granularity.
// Both families share buckets so cross-type totals stay directly
// comparable on a dashboard.
func Compute(input Input, cfg Config) (*Result, error) {
	granularities, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	dateTo := time.Now().UTC()
	if cfg.DateTo != nil {
		dateTo = cfg.DateTo.UTC()
	}

	solutionEntries, solutionWarnings := NormalizeSolutions(input.Solutions)
	deliveryEntries, deliveryWarnings := NormalizeDeliveries(input.Deliveries)

	entries := make([]Entry, 0, len(solutionEntries)+len(deliveryEntries))
	entries = append(entries, solutionEntries...)
	entries = append(entries, deliveryEntries...)

	warnings := make([]Warning, 0, len(solutionWarnings)+len(deliveryWarnings))
	warnings = append(warnings, solutionWarnings...)
	warnings = append(warnings, deliveryWarnings...)

	var (
		kept        = make([]Entry, 0, len(entries))
		excluded    int
		filteredOut int
	)
	for _, entry := range entries {
		switch {
		case entry.SubmittedAt == nil:
			excluded++
			kept = append(kept, entry) // skipped by the aggregator, kept for conservation
		case cfg.DateFrom != nil && entry.SubmittedAt.Before(cfg.DateFrom.UTC()):
			filteredOut++
		case entry.SubmittedAt.After(dateTo):
			filteredOut++
		default:
			kept = append(kept, entry)
		}
	}

	result := &Result{
		Series:           make(map[Granularity][]Bucket, len(granularities)),
		ExcludedCount:    excluded,
		FilteredOutCount: filteredOut,
		Warnings:         warnings,
	}

	for _, g := range granularities {
		result.Series[g] = Aggregate(kept, g, AggregateOptions{GapFill: cfg.GapFill})
	}

	// The all-time rollup backs unconditional summary cards, so it is
	// computed even when not requested.
	overall := Aggregate(kept, GranularityAll, AggregateOptions{})
	if len(overall) > 0 {
		result.Overall = overall[0]
	} else {
		result.Overall = *newBucket(allTimeKey)
	}

	return result, nil
}

// validateConfig fails fast on caller bugs before any aggregation runs,
// and returns the deduplicated granularity list.
func validateConfig(cfg Config) ([]Granularity, error) {
	if len(cfg.Granularities) == 0 {
		return nil, ErrNoGranularities
	}
	if cfg.DateFrom != nil && cfg.DateTo != nil && cfg.DateFrom.After(*cfg.DateTo) {
		return nil, ErrInvalidDateRange
	}

	seen := make(map[Granularity]bool, len(cfg.Granularities))
	granularities := make([]Granularity, 0, len(cfg.Granularities))
	for _, g := range cfg.Granularities {
		if _, err := ParseGranularity(string(g)); err != nil {
			return nil, err
		}
		if !seen[g] {
			seen[g] = true
			granularities = append(granularities, g)
		}
	}
	return granularities, nil
}
