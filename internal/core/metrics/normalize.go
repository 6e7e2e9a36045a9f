package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags which record family a normalized entry came from.
type Kind string

const (
	KindSolution Kind = "solution"
	KindDelivery Kind = "delivery"
)

// RawSolutionRecord mirrors a stored solution-request row as the storage
// collaborator returns it: an ISO 8601 submission timestamp and the
// family's own monetary field names.
type RawSolutionRecord struct {
	ID            string
	SubmittedAt   string
	Status        string
	TrainingTotal float64
	EstimatedCost float64
}

// RawDeliveryRecord mirrors a stored delivery-request row.
type RawDeliveryRecord struct {
	ID             string
	SubmittedAt    string
	Status         string
	InvoicedAmount float64
	CourierCost    float64
}

// Entry is the canonical shape the aggregator operates on, regardless of
// which record family produced it.
type Entry struct {
	ID   string
	Kind Kind

	// SubmittedAt is nil when the source timestamp was absent or
	// unparsable. Such entries are excluded from every bucket but still
	// occupy their position in the sequence, so normalization stays a 1:1
	// order-preserving map.
	SubmittedAt *time.Time

	// Status is carried through in the family's own vocabulary. No
	// cross-family remapping happens here.
	Status string

	// Amount is the family's primary monetary value, clamped to be
	// non-negative. Held as a decimal so bucket sums stay exact.
	Amount decimal.Decimal
}

// WarningReason classifies a data-quality issue found during normalization.
type WarningReason string

const (
	WarnNegativeAmount   WarningReason = "negative_amount"
	WarnNonNumericAmount WarningReason = "non_numeric_amount"
)

// Warning records a per-record data-quality issue. Bad values are clamped,
// never silently dropped from the sums.
type Warning struct {
	ID     string        `json:"id"`
	Reason WarningReason `json:"reason"`
}

// accessors is one row of the family mapping table: how to read the
// canonical fields out of a concrete record family. Adding a new record
// family means adding a new row, not a new control-flow branch.
type accessors[R any] struct {
	id          func(R) string
	submittedAt func(R) string
	status      func(R) string
	amount      func(R) float64
}

var solutionAccessors = accessors[RawSolutionRecord]{
	id:          func(r RawSolutionRecord) string { return r.ID },
	submittedAt: func(r RawSolutionRecord) string { return r.SubmittedAt },
	status:      func(r RawSolutionRecord) string { return r.Status },
	amount:      func(r RawSolutionRecord) float64 { return r.TrainingTotal },
}

var deliveryAccessors = accessors[RawDeliveryRecord]{
	id:          func(r RawDeliveryRecord) string { return r.ID },
	submittedAt: func(r RawDeliveryRecord) string { return r.SubmittedAt },
	status:      func(r RawDeliveryRecord) string { return r.Status },
	amount:      func(r RawDeliveryRecord) float64 { return r.InvoicedAmount },
}

// familyTable maps each record kind to its untyped normalization entry
// point. Kinds without a row are integration bugs and fail fast.
var familyTable = map[Kind]func(records any) ([]Entry, []Warning, error){
	KindSolution: func(records any) ([]Entry, []Warning, error) {
		rs, ok := records.([]RawSolutionRecord)
		if !ok {
			return nil, nil, fmt.Errorf("%w: kind %q expects []RawSolutionRecord, got %T", ErrUnknownKind, KindSolution, records)
		}
		entries, warnings := normalizeFamily(rs, KindSolution, solutionAccessors)
		return entries, warnings, nil
	},
	KindDelivery: func(records any) ([]Entry, []Warning, error) {
		rs, ok := records.([]RawDeliveryRecord)
		if !ok {
			return nil, nil, fmt.Errorf("%w: kind %q expects []RawDeliveryRecord, got %T", ErrUnknownKind, KindDelivery, records)
		}
		entries, warnings := normalizeFamily(rs, KindDelivery, deliveryAccessors)
		return entries, warnings, nil
	},
}

// Normalize maps a homogeneous collection of one record family into
// canonical entries. One malformed record never aborts the batch: bad
// timestamps become nil-SubmittedAt sentinels and bad amounts are clamped
// to zero with a warning.
func Normalize(kind Kind, records any) ([]Entry, []Warning, error) {
	normalize, ok := familyTable[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return normalize(records)
}

// NormalizeSolutions is the typed entry point for solution records.
func NormalizeSolutions(records []RawSolutionRecord) ([]Entry, []Warning) {
	return normalizeFamily(records, KindSolution, solutionAccessors)
}

// NormalizeDeliveries is the typed entry point for delivery records.
func NormalizeDeliveries(records []RawDeliveryRecord) ([]Entry, []Warning) {
	return normalizeFamily(records, KindDelivery, deliveryAccessors)
}

func normalizeFamily[R any](records []R, kind Kind, acc accessors[R]) ([]Entry, []Warning) {
	entries := make([]Entry, 0, len(records))
	var warnings []Warning

	for _, record := range records {
		entry := Entry{
			ID:     acc.id(record),
			Kind:   kind,
			Status: acc.status(record),
		}

		if t, ok := parseSubmittedAt(acc.submittedAt(record)); ok {
			entry.SubmittedAt = &t
		}

		amount := acc.amount(record)
		switch {
		case math.IsNaN(amount) || math.IsInf(amount, 0):
			entry.Amount = decimal.Zero
			warnings = append(warnings, Warning{ID: entry.ID, Reason: WarnNonNumericAmount})
		case amount < 0:
			entry.Amount = decimal.Zero
			warnings = append(warnings, Warning{ID: entry.ID, Reason: WarnNegativeAmount})
		default:
			entry.Amount = decimal.NewFromFloat(amount)
		}

		entries = append(entries, entry)
	}

	return entries, warnings
}

// submittedAtLayouts are the accepted timestamp shapes, tried in order.
var submittedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseSubmittedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
