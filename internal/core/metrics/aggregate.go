package metrics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Bucket is one aggregation cell: all entries whose submission timestamp
// resolves to the same BucketKey.
type Bucket struct {
	Key          BucketKey        `json:"key"`
	Label        string           `json:"label"`
	Count        int64            `json:"count"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	StatusCounts map[string]int64 `json:"statusCounts"`
}

// AggregateOptions controls optional aggregation behavior.
type AggregateOptions struct {
	// GapFill inserts zero-activity buckets for every key between the
	// minimum and maximum observed key, so a trend line never implies a
	// shorter-than-actual history. Off by default for cheap summary-only
	// callers.
	GapFill bool
}

// Aggregate folds normalized entries into per-bucket accumulators at the
// given granularity. Entries with a nil SubmittedAt sentinel are skipped
// here; the facade surfaces them as an excluded count. The returned slice
// is always sorted ascending by key, independent of map iteration order.
func Aggregate(entries []Entry, g Granularity, opts AggregateOptions) []Bucket {
	buckets := make(map[BucketKey]*Bucket)

	for _, entry := range entries {
		if entry.SubmittedAt == nil {
			continue
		}
		key := ResolveKey(*entry.SubmittedAt, g)
		b, ok := buckets[key]
		if !ok {
			b = newBucket(key)
			buckets[key] = b
		}
		b.Count++
		b.TotalAmount = b.TotalAmount.Add(entry.Amount)
		b.StatusCounts[entry.Status]++
	}

	if len(buckets) == 0 {
		return []Bucket{}
	}

	keys := make([]BucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	if opts.GapFill && g != GranularityAll {
		return gapFilled(buckets, keys[0], keys[len(keys)-1])
	}

	out := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		out = append(out, *buckets[key])
	}
	return out
}

func newBucket(key BucketKey) *Bucket {
	return &Bucket{
		Key:          key,
		Label:        key.Label(),
		TotalAmount:  decimal.Zero,
		StatusCounts: make(map[string]int64),
	}
}

// gapFilled walks every key from min to max inclusive, emitting empty
// buckets for idle periods.
func gapFilled(buckets map[BucketKey]*Bucket, minKey, maxKey BucketKey) []Bucket {
	var out []Bucket
	for key := minKey; ; key = key.next() {
		if b, ok := buckets[key]; ok {
			out = append(out, *b)
		} else {
			out = append(out, *newBucket(key))
		}
		if key == maxKey {
			break
		}
	}
	return out
}
