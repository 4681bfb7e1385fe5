// Package lessons persists the bounded set of behavioral corrections fed
// back into future call instructions.
//
// The set is ordered and deduplicated: merging never produces two
// byte-identical entries, and once the retention capacity is exceeded the
// oldest entries are evicted first.
package lessons

import (
	"context"
	"strings"
)

// DefaultCapacity is the retained lesson count before the oldest entries
// are evicted. Tunable, not load-bearing for correctness.
const DefaultCapacity = 50

// Store is the persistence boundary for the lesson set. Load is called once
// per call start when instructions are composed; Merge is called from the
// post-call critique path.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Merge(ctx context.Context, incoming []string) ([]string, error)
}

// merge unions incoming lessons into existing ones with exact-string
// deduplication, then truncates to capacity dropping the oldest surplus.
func merge(existing, incoming []string, capacity int) []string {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, lesson := range existing {
		if _, ok := seen[lesson]; ok {
			continue
		}
		seen[lesson] = struct{}{}
		merged = append(merged, lesson)
	}
	for _, lesson := range incoming {
		lesson = strings.TrimSpace(lesson)
		if lesson == "" {
			continue
		}
		if _, ok := seen[lesson]; ok {
			continue
		}
		seen[lesson] = struct{}{}
		merged = append(merged, lesson)
	}

	if len(merged) > capacity {
		merged = merged[len(merged)-capacity:]
	}
	return merged
}
