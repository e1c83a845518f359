// Package selector picks the most recent items out of a collected batch.
package selector

import (
	"sort"

	"newsroom/internal/newsroom"
)

// TopN returns the n most recent items by publication time, newest first.
//
// Items without a parseable publication time sort as oldest, so they only
// make the cut when there aren't enough dated items. The sort is stable:
// items with equal (or equally missing) times keep their collected order.
// The input slice is not modified. An empty input yields an empty output.
func TopN(items []newsroom.FeedItem, n int) []newsroom.FeedItem {
	if n <= 0 || len(items) == 0 {
		return nil
	}

	sorted := make([]newsroom.FeedItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}
