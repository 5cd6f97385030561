package staves

import (
	"slices"
)

// Mean returns the half-pixel-centered mean of positions:
// (sum + 0.5·n) / n. It reports false when positions is empty.
func Mean(positions []int) (float32, bool) {
	if len(positions) == 0 {
		return 0, false
	}
	sum := 0
	for _, p := range positions {
		sum += p
	}
	n := float32(len(positions))
	return (float32(sum) + n*0.5) / n, true
}

// GroupConsecutive splits an ascending sequence of distinct positions into
// maximal runs whose consecutive elements differ by exactly one.
//
//	GroupConsecutive([0 2 3 4 6 7]) = [[0] [2 3 4] [6 7]]
//
// The returned runs do not share memory with sorted.
func GroupConsecutive(sorted []int) [][]int {
	runs := make([][]int, 0)
	for i, p := range sorted {
		if i == 0 || p-sorted[i-1] != 1 {
			runs = append(runs, []int{p})
			continue
		}
		last := len(runs) - 1
		runs[last] = append(runs[last], p)
	}
	return runs
}

// Keyed pairs a value with the key it is grouped under.
type Keyed[V any] struct {
	Value V
	Key   int
}

// Group holds every value that shared one key, in encounter order.
type Group[V any] struct {
	Key    int
	Values []V
}

// GroupByKey collects values sharing a key. Groups are sorted by ascending
// key; values keep their relative input order within a group.
func GroupByKey[V any](pairs []Keyed[V]) []Group[V] {
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b Keyed[V]) int {
		return a.Key - b.Key
	})

	groups := make([]Group[V], 0)
	for i, kv := range sorted {
		if i == 0 || kv.Key != sorted[i-1].Key {
			groups = append(groups, Group[V]{Key: kv.Key})
		}
		last := len(groups) - 1
		groups[last].Values = append(groups[last].Values, kv.Value)
	}
	return groups
}
