// Package staves extracts horizontal staff lines from a binary edge mask by
// tracking each line across image columns with its own Kalman filter.
//
// # Pipeline
//
// Columns are processed strictly left to right. For every column:
//
//  1. Detected row positions are split into clusters of contiguous rows.
//  2. Every existing staff predicts where it would be in this column.
//  3. Each cluster is matched to the single best prediction within the
//     tolerance (see Match).
//  4. Clusters matched to the same staff are merged and the staff absorbs
//     them with one Kalman update.
//  5. Unmatched rows are re-grouped into contiguous runs and each run founds a
//     new staff.
//
// Staves are never merged, split or removed; the tracker's final collection
// is the full set of detected lines together with their per-column history.
//
// # Half-Pixel Centers
//
// A row index denotes a cell, not a point. Every mean in this package adds 0.5
// to each index before averaging, so a single pixel at row 4 has its center at
// 4.5.
//
// # Matching Policy
//
// Matching is greedy and per cluster. Among predictions within the tolerance
// the one with the smallest column gap since its last observation wins, then
// the one with the smallest absolute slope. Remaining ties go to the staff
// created first.
//
// # Concurrency
//
// A Tracker is not safe for concurrent use. Staves are owned by their tracker
// and are mutated at most once per column.
package staves
