// Package l1smoothing owns Layer 1 (Smoothing) of the pose data model.
//
// Responsibilities: per-coordinate adaptive low-pass filtering of raw
// detector landmarks (One Euro filter), one filter per landmark axis,
// with reset on tracking loss.
// Key types: OneEuroFilter, FilterBank.
//
// Dependency rule: L1 may depend on internal/pose and internal/timeutil,
// never on L2-L4.
package l1smoothing
