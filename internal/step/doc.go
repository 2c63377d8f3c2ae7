// Package step implements STEP (Streaming Stay-Point Segmentation): an
// indexed, grid-accelerated stay-point detector that partitions a live fix
// stream into Stop and Move segments with bounded per-fix cost.
//
// The grid short-circuit (Confirmed / Pruned / Uncertain classification of
// earlier cached fixes) is Algorithm 1 of spec.md §4.3; the Stop/Move
// emission rules are Algorithm 2. Both run against a local ENU tangent
// plane anchored at the first fix ever seen (internal/geo.Projector).
package step
