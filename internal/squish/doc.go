// Package squish implements SQUISH, a bounded-capacity, priority-driven
// line simplifier. It retains at most K points of a Move segment while
// minimising Synchronised Euclidean Distance (SED) error, using a doubly
// linked list of live nodes and a container/heap min-heap with lazy
// deletion — stale heap entries are detected against each node's current
// priority rather than removed eagerly.
//
// Priority is computed in degree-space, deliberately not converted to
// metres: SQUISH only ever compares priorities against each other within
// one run, and every node uses the same formula. Longitude degrees are not
// scaled by cos(latitude), so away from the equator the eviction order can
// differ from one ranked by the metre-space SED helper in internal/geo.
package squish
