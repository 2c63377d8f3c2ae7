// Package fixstream defines the immutable data model shared by every stage
// of the trajectory pipeline: Fix (a single GPS observation), Segment (a
// Stop or Move run of fixes), and CompressedStop (a finalised Stop).
//
// Fixes are treated as values: attaching a road_id or snapped coordinates
// produces a new Fix rather than mutating one in place, so no stage ever
// observes another stage's fix changing out from under it.
package fixstream
