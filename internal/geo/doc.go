// Package geo implements the distance and projection primitives shared by
// STEP, the map-matcher and the metrics package: Haversine and flat-earth distance,
// Synchronised Euclidean Distance (SED), and a local ENU tangent-plane
// projector for metric grid indexing.
package geo
