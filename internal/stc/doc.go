// Package stc implements Semantic Trajectory Compression: reducing a
// map-matched Move's fixes to the first fix, every fix whose road_id
// differs from its predecessor's, and the last fix (appended only if it is
// not already the last emitted fix).
package stc
