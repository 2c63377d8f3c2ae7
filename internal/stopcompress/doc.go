// Package stopcompress implements StopCompressor: collapsing a Stop
// segment's fixes into a single CompressedStop carrying their centroid and
// time window.
package stopcompress
