// Package pipeline is the composition root wiring the map-matcher, STEP
// segmenter, and per-segment compressors into one streaming entry point.
// It imports the data-model, map-matcher, segmenter and compressor
// packages; none of them import pipeline.
package pipeline
