package metrics

import (
	"math"

	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/matsaks/hysoc/internal/geo"
	"gonum.org/v1/gonum/stat"
)

// CompressionRatio returns len(original)/len(compressed), matching the
// convention that a 10:1 reduction reports as 10.0. Returns 1.0 if
// compressed is empty, to avoid a division by zero.
func CompressionRatio(original, compressed []fixstream.Fix) float64 {
	if len(compressed) == 0 {
		return 1.0
	}
	return float64(len(original)) / float64(len(compressed))
}

// SEDStats summarises the reconstruction error of a compressed fix
// sequence against the original, uncompressed one.
type SEDStats struct {
	Average float64
	Max     float64
	RMSE    float64
	Errors  []float64
}

// CalculateSEDStats computes SEDStats for original against compressed,
// assuming compressed is a time-ordered subsequence of original. Each
// original fix is scored against the bracketing pair of compressed anchors
// that spans its timestamp (or against the final anchor if it is beyond
// the last compressed segment).
func CalculateSEDStats(original, compressed []fixstream.Fix) SEDStats {
	if len(original) == 0 || len(compressed) == 0 {
		return SEDStats{}
	}

	errors := make([]float64, 0, len(original))
	compIdx := 0

	for _, p := range original {
		for compIdx < len(compressed)-1 && p.Timestamp.After(compressed[compIdx+1].Timestamp) {
			compIdx++
		}

		if compIdx >= len(compressed)-1 {
			errors = append(errors, geo.SED(p, compressed[len(compressed)-1], compressed[len(compressed)-1]))
			continue
		}

		start, end := compressed[compIdx], compressed[compIdx+1]
		if p.Timestamp.Before(start.Timestamp) {
			errors = append(errors, geo.SED(p, start, start))
			continue
		}
		errors = append(errors, geo.SED(p, start, end))
	}

	if len(errors) == 0 {
		return SEDStats{}
	}

	squares := make([]float64, len(errors))
	maxErr := errors[0]
	for i, e := range errors {
		squares[i] = e * e
		if e > maxErr {
			maxErr = e
		}
	}

	return SEDStats{
		Average: stat.Mean(errors, nil),
		Max:     maxErr,
		RMSE:    math.Sqrt(stat.Mean(squares, nil)),
		Errors:  errors,
	}
}
