package mapmatch

import (
	"math"

	"github.com/matsaks/hysoc/internal/fixstream"
)

// viterbiState is one HMM hidden state at one column (buffered fix) of the
// decoding trellis.
type viterbiState struct {
	cand    candidate
	logProb float64
	prevIdx int
}

// matchResult is the outcome of decoding one buffered window.
type matchResult struct {
	// edges[i] is the edge matched for buffer[i], aligned index-for-index.
	edges []*RoadEdge
	// projLat/projLon[i] is buffer[i]'s projection onto edges[i].
	projLat, projLon []float64
}

// matchWindow runs Viterbi decoding over buffer and returns the
// most-likely edge sequence, or ok=false on MatchFailure (no candidate
// states for the window, or the decoded path's normalised probability
// falls below minProbNorm).
func matchWindow(rg *RoadGraph, buffer []fixstream.Fix, cfg Config) (matchResult, bool) {
	if len(buffer) == 0 {
		return matchResult{}, false
	}

	columns := make([][]viterbiState, len(buffer))
	for i, fix := range buffer {
		radius := cfg.MaxDist
		if i == 0 {
			radius = cfg.MaxDistInit
		}
		cands := rg.candidatesFor(fix, radius)
		col := make([]viterbiState, len(cands))
		for j, c := range cands {
			col[j] = viterbiState{cand: c, logProb: emissionLogProb(c.distMeters, radius), prevIdx: -1}
		}
		columns[i] = col
	}

	if len(columns[0]) == 0 {
		return matchResult{}, false
	}

	for i := 1; i < len(columns); i++ {
		if len(columns[i]) == 0 {
			return matchResult{}, false
		}
		for j := range columns[i] {
			best := math.Inf(-1)
			bestPrev := -1
			for k := range columns[i-1] {
				trans := transitionLogProb(rg, columns[i-1][k].cand.edge, columns[i][j].cand.edge)
				score := columns[i-1][k].logProb + trans + columns[i][j].logProb
				if score > best {
					best = score
					bestPrev = k
				}
			}
			columns[i][j].logProb = best
			columns[i][j].prevIdx = bestPrev
		}
	}

	last := columns[len(columns)-1]
	bestIdx, bestLogProb := 0, math.Inf(-1)
	for j, st := range last {
		if st.logProb > bestLogProb {
			bestLogProb = st.logProb
			bestIdx = j
		}
	}

	normalized := math.Exp(bestLogProb / float64(len(buffer)))
	if normalized < cfg.MinProbNorm {
		return matchResult{}, false
	}

	edges := make([]*RoadEdge, len(buffer))
	projLat := make([]float64, len(buffer))
	projLon := make([]float64, len(buffer))

	idx := bestIdx
	for i := len(columns) - 1; i >= 0; i-- {
		st := columns[i][idx]
		edges[i] = st.cand.edge
		projLat[i] = st.cand.projLat
		projLon[i] = st.cand.projLon
		idx = st.prevIdx
	}

	return matchResult{edges: edges, projLat: projLat, projLon: projLon}, true
}

// emissionLogProb scores a candidate edge by a Gaussian decaying in its
// perpendicular distance to the fix, with a third of the candidacy radius
// (at least 1 m) used as the standard deviation.
func emissionLogProb(distMeters, radius float64) float64 {
	sigma := radius / 3.0
	if sigma < 1.0 {
		sigma = 1.0
	}
	z := distMeters / sigma
	return -0.5 * z * z
}

// transitionLogProb scores moving from edge `from` to edge `to` by the
// shortest-path route distance between from's end node and to's start
// node; unreachable pairs are heavily penalised rather than treated as
// impossible, so a single broken link doesn't necessarily sink the whole
// window.
func transitionLogProb(rg *RoadGraph, from, to *RoadEdge) float64 {
	if from == to {
		return 0
	}
	dist, ok := rg.routeDistanceMeters(from.To, to.From)
	if !ok {
		return -50.0
	}
	const beta = 200.0
	return -dist / beta
}
