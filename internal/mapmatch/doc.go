// Package mapmatch implements an online, windowed Hidden Markov Model
// map-matcher: it snaps raw fixes onto a road network, assigning each a
// road_id and replacing its coordinates with the projection onto the
// matched edge's geometry.
//
// The road network is modelled over github.com/katalvlaran/lvlath/graph;
// Dijkstra shortest paths over that graph supply the HMM's transition cost
// between candidate edges (route distance / connectivity), the one piece
// of the original matcher's design that has a direct library analogue in
// this module's dependency set. Candidate generation, emission
// probability, and Viterbi decoding are hand-rolled per the design-level
// description of the "distance matcher" variant: a Gaussian emission
// probability decaying with perpendicular distance to the candidate edge,
// and a transition cost derived from shortest-path distance between
// consecutive candidates.
package mapmatch
