// Command hysoc reads a CSV of GPS fixes, runs them through the streaming
// segmentation/compression pipeline, and prints emitted events as JSON
// lines. It is a runnable demonstration harness, not part of the core.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/matsaks/hysoc/internal/mapmatch"
	"github.com/matsaks/hysoc/internal/pipeline"
	"github.com/matsaks/hysoc/internal/squish"
	"github.com/matsaks/hysoc/internal/step"
)

func main() {
	csvPath := flag.String("csv", "", "path to a CSV file of fixes (required)")
	roadGraphPath := flag.String("road-graph", "", "path to a JSON road graph file (required)")
	latCol := flag.String("lat-col", "lat", "CSV column name for latitude")
	lonCol := flag.String("lon-col", "lon", "CSV column name for longitude")
	timeCol := flag.String("time-col", "timestamp", "CSV column name for the fix timestamp")
	objCol := flag.String("obj-col", "obj_id", "CSV column name for the object id")
	timeFormat := flag.String("time-format", time.RFC3339, "Go time layout used to parse the timestamp column")

	maxEps := flag.Float64("max-eps", 50.0, "STEP stay-point radius, in metres")
	minDuration := flag.Float64("min-duration", 120.0, "STEP stay-point minimum duration, in seconds")
	gridSize := flag.Float64("grid-size", 0, "STEP grid cell size, in metres (0 = spec default)")

	capacity := flag.Int("capacity", 50, "SQUISH retained-point capacity")
	moveCompression := flag.String("move-compression", "squish", "Move compression strategy: squish or stc")

	windowSize := flag.Int("window-size", 15, "map-matcher sliding window size")
	maxDist := flag.Float64("max-dist", 50.0, "map-matcher candidate-edge radius, in metres")
	maxDistInit := flag.Float64("max-dist-init", 100.0, "map-matcher candidate-edge radius for the oldest fix of each window, in metres")
	minProbNorm := flag.Float64("min-prob-norm", 0.001, "map-matcher minimum normalised path probability")

	flag.Parse()

	if *csvPath == "" || *roadGraphPath == "" {
		fmt.Fprintln(os.Stderr, "usage: hysoc -csv FILE -road-graph FILE [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	roadGraph, err := loadRoadGraph(*roadGraphPath)
	if err != nil {
		log.Fatalf("hysoc: loading road graph: %v", err)
	}

	moveMode := pipeline.MoveCompressionSquish
	if *moveCompression == "stc" {
		moveMode = pipeline.MoveCompressionSTC
	}

	cfg := pipeline.Config{
		MapMatch: mapmatch.Config{
			WindowSize:  *windowSize,
			MaxDist:     *maxDist,
			MaxDistInit: *maxDistInit,
			MinProbNorm: *minProbNorm,
		},
		Step: step.Config{
			MaxEpsMeters:       *maxEps,
			MinDurationSeconds: *minDuration,
			GridSizeMeters:     *gridSize,
		},
		Squish:          squish.Config{Capacity: *capacity},
		MoveCompression: moveMode,
	}

	p, err := pipeline.New(roadGraph, cfg)
	if err != nil {
		log.Fatalf("hysoc: building pipeline: %v", err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("hysoc: opening %s: %v", *csvPath, err)
	}
	defer f.Close()

	out := json.NewEncoder(os.Stdout)

	err = readFixes(f, *latCol, *lonCol, *timeCol, *objCol, *timeFormat, func(fix fixstream.Fix) error {
		events, err := p.ProcessFix(fix)
		if err != nil {
			return err
		}
		return emitEvents(out, events)
	})
	if err != nil {
		log.Fatalf("hysoc: processing fixes: %v", err)
	}

	final, err := p.Flush()
	if err != nil {
		log.Fatalf("hysoc: flushing pipeline: %v", err)
	}
	if err := emitEvents(out, final); err != nil {
		log.Fatalf("hysoc: encoding final events: %v", err)
	}
}

func readFixes(r io.Reader, latCol, lonCol, timeCol, objCol, timeFormat string, handle func(fixstream.Fix) error) error {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	latIdx, ok := colIdx[latCol]
	if !ok {
		return fmt.Errorf("CSV missing latitude column %q", latCol)
	}
	lonIdx, ok := colIdx[lonCol]
	if !ok {
		return fmt.Errorf("CSV missing longitude column %q", lonCol)
	}
	timeIdx, ok := colIdx[timeCol]
	if !ok {
		return fmt.Errorf("CSV missing timestamp column %q", timeCol)
	}
	objIdx, ok := colIdx[objCol]
	if !ok {
		return fmt.Errorf("CSV missing object-id column %q", objCol)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			return fmt.Errorf("parsing latitude %q: %w", row[latIdx], err)
		}
		lon, err := strconv.ParseFloat(row[lonIdx], 64)
		if err != nil {
			return fmt.Errorf("parsing longitude %q: %w", row[lonIdx], err)
		}
		ts, err := time.Parse(timeFormat, row[timeIdx])
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", row[timeIdx], err)
		}

		if err := handle(fixstream.Fix{Lat: lat, Lon: lon, Timestamp: ts, ObjID: row[objIdx]}); err != nil {
			return err
		}
	}
}

type roadGraphFile struct {
	Nodes []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"nodes"`
	Edges []struct {
		From   string `json:"from"`
		To     string `json:"to"`
		RoadID string `json:"road_id"`
	} `json:"edges"`
}

func loadRoadGraph(path string) (*mapmatch.RoadGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rgf roadGraphFile
	if err := json.Unmarshal(data, &rgf); err != nil {
		return nil, fmt.Errorf("parsing road graph JSON: %w", err)
	}

	nodes := make([]mapmatch.RoadNode, len(rgf.Nodes))
	for i, n := range rgf.Nodes {
		nodes[i] = mapmatch.RoadNode{ID: n.ID, Lat: n.Lat, Lon: n.Lon}
	}
	edges := make([]mapmatch.RoadEdge, len(rgf.Edges))
	for i, e := range rgf.Edges {
		edges[i] = mapmatch.RoadEdge{From: e.From, To: e.To, RoadID: e.RoadID}
	}

	return mapmatch.NewRoadGraph(nodes, edges)
}

func emitEvents(enc *json.Encoder, events []pipeline.Event) error {
	for _, e := range events {
		if err := enc.Encode(eventToJSON(e)); err != nil {
			return err
		}
	}
	return nil
}

// eventJSON is a flattened, JSON-friendly view of a pipeline.Event.
type eventJSON struct {
	Kind             string    `json:"kind"`
	ObjID            string    `json:"obj_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	CentroidLat      float64   `json:"centroid_lat,omitempty"`
	CentroidLon      float64   `json:"centroid_lon,omitempty"`
	PointCount       int       `json:"point_count"`
	CompressedPoints int       `json:"compressed_point_count,omitempty"`
}

func eventToJSON(e pipeline.Event) eventJSON {
	out := eventJSON{
		ObjID:      e.Segment.Points[0].ObjID,
		StartTime:  e.Segment.StartTime(),
		EndTime:    e.Segment.EndTime(),
		PointCount: len(e.Segment.Points),
	}
	switch e.Kind {
	case pipeline.EventStop:
		out.Kind = "stop"
		if e.CompressedStop != nil {
			out.CentroidLat = e.CompressedStop.Centroid.Lat
			out.CentroidLon = e.CompressedStop.Centroid.Lon
		}
	case pipeline.EventMove:
		out.Kind = "move"
		out.CompressedPoints = len(e.CompressedPoints)
	}
	return out
}
