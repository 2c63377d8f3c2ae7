package fixstream

import "time"

// Fix is a single GPS observation for one moving object. It is immutable;
// WithRoadID and WithCoords return modified copies rather than mutating the
// receiver.
type Fix struct {
	Lat       float64
	Lon       float64
	Timestamp time.Time
	ObjID     string

	// RoadID is absent (nil) on raw input and populated by the map-matcher.
	RoadID *string
}

// HasRoadID reports whether the fix has been assigned a road_id.
func (f Fix) HasRoadID() bool {
	return f.RoadID != nil
}

// RoadIDOrEmpty returns the road_id or "" if absent. Useful for comparisons
// where the caller wants to treat "absent" as its own distinct channel.
func (f Fix) RoadIDOrEmpty() string {
	if f.RoadID == nil {
		return ""
	}
	return *f.RoadID
}

// WithRoadID returns a copy of f with RoadID set to roadID.
func (f Fix) WithRoadID(roadID string) Fix {
	f.RoadID = &roadID
	return f
}

// WithCoords returns a copy of f with Lat/Lon replaced, as produced by
// snapping a fix onto a matched road edge's geometry.
func (f Fix) WithCoords(lat, lon float64) Fix {
	f.Lat = lat
	f.Lon = lon
	return f
}

// SameRoad reports whether f and other carry the same road_id, treating two
// absent road_ids as equal.
func (f Fix) SameRoad(other Fix) bool {
	return f.RoadIDOrEmpty() == other.RoadIDOrEmpty() && f.HasRoadID() == other.HasRoadID()
}
