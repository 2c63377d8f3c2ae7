package stopcompress

import (
	"testing"
	"time"

	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_EmptyInput(t *testing.T) {
	_, err := NewCompressor().Compress(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompress_CentroidAndTimeWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []fixstream.Fix{
		{Lat: 0, Lon: 0, Timestamp: base, ObjID: "obj-1"},
		{Lat: 2, Lon: 4, Timestamp: base.Add(time.Minute), ObjID: "obj-1"},
		{Lat: 4, Lon: 8, Timestamp: base.Add(2 * time.Minute), ObjID: "obj-1"},
	}

	out, err := NewCompressor().Compress(points)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, out.Centroid.Lat, 1e-9)
	assert.InDelta(t, 4.0, out.Centroid.Lon, 1e-9)
	assert.True(t, out.StartTime.Equal(base))
	assert.True(t, out.EndTime.Equal(base.Add(2*time.Minute)))
}

func TestFromSegment_ReusesSegmentCentroid(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []fixstream.Fix{
		{Lat: 0, Lon: 0, Timestamp: base, ObjID: "obj-1"},
		{Lat: 10, Lon: 10, Timestamp: base.Add(time.Minute), ObjID: "obj-1"},
	}
	stop, err := fixstream.NewStop(points)
	require.NoError(t, err)

	out, err := NewCompressor().FromSegment(stop)
	require.NoError(t, err)
	assert.Equal(t, *stop.Centroid, out.Centroid)
	assert.True(t, out.StartTime.Equal(base))
}
