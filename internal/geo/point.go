// Package geo holds the coordinate type shared by the loader, the route
// builder and the renderer, plus the small amount of geometry they need.
package geo

import (
	"encoding/json"
	"fmt"

	"github.com/jftuga/geodist"
)

// Point is a WGS84 coordinate. It is encoded in JSON as a [lat, lon] pair,
// the form Leaflet accepts directly.
type Point struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the point as [lat, lon].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lon})
}

// UnmarshalJSON decodes a [lat, lon] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(pair))
	}
	p.Lat, p.Lon = pair[0], pair[1]
	return nil
}

// Center returns the arithmetic mean of the points. The second return value
// is false for an empty slice, in which case there is no center.
func Center(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lon: lon / n}, true
}

// LengthKm sums the haversine distance between consecutive points.
func LengthKm(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		a := geodist.Coord{Lat: points[i-1].Lat, Lon: points[i-1].Lon}
		b := geodist.Coord{Lat: points[i].Lat, Lon: points[i].Lon}
		_, km := geodist.HaversineDistance(a, b)
		total += km
	}
	return total
}
