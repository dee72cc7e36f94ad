// Package geo provides geographic primitives for itinerary optimization:
// coordinate validation, great-circle distance, and centroid computation.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// Geo errors.
var (
	ErrEmptyPointSet      = errors.New("centroid requires at least one point")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Coordinate represents a geographic point with latitude and longitude
// in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the coordinate is within valid ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]: %w", c.Lat, ErrInvalidCoordinates)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]: %w", c.Lon, ErrInvalidCoordinates)
	}
	return nil
}

// DistanceKm calculates the great-circle distance between two coordinates
// in kilometers using the haversine formula. The result is symmetric and
// zero (within floating tolerance) iff both coordinates are equal.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Centroid returns the arithmetic mean of the given coordinates.
// A plain lat/lon average is an acceptable approximation at city scale;
// no spherical correction is applied. Returns ErrEmptyPointSet for an
// empty input.
func Centroid(points []Coordinate) (Coordinate, error) {
	if len(points) == 0 {
		return Coordinate{}, ErrEmptyPointSet
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(points))
	return Coordinate{Lat: sumLat / n, Lon: sumLon / n}, nil
}

// PathLengthKm calculates the total length of a path in kilometers.
func PathLengthKm(points []Coordinate) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(points); i++ {
		total += DistanceKm(points[i-1], points[i])
	}
	return total
}
