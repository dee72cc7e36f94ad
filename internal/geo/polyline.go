package geo

import (
	"math"
)

// EncodePolyline encodes a path into Google's polyline format at the
// standard precision of 5 decimal places. The encoded string lets a map
// client draw a day's visiting order without re-sending coordinates.
// The algorithm is documented at:
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func EncodePolyline(points []Coordinate) string {
	if len(points) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(points)*4)
	prevLat := 0
	prevLon := 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lon := int(math.Round(p.Lon * 1e5))

		encoded = appendPolylineValue(encoded, lat-prevLat)
		encoded = appendPolylineValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// DecodePolyline decodes a polyline-encoded string into a path.
func DecodePolyline(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var points []Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, next := decodePolylineValue(encoded, index)
		index = next
		lat += latDelta

		lonDelta, next := decodePolylineValue(encoded, index)
		index = next
		lon += lonDelta

		points = append(points, Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return points
}

// appendPolylineValue encodes a single delta in 5-bit chunks.
func appendPolylineValue(buf []byte, value int) []byte {
	// Invert if negative
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// decodePolylineValue decodes one delta starting at index and returns the
// delta and the new index.
func decodePolylineValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// Two's complement for negative values
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
