// Package geo verifies check-in proximity with a haversine distance check.
// Verification is fail-open: when the booking address carries no usable
// coordinates the result is "skipped", never a rejection.
package geo

import (
	"encoding/json"
	"math"
	"strconv"
)

const earthRadiusM = 6371000.0

const (
	StatusVerified = "verified"
	StatusRejected = "rejected"
	StatusSkipped  = "skipped"
)

type Point struct {
	Lat float64
	Lng float64
}

// Result is the tri-state outcome of a proximity check.
type Result struct {
	Status         string  `json:"status"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
	MaxMeters      float64 `json:"max_meters"`
	Reason         string  `json:"reason,omitempty"`
}

// Verified is true only for an actual passed geofence, not for skipped checks.
func (r Result) Verified() bool { return r.Status == StatusVerified }

// ValidCoordinates reports whether lat/lng are inside their legal ranges.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Distance returns the great-circle distance between two points, rounded to
// whole meters.
func Distance(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	latARad := a.Lat * math.Pi / 180
	latBRad := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(latARad)*math.Cos(latBRad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusM * c)
}

// Verify compares the current position against a target within maxMeters.
// The boundary is inclusive; a nil target yields a skipped (fail-open) result.
func Verify(current Point, target *Point, maxMeters float64) Result {
	if target == nil {
		return Result{
			Status:    StatusSkipped,
			MaxMeters: maxMeters,
			Reason:    "target location unavailable",
		}
	}

	d := Distance(current, *target)
	if d <= maxMeters {
		return Result{Status: StatusVerified, DistanceMeters: d, MaxMeters: maxMeters}
	}
	return Result{
		Status:         StatusRejected,
		DistanceMeters: d,
		MaxMeters:      maxMeters,
		Reason:         "outside allowed radius",
	}
}

// ExtractPoint pulls coordinates out of a stored address document. Several
// shapes are tolerated: {lat,lng}, {latitude,longitude}, a nested "location"
// object, and a places-style "geometry.location". Returns nil when no usable
// pair is present.
func ExtractPoint(address json.RawMessage) *Point {
	if len(address) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(address, &doc); err != nil {
		return nil
	}
	return extractFromMap(doc)
}

func extractFromMap(doc map[string]any) *Point {
	if p := pairFrom(doc, "lat", "lng"); p != nil {
		return p
	}
	if p := pairFrom(doc, "latitude", "longitude"); p != nil {
		return p
	}
	if loc, ok := doc["location"].(map[string]any); ok {
		if p := extractFromMap(loc); p != nil {
			return p
		}
	}
	if geom, ok := doc["geometry"].(map[string]any); ok {
		if loc, ok := geom["location"].(map[string]any); ok {
			if p := extractFromMap(loc); p != nil {
				return p
			}
		}
	}
	return nil
}

func pairFrom(doc map[string]any, latKey, lngKey string) *Point {
	lat, okLat := numberValue(doc[latKey])
	lng, okLng := numberValue(doc[lngKey])
	if !okLat || !okLng {
		return nil
	}
	if !ValidCoordinates(lat, lng) {
		return nil
	}
	return &Point{Lat: lat, Lng: lng}
}

func numberValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
