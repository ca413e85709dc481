package geo

import (
	"encoding/json"
	"testing"
)

func TestDistanceSymmetricAndZero(t *testing.T) {
	a := Point{Lat: 4.60971, Lng: -74.08175}  // Bogota
	b := Point{Lat: 6.25184, Lng: -75.56359} // Medellin

	if got := Distance(a, a); got != 0 {
		t.Fatalf("distance(a,a) = %v, want 0", got)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Fatalf("distance is not symmetric: %v vs %v", Distance(a, b), Distance(b, a))
	}

	// Bogota-Medellin is roughly 240 km.
	d := Distance(a, b)
	if d < 230000 || d > 260000 {
		t.Fatalf("unexpected Bogota-Medellin distance: %v m", d)
	}
}

func TestVerifyBoundaryInclusive(t *testing.T) {
	a := Point{Lat: 4.60971, Lng: -74.08175}
	target := a
	d := Distance(a, target)

	res := Verify(a, &target, d)
	if !res.Verified() {
		t.Fatalf("distance == max must verify, got %+v", res)
	}

	// ~111 m north of target.
	near := Point{Lat: a.Lat + 0.001, Lng: a.Lng}
	nd := Distance(near, target)

	res = Verify(near, &target, nd)
	if !res.Verified() {
		t.Fatalf("boundary case must be inclusive, got %+v", res)
	}

	res = Verify(near, &target, nd-1)
	if res.Status != StatusRejected {
		t.Fatalf("expected rejection outside radius, got %+v", res)
	}
}

func TestVerifySkippedWithoutTarget(t *testing.T) {
	res := Verify(Point{Lat: 1, Lng: 1}, nil, 150)
	if res.Status != StatusSkipped {
		t.Fatalf("expected skipped result, got %+v", res)
	}
	if res.Verified() {
		t.Fatal("skipped result must not count as verified")
	}
}

func TestValidCoordinates(t *testing.T) {
	if ValidCoordinates(91, 0) {
		t.Fatal("latitude 91 must be invalid")
	}
	if ValidCoordinates(0, -181) {
		t.Fatal("longitude -181 must be invalid")
	}
	if !ValidCoordinates(-90, 180) {
		t.Fatal("range edges must be valid")
	}
}

func TestExtractPointShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want *Point
	}{
		{"lat_lng", `{"lat": 4.6, "lng": -74.1}`, &Point{4.6, -74.1}},
		{"latitude_longitude", `{"latitude": 4.6, "longitude": -74.1}`, &Point{4.6, -74.1}},
		{"nested_location", `{"street":"Cra 7","location":{"lat":4.6,"lng":-74.1}}`, &Point{4.6, -74.1}},
		{"geometry_location", `{"geometry":{"location":{"lat":4.6,"lng":-74.1}}}`, &Point{4.6, -74.1}},
		{"string_coords", `{"lat":"4.6","lng":"-74.1"}`, &Point{4.6, -74.1}},
		{"no_coords", `{"street":"Cra 7 # 12-34"}`, nil},
		{"out_of_range", `{"lat": 95, "lng": 10}`, nil},
		{"empty", ``, nil},
		{"not_json", `not json`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPoint(json.RawMessage(tc.doc))
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
			if got != nil && (got.Lat != tc.want.Lat || got.Lng != tc.want.Lng) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
