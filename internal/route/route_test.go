package route

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/intermernet/trackmap/internal/geo"
	"github.com/intermernet/trackmap/internal/gpx"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestColorForYear(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2023, "#0000FF"},
		{2024, "#FF0000"},
		{2025, "#008000"},
		{2022, "#000000"},
		{2026, "#000000"},
	}
	for _, tt := range tests {
		if got := ColorForYear(tt.year); got != tt.want {
			t.Errorf("ColorForYear(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	seg := gpx.Segment{
		Date:   day(2024, time.June, 1),
		Title:  "Sněžka",
		Points: []geo.Point{{Lat: 50.0, Lon: 15.0}, {Lat: 50.2, Lon: 15.2}},
	}

	r := New(seg)
	if r.Title != "Sněžka" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Date != "01.06.2024" {
		t.Errorf("Date = %q, want 01.06.2024", r.Date)
	}
	if r.Year != 2024 || r.Color != "#FF0000" {
		t.Errorf("Year/Color = %d/%q", r.Year, r.Color)
	}
	if r.Center == nil {
		t.Fatal("Center is nil")
	}
	if math.Abs(r.Center.Lat-50.1) > 1e-9 || math.Abs(r.Center.Lon-15.1) > 1e-9 {
		t.Errorf("Center = %+v", *r.Center)
	}
	if r.DistanceKm <= 0 {
		t.Errorf("DistanceKm = %v, want > 0", r.DistanceKm)
	}
}

func TestNew_EmptySegmentHasNoCenter(t *testing.T) {
	r := New(gpx.Segment{Date: day(2023, time.March, 4), Title: "Empty"})
	if r.Center != nil {
		t.Fatalf("Center = %+v, want nil", *r.Center)
	}
	if r.Color != "#0000FF" {
		t.Errorf("Color = %q", r.Color)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["center"] != nil {
		t.Errorf("center = %v, want null", decoded["center"])
	}
	if pts, ok := decoded["points"].([]interface{}); !ok || len(pts) != 0 {
		t.Errorf("points = %v, want []", decoded["points"])
	}
}

func TestBuild_PreservesOrder(t *testing.T) {
	segs := []gpx.Segment{
		{Date: day(2025, time.May, 2), Title: "B", Points: []geo.Point{{Lat: 1, Lon: 1}}},
		{Date: day(2021, time.May, 1), Title: "A", Points: []geo.Point{{Lat: 2, Lon: 2}}},
	}
	routes := Build(segs)
	if len(routes) != 2 || routes[0].Title != "B" || routes[1].Title != "A" {
		t.Fatalf("unexpected routes: %+v", routes)
	}
	if routes[1].Color != DefaultColor {
		t.Errorf("Color = %q, want %q", routes[1].Color, DefaultColor)
	}
}

func TestYears(t *testing.T) {
	routes := []Route{{Year: 2023}, {Year: 2025}, {Year: 2023}, {Year: 2024}}
	got := Years(routes)
	want := []int{2025, 2024, 2023}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Years = %v, want %v", got, want)
	}
}
