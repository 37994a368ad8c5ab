// Package route turns loaded track segments into the Route records that the
// itinerary and the map page are built from.
package route

import (
	"sort"
	"time"

	"github.com/intermernet/trackmap/internal/geo"
	"github.com/intermernet/trackmap/internal/gpx"
)

// DateLayout is the display form of every date on the page.
const DateLayout = "02.01.2006"

// DefaultColor is used for years without an entry in yearColors.
const DefaultColor = "#000000"

var yearColors = map[int]string{
	2023: "#0000FF",
	2024: "#FF0000",
	2025: "#008000",
}

// Route is one drawable track segment together with the metadata shown for it.
type Route struct {
	Points     []geo.Point `json:"points"`
	Title      string      `json:"title"`
	Date       string      `json:"date"`
	Center     *geo.Point  `json:"center"` // nil when the segment has no points
	Year       int         `json:"year"`
	Color      string      `json:"color"`
	DistanceKm float64     `json:"distanceKm"`
}

// ColorForYear returns the display colour for routes recorded in year.
func ColorForYear(year int) string {
	if c, ok := yearColors[year]; ok {
		return c
	}
	return DefaultColor
}

// FormatDate renders t in the page's DD.MM.YYYY form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// New builds the Route for a single segment.
func New(seg gpx.Segment) Route {
	r := Route{
		Points:     seg.Points,
		Title:      seg.Title,
		Date:       FormatDate(seg.Date),
		Year:       seg.Date.Year(),
		Color:      ColorForYear(seg.Date.Year()),
		DistanceKm: geo.LengthKm(seg.Points),
	}
	if r.Points == nil {
		r.Points = []geo.Point{}
	}
	if c, ok := geo.Center(seg.Points); ok {
		r.Center = &c
	}
	return r
}

// Build produces one Route per segment, preserving input order.
func Build(segments []gpx.Segment) []Route {
	routes := make([]Route, 0, len(segments))
	for _, seg := range segments {
		routes = append(routes, New(seg))
	}
	return routes
}

// Years returns the distinct years present in routes, newest first.
func Years(routes []Route) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range routes {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
