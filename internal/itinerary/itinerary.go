// Package itinerary derives the two list views of the map page from the
// routes: the chronological itinerary, where a stay over consecutive days
// collapses into one date range, and the compact search index.
package itinerary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/intermernet/trackmap/internal/route"
)

// RangeSeparator separates the two ends of a date range in display strings.
const RangeSeparator = "–"

// ErrMalformedDate is returned when a route's date string cannot be parsed.
var ErrMalformedDate = errors.New("malformed route date")

// Entry is one line of the itinerary: a place and either a single date or a
// "start – end" range.
type Entry struct {
	Place string `json:"place"`
	Date  string `json:"date"`
}

// DateRange is an inclusive run of calendar days. Start == End for a single day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "DD.MM.YYYY" or "DD.MM.YYYY – DD.MM.YYYY".
func (r DateRange) String() string {
	if r.Start.Equal(r.End) {
		return route.FormatDate(r.Start)
	}
	return route.FormatDate(r.Start) + " " + RangeSeparator + " " + route.FormatDate(r.End)
}

// PlaceDates collects every date-point registered for one place.
type PlaceDates struct {
	Place string
	Dates []time.Time
}

// ParseDates reads a display date string. A single date yields one
// date-point; a range yields both of its ends.
func ParseDates(s string) ([]time.Time, error) {
	if start, end, ok := strings.Cut(s, RangeSeparator); ok {
		startDate, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		endDate, err := parseDate(end)
		if err != nil {
			return nil, err
		}
		return []time.Time{startDate, endDate}, nil
	}

	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return []time.Time{d}, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(route.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// Normalize groups the date-points of all routes by title. Places appear in
// the order they are first seen; dates keep route order and are not sorted.
func Normalize(routes []route.Route) ([]PlaceDates, error) {
	index := make(map[string]int)
	var places []PlaceDates

	for _, r := range routes {
		dates, err := ParseDates(r.Date)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Title, err)
		}

		i, ok := index[r.Title]
		if !ok {
			i = len(places)
			index[r.Title] = i
			places = append(places, PlaceDates{Place: r.Title})
		}
		places[i].Dates = append(places[i].Dates, dates...)
	}
	return places, nil
}

// MergeConsecutive sorts dates and collapses runs of consecutive calendar days
// into ranges. The input slice is not modified.
//
// A date that repeats (a second segment or a second file on the same day)
// joins the range it belongs to instead of breaking adjacency, so a place
// never gets two entries for the same day.
func MergeConsecutive(dates []time.Time) []DateRange {
	if len(dates) == 0 {
		return nil
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var ranges []DateRange
	current := DateRange{Start: sorted[0], End: sorted[0]}
	for _, d := range sorted[1:] {
		switch {
		case d.Equal(current.End):
			// Repeated day.
		case d.Equal(current.End.AddDate(0, 0, 1)):
			current.End = d
		default:
			ranges = append(ranges, current)
			current = DateRange{Start: d, End: d}
		}
	}
	return append(ranges, current)
}

// Group builds the itinerary: every place contributes one entry per run of
// consecutive days, and the full list is ordered by each entry's last day.
// Entries ending on the same day keep the order in which their places were
// first seen.
func Group(routes []route.Route) ([]Entry, error) {
	// 1. Collect the date-points of each place.
	places, err := Normalize(routes)
	if err != nil {
		return nil, err
	}

	// 2. Merge each place's days into ranges.
	type placeRange struct {
		place string
		r     DateRange
	}
	var all []placeRange
	for _, p := range places {
		for _, r := range MergeConsecutive(p.Dates) {
			all = append(all, placeRange{place: p.Place, r: r})
		}
	}

	// 3. Order by last day. The stable sort keeps first-seen order on ties.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].r.End.Before(all[j].r.End)
	})

	// 4. Render the display strings.
	entries := make([]Entry, 0, len(all))
	for _, pr := range all {
		entries = append(entries, Entry{Place: pr.place, Date: pr.r.String()})
	}
	return entries, nil
}
