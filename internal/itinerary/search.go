package itinerary

import "github.com/intermernet/trackmap/internal/route"

// SearchEntry is one autocomplete candidate for the page's search bar.
type SearchEntry struct {
	Place string `json:"place"`
	Date  string `json:"date"`
}

// SearchIndex lists each distinct title once, with the date of the first
// route that carried it. Later visits to the same place are left to the
// itinerary.
func SearchIndex(routes []route.Route) []SearchEntry {
	seen := make(map[string]bool)
	index := make([]SearchEntry, 0)
	for _, r := range routes {
		if seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		index = append(index, SearchEntry{Place: r.Title, Date: r.Date})
	}
	return index
}
