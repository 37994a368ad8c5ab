// Package render turns the computed routes, itinerary and search index into
// the self-contained map page. The page only carries data; all interactive
// behaviour lives in the page's own script.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/intermernet/trackmap/internal/geo"
	"github.com/intermernet/trackmap/internal/itinerary"
	"github.com/intermernet/trackmap/internal/route"
)

// Element ids of the embedded JSON payloads.
const (
	RoutesID    = "routes-data"
	ItineraryID = "itinerary-data"
	SearchID    = "search-data"
	ConfigID    = "map-config"
)

var (
	//go:embed templates/map.html.tmpl
	pageHTML     string
	pageTemplate = template.Must(template.New("map").Parse(pageHTML))
)

// Marker is a fixed point of interest drawn on top of the routes.
type Marker struct {
	Position geo.Point `json:"position"`
	Label    string    `json:"label"`
	Icon     string    `json:"icon"`
}

// View describes the map's initial viewport and fixed markers.
type View struct {
	Title  string
	Lang   string
	Center geo.Point
	Zoom   int
	Home   Marker
}

// Payloads are the data blocks embedded in the page.
type Payloads struct {
	Routes    []route.Route           `json:"routes"`
	Itinerary []itinerary.Entry       `json:"itinerary"`
	Search    []itinerary.SearchEntry `json:"search"`
}

// mapConfig is the client-side view of View.
type mapConfig struct {
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	Home   Marker    `json:"home"`
}

type pageData struct {
	Title         string
	Lang          string
	Years         []int
	ConfigJSON    template.JS
	RoutesJSON    template.JS
	ItineraryJSON template.JS
	SearchJSON    template.JS
}

// Page writes the complete HTML document to w.
func Page(w io.Writer, view View, p Payloads) error {
	data := pageData{
		Title: view.Title,
		Lang:  view.Lang,
		Years: route.Years(p.Routes),
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	var err error
	if data.ConfigJSON, err = jsonBlock(mapConfig{Center: view.Center, Zoom: view.Zoom, Home: view.Home}); err != nil {
		return fmt.Errorf("encode map config: %w", err)
	}
	if data.RoutesJSON, err = jsonBlock(nonNil(p.Routes)); err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	if data.ItineraryJSON, err = jsonBlock(nonNil(p.Itinerary)); err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}
	if data.SearchJSON, err = jsonBlock(nonNil(p.Search)); err != nil {
		return fmt.Errorf("encode search index: %w", err)
	}

	return pageTemplate.Execute(w, data)
}

// Document renders the page into memory.
func Document(view View, p Payloads) ([]byte, error) {
	var buf bytes.Buffer
	if err := Page(&buf, view, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonBlock encodes v for a <script type="application/json"> element.
// json.Marshal escapes '<', '>' and '&', so the data can never close the
// surrounding script element early.
func jsonBlock(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// nonNil makes empty payloads encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ExtractPayloads reads the embedded data blocks back out of a rendered page.
func ExtractPayloads(doc []byte) (Payloads, error) {
	var p Payloads
	if err := extractBlock(doc, RoutesID, &p.Routes); err != nil {
		return Payloads{}, err
	}
	if err := extractBlock(doc, ItineraryID, &p.Itinerary); err != nil {
		return Payloads{}, err
	}
	if err := extractBlock(doc, SearchID, &p.Search); err != nil {
		return Payloads{}, err
	}
	return p, nil
}

func extractBlock(doc []byte, id string, v interface{}) error {
	open := []byte(`<script type="application/json" id="` + id + `">`)
	start := bytes.Index(doc, open)
	if start < 0 {
		return fmt.Errorf("payload %q not found", id)
	}
	start += len(open)

	end := bytes.Index(doc[start:], []byte("</script>"))
	if end < 0 {
		return errors.New("unterminated payload " + id)
	}
	if err := json.Unmarshal(doc[start:start+end], v); err != nil {
		return fmt.Errorf("decode payload %q: %w", id, err)
	}
	return nil
}
