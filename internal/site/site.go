// Package site runs the generation pipeline: load tracks, build routes,
// derive the itinerary and search index, render the page.
package site

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/intermernet/trackmap/internal/config"
	"github.com/intermernet/trackmap/internal/geo"
	"github.com/intermernet/trackmap/internal/gpx"
	"github.com/intermernet/trackmap/internal/itinerary"
	"github.com/intermernet/trackmap/internal/render"
	"github.com/intermernet/trackmap/internal/route"
)

// Site is the output of one build.
type Site struct {
	Document []byte
	Payloads render.Payloads
	GeoJSON  []byte // nil unless a GeoJSON export was requested
}

// Build runs the whole pipeline in memory. Nothing is written to disk, so a
// failure at any stage leaves the previous artifact untouched.
func Build(cfg *config.Config) (*Site, error) {
	// 1. Load every segment of every track file.
	segments, err := gpx.LoadDir(cfg.TrackDir)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Loaded %d track segments from %s.", len(segments), cfg.TrackDir)

	// 2. Turn segments into routes.
	routes := route.Build(segments)
	for _, r := range routes {
		if r.Center == nil {
			log.Printf("WARN: Route %q (%s) has no points.", r.Title, r.Date)
		}
	}

	// 3. Derive the two list views.
	entries, err := itinerary.Group(routes)
	if err != nil {
		return nil, fmt.Errorf("build itinerary: %w", err)
	}
	search := itinerary.SearchIndex(routes)
	log.Printf("INFO: Built %d routes, %d itinerary entries, %d search entries.", len(routes), len(entries), len(search))

	// 4. Render.
	payloads := render.Payloads{Routes: routes, Itinerary: entries, Search: search}
	doc, err := render.Document(viewFromConfig(cfg), payloads)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	s := &Site{Document: doc, Payloads: payloads}
	if cfg.GeoJSONFile != "" {
		if s.GeoJSON, err = render.GeoJSON(routes); err != nil {
			return nil, fmt.Errorf("export geojson: %w", err)
		}
	}
	return s, nil
}

// Write stores the page (and GeoJSON export, if any) on disk.
func (s *Site) Write(cfg *config.Config) error {
	if err := writeFile(cfg.OutputFile, s.Document); err != nil {
		return err
	}
	log.Printf("INFO: Wrote map page to %s.", cfg.OutputFile)

	if s.GeoJSON != nil {
		if err := writeFile(cfg.GeoJSONFile, s.GeoJSON); err != nil {
			return err
		}
		log.Printf("INFO: Wrote GeoJSON export to %s.", cfg.GeoJSONFile)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func viewFromConfig(cfg *config.Config) render.View {
	return render.View{
		Title:  cfg.MapTitle,
		Center: geo.Point{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon},
		Zoom:   cfg.MapZoom,
		Home: render.Marker{
			Position: geo.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon},
			Label:    cfg.HomeLabel,
			Icon:     cfg.HomeIcon,
		},
	}
}
