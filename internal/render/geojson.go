package render

import (
	"github.com/intermernet/trackmap/internal/route"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports the routes as a FeatureCollection with one LineString per
// route. Routes without points have no geometry and are left out.
func GeoJSON(routes []route.Route) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, r := range routes {
		if len(r.Points) == 0 {
			continue
		}

		line := make(orb.LineString, 0, len(r.Points))
		for _, p := range r.Points {
			line = append(line, orb.Point{p.Lon, p.Lat})
		}

		f := geojson.NewFeature(line)
		f.Properties["title"] = r.Title
		f.Properties["date"] = r.Date
		f.Properties["year"] = r.Year
		f.Properties["color"] = r.Color
		f.Properties["distanceKm"] = r.DistanceKm
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
