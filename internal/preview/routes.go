package preview

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router builds the preview routes: the page itself at "/", a health
// check, the data payloads under "/data" and, when configured, the asset
// directory under its own prefix. Nothing else on disk is reachable.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/health", s.handleHealth)

	// --- Data Endpoints ---
	// Open to any origin so the payloads can be pulled into other pages
	// while experimenting.
	r.Route("/data", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			MaxAge:         300,
		}))
		r.Get("/routes.json", s.handleRoutes)
		r.Get("/itinerary.json", s.handleItinerary)
		r.Get("/search.json", s.handleSearch)
		r.Get("/routes.geojson", s.handleGeoJSON)
	})

	// --- Static Assets ---
	// Only the icon directory is mounted. The page directory itself may hold
	// the .env file with the upload password.
	if s.assets.Dir != "" {
		prefix := "/" + s.assets.Prefix + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, s.assets.handler()))
	}
	return r
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.document)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.payloads.Routes)
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.payloads.Itinerary)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.payloads.Search)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	if s.geoJSON == nil {
		s.errorJSON(w, errors.New("geojson export was not generated"), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(s.geoJSON)
}
