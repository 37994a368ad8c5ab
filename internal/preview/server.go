// Package preview serves a freshly built map page and its data payloads over
// HTTP so a run can be checked in a browser before it is published.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/intermernet/trackmap/internal/render"
)

// shutdownTimeout bounds how long in-flight requests may take once the
// preview is asked to stop.
const shutdownTimeout = 5 * time.Second

// Server holds everything the preview handlers need. All of it is produced
// by one build and never changes while the server runs.
type Server struct {
	document []byte
	payloads render.Payloads
	geoJSON  []byte
	assets   Assets
}

// NewServer wires a rendered document, its payloads and the optional GeoJSON
// export into a Server. A zero Assets value disables static file serving.
func NewServer(document []byte, payloads render.Payloads, geoJSON []byte, assets Assets) *Server {
	return &Server{
		document: document,
		payloads: payloads,
		geoJSON:  geoJSON,
		assets:   assets,
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("preview server: listen on %s: %w", addr, err)
	}
	log.Printf("INFO: Preview server listening on http://%s", l.Addr())
	return s.Serve(ctx, l)
}

// Serve answers requests on l until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown. The listener is closed
// in every case.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()

	select {
	case err := <-errc:
		// Serve only returns on failure while nobody has called Shutdown.
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	log.Println("INFO: Preview server shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server: %w", err)
	}
	return nil
}

// envelope wraps JSON responses, e.g. `envelope{"status": "ok"}`.
type envelope map[string]interface{}

// writeJSON marshals data and writes it with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	js, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Internal Server Error: Failed to marshal JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

// errorJSON sends `{"error": "message"}` with the given status.
func (s *Server) errorJSON(w http.ResponseWriter, err error, status int) {
	s.writeJSON(w, status, envelope{"error": err.Error()})
}
