package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingPublishSettings is returned by ValidatePublish when the upload
// destination is not fully configured.
var ErrMissingPublishSettings = errors.New("publish settings are incomplete")

// Config holds all configuration for a single run. Values come from the
// environment, which may be pre-populated from an env file by the caller.
type Config struct {
	// --- Input & Output ---
	TrackDir    string
	OutputFile  string
	GeoJSONFile string

	// --- Map Presentation ---
	MapTitle     string
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
	HomeLat      float64
	HomeLon      float64
	HomeLabel    string
	HomeIcon     string

	// --- Publishing ---
	PublishProtocol   string
	PublishHost       string
	PublishUser       string
	PublishPassword   string
	PublishRemotePath string
	PublishTimeout    time.Duration
	SSHKnownHosts     string

	// --- Preview ---
	PreviewAddr string // host:port, loopback only by default
}

// New creates a Config by loading values from environment variables.
// Non-critical values fall back to defaults; malformed numeric values are
// reported as errors so a typo never silently moves the map.
func New() (*Config, error) {
	cfg := &Config{
		TrackDir:          envOr("TRACK_DIR", "gpx"),
		OutputFile:        envOr("OUTPUT_FILE", "mapa.html"),
		GeoJSONFile:       os.Getenv("GEOJSON_FILE"),
		MapTitle:          envOr("MAP_TITLE", "Trips"),
		HomeLabel:         envOr("HOME_LABEL", "Home"),
		HomeIcon:          envOr("HOME_ICON", "obrazky/hrabos.png"),
		PublishProtocol:   envOr("PUBLISH_PROTOCOL", "ftp"),
		PublishHost:       os.Getenv("FTP_HOST"),
		PublishUser:       os.Getenv("FTP_USER"),
		PublishPassword:   os.Getenv("FTP_PASSWORD"),
		PublishRemotePath: envOr("PUBLISH_REMOTE_PATH", "/www/mapa.html"),
		SSHKnownHosts:     os.Getenv("SSH_KNOWN_HOSTS"),
		PreviewAddr:       envOr("PREVIEW_ADDR", "127.0.0.1:8080"),
	}

	// --- Parse numeric values ---
	var err error
	if cfg.MapCenterLat, err = envFloat("MAP_CENTER_LAT", 50.209); err != nil {
		return nil, err
	}
	if cfg.MapCenterLon, err = envFloat("MAP_CENTER_LON", 15.832); err != nil {
		return nil, err
	}
	if cfg.HomeLat, err = envFloat("HOME_LAT", 50.206875); err != nil {
		return nil, err
	}
	if cfg.HomeLon, err = envFloat("HOME_LON", 15.8349467); err != nil {
		return nil, err
	}

	zoom := envOr("MAP_ZOOM", "13")
	if cfg.MapZoom, err = strconv.Atoi(zoom); err != nil {
		return nil, fmt.Errorf("invalid MAP_ZOOM %q: %w", zoom, err)
	}

	timeout := envOr("PUBLISH_TIMEOUT", "30s")
	if cfg.PublishTimeout, err = time.ParseDuration(timeout); err != nil {
		return nil, fmt.Errorf("invalid PUBLISH_TIMEOUT %q: %w", timeout, err)
	}

	return cfg, nil
}

// ValidatePublish checks that everything needed for an upload is present.
// It is only called when the run actually publishes.
func (c *Config) ValidatePublish() error {
	var missing []string
	if c.PublishHost == "" {
		missing = append(missing, "FTP_HOST")
	}
	if c.PublishUser == "" {
		missing = append(missing, "FTP_USER")
	}
	if c.PublishPassword == "" {
		missing = append(missing, "FTP_PASSWORD")
	}
	if c.PublishRemotePath == "" {
		missing = append(missing, "PUBLISH_REMOTE_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrMissingPublishSettings, missing)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
