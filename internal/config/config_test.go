package config

import (
	"errors"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	for _, k := range []string{"TRACK_DIR", "OUTPUT_FILE", "MAP_ZOOM", "HOME_LAT", "PUBLISH_TIMEOUT", "PUBLISH_PROTOCOL", "PREVIEW_ADDR"} {
		t.Setenv(k, "")
	}

	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TrackDir != "gpx" {
		t.Errorf("TrackDir = %q, want %q", cfg.TrackDir, "gpx")
	}
	if cfg.OutputFile != "mapa.html" {
		t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, "mapa.html")
	}
	if cfg.MapZoom != 13 {
		t.Errorf("MapZoom = %d, want 13", cfg.MapZoom)
	}
	if cfg.HomeLat != 50.206875 {
		t.Errorf("HomeLat = %v, want 50.206875", cfg.HomeLat)
	}
	if cfg.PublishTimeout != 30*time.Second {
		t.Errorf("PublishTimeout = %v, want 30s", cfg.PublishTimeout)
	}
	if cfg.PublishProtocol != "ftp" {
		t.Errorf("PublishProtocol = %q, want ftp", cfg.PublishProtocol)
	}
	// The preview must not be reachable from other machines unless asked.
	if cfg.PreviewAddr != "127.0.0.1:8080" {
		t.Errorf("PreviewAddr = %q, want 127.0.0.1:8080", cfg.PreviewAddr)
	}
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("TRACK_DIR", "/data/tracks")
	t.Setenv("MAP_ZOOM", "9")
	t.Setenv("HOME_LON", "14.5")
	t.Setenv("PUBLISH_TIMEOUT", "2m")

	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TrackDir != "/data/tracks" || cfg.MapZoom != 9 || cfg.HomeLon != 14.5 || cfg.PublishTimeout != 2*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestNew_InvalidNumbers(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"MAP_ZOOM", "close"},
		{"HOME_LAT", "north"},
		{"MAP_CENTER_LON", "1,5"},
		{"PUBLISH_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := New(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidatePublish(t *testing.T) {
	cfg := &Config{PublishRemotePath: "/www/mapa.html"}
	err := cfg.ValidatePublish()
	if !errors.Is(err, ErrMissingPublishSettings) {
		t.Fatalf("want ErrMissingPublishSettings, got %v", err)
	}

	cfg.PublishHost = "ftp.example.com"
	cfg.PublishUser = "user"
	cfg.PublishPassword = "secret"
	if err := cfg.ValidatePublish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
