package gpx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const twoTrackGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Morning</name>
    <trkseg>
      <trkpt lat="50.0" lon="15.0"></trkpt>
      <trkpt lat="50.2" lon="15.2"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="50.3" lon="15.3"></trkpt>
    </trkseg>
  </trk>
  <trk>
    <name>Afternoon</name>
    <trkseg>
      <trkpt lat="49.9" lon="16.1"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const emptySegmentGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg></trkseg></trk>
</gpx>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name      string
		wantDate  time.Time
		wantTitle string
	}{
		{"20240601 - Sněžka.gpx", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "Sněžka"},
		{"20231231 - New Year Walk.gpx", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "New Year Walk"},
		{"20250105 - Hill - North Ridge.gpx", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "Hill - North Ridge"},
		{"20240229 - Leap.GPX", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "Leap"},
		{"20240601 - no extension", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "no extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, title, err := ParseFilename(tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !date.Equal(tt.wantDate) {
				t.Errorf("date = %v, want %v", date, tt.wantDate)
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestParseFilename_Malformed(t *testing.T) {
	tests := []string{
		"Sněžka.gpx",
		"20240601-Sněžka.gpx",
		"2024-06-01 - Sněžka.gpx",
		"20241301 - Bad Month.gpx",
		"20230229 - Not Leap.gpx",
		"20240601 - .gpx",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseFilename(name)
			if !errors.Is(err, ErrMalformedFilename) {
				t.Fatalf("want ErrMalformedFilename, got %v", err)
			}
		})
	}
}

func TestLoadFile_SegmentsShareMetadata(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "20240601 - Sněžka.gpx", twoTrackGPX)

	segments, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Fatalf("want 3 segments, got %d", len(segments))
	}

	wantPoints := []int{2, 1, 1}
	for i, s := range segments {
		if s.Title != "Sněžka" {
			t.Errorf("segment %d title = %q", i, s.Title)
		}
		if s.Date.Year() != 2024 || s.Date.Month() != time.June || s.Date.Day() != 1 {
			t.Errorf("segment %d date = %v", i, s.Date)
		}
		if len(s.Points) != wantPoints[i] {
			t.Errorf("segment %d has %d points, want %d", i, len(s.Points), wantPoints[i])
		}
	}
	if segments[0].Points[1].Lat != 50.2 || segments[0].Points[1].Lon != 15.2 {
		t.Errorf("unexpected point %+v", segments[0].Points[1])
	}
}

func TestLoadFile_EmptySegment(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "20240601 - Empty.gpx", emptySegmentGPX)

	segments, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 1 || len(segments[0].Points) != 0 {
		t.Fatalf("want one empty segment, got %+v", segments)
	}
}

func TestLoadFile_InvalidContent(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "20240601 - Broken.gpx", "this is not xml")

	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240602 - Second.gpx", emptySegmentGPX)
	writeFile(t, dir, "20240601 - First.gpx", twoTrackGPX)
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "archive.gpx"), 0o755); err != nil {
		t.Fatal(err)
	}

	segments, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 4 {
		t.Fatalf("want 4 segments, got %d", len(segments))
	}
	if segments[0].Title != "First" || segments[3].Title != "Second" {
		t.Errorf("unexpected order: %q ... %q", segments[0].Title, segments[3].Title)
	}
}

func TestLoadDir_MalformedNameAbortsRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240601 - Good.gpx", twoTrackGPX)
	writeFile(t, dir, "bad name.gpx", twoTrackGPX)

	_, err := LoadDir(dir)
	if !errors.Is(err, ErrMalformedFilename) {
		t.Fatalf("want ErrMalformedFilename, got %v", err)
	}
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
