// Package gpx reads track logs from disk. Track files are named
// "<YYYYMMDD> - <title>.gpx"; the name carries the date and title, the
// content carries the points.
package gpx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/intermernet/trackmap/internal/geo"

	"github.com/tkrajina/gpxgo/gpx"
)

// Extension is the only file extension the loader picks up.
const Extension = ".gpx"

// filenameDateLayout is the date prefix of every track file, e.g. "20240601".
const filenameDateLayout = "20060102"

// filenameSeparator splits the date prefix from the title.
const filenameSeparator = " - "

// ErrMalformedFilename is returned when a track file is not named
// "<YYYYMMDD> - <title>.gpx".
var ErrMalformedFilename = errors.New("malformed track filename")

// Segment is one track segment found in a file. A file with several tracks or
// segments yields several Segments that share Date and Title.
type Segment struct {
	Date   time.Time
	Title  string
	Points []geo.Point
	Source string // base name of the file the segment came from
}

// ParseFilename extracts the date and title from a track filename. The
// extension, if any, is stripped before parsing.
func ParseFilename(name string) (time.Time, string, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	dateStr, title, ok := strings.Cut(base, filenameSeparator)
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: %q has no %q separator", ErrMalformedFilename, name, filenameSeparator)
	}

	date, err := time.Parse(filenameDateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q has an invalid date: %v", ErrMalformedFilename, name, err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return time.Time{}, "", fmt.Errorf("%w: %q has an empty title", ErrMalformedFilename, name)
	}

	return date, title, nil
}

// ParseSegments decodes GPX content and returns the points of every segment
// of every track, in document order. Segments without points are kept so the
// caller can decide what an empty segment means.
func ParseSegments(data []byte) ([][]geo.Point, error) {
	gpxData, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var segments [][]geo.Point
	for _, track := range gpxData.Tracks {
		for _, segment := range track.Segments {
			points := make([]geo.Point, 0, len(segment.Points))
			for _, point := range segment.Points {
				points = append(points, geo.Point{
					Lat: point.Latitude,
					Lon: point.Longitude,
				})
			}
			segments = append(segments, points)
		}
	}
	return segments, nil
}

// LoadFile reads a single track file and returns one Segment per track
// segment it contains.
func LoadFile(path string) ([]Segment, error) {
	name := filepath.Base(path)

	// 1. The filename carries the metadata, so validate it before reading.
	date, title, err := ParseFilename(name)
	if err != nil {
		return nil, err
	}

	// 2. Read and parse the file content.
	gpxBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pointSets, err := ParseSegments(gpxBytes)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	// 3. Every segment becomes its own entry.
	segments := make([]Segment, 0, len(pointSets))
	for _, points := range pointSets {
		segments = append(segments, Segment{
			Date:   date,
			Title:  title,
			Points: points,
			Source: name,
		})
	}
	return segments, nil
}

// LoadDir scans dir for track files and loads all of them. Files are visited
// in lexical order; other extensions and subdirectories are ignored. Any
// malformed filename or unparseable file aborts the whole load.
func LoadDir(dir string) ([]Segment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read track directory: %w", err)
	}

	var segments []Segment
	for _, entry := range entries {
		if entry.IsDir() || !IsTrackFile(entry.Name()) {
			continue
		}
		fileSegments, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		segments = append(segments, fileSegments...)
	}
	return segments, nil
}

// IsTrackFile reports whether name has the track-log extension.
func IsTrackFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}
