package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/m37335/bungo-project/pkg/db"
)

func floatPtr(v float64) *float64 { return &v }

func samplePlaces() []db.Place {
	return []db.Place{
		{
			AuthorName:       "夏目漱石",
			WorkTitle:        "坊っちゃん",
			PlaceName:        "松山市",
			Latitude:         floatPtr(33.8416),
			Longitude:        floatPtr(132.7656),
			Address:          "愛媛県松山市",
			Sentence:         "松山市に着いた。",
			ExtractionMethod: "kagome_ner_City",
			Confidence:       0.8,
			MapsURL:          "https://www.google.com/maps?q=33.8416,132.7656",
			Geocoded:         true,
		},
		{
			AuthorName:       "夏目漱石",
			WorkTitle:        "坊っちゃん",
			PlaceName:        "幻想郷",
			Sentence:         "幻想郷は地図にない。",
			ExtractionMethod: "regex_pattern",
			Confidence:       0.6,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePlaces()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "author" || records[0][2] != "place_name" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][2] != "松山市" || records[1][3] != "33.8416" {
		t.Errorf("Unexpected geocoded row: %v", records[1])
	}
	// Ungeocoded places keep their row with empty coordinates.
	if records[2][2] != "幻想郷" || records[2][3] != "" || records[2][4] != "" {
		t.Errorf("Unexpected ungeocoded row: %v", records[2])
	}
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, samplePlaces()); err != nil {
		t.Fatalf("WriteGeoJSON failed: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("Failed to parse GeoJSON output: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("Expected FeatureCollection, got %q", fc.Type)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("Expected 1 feature (ungeocoded skipped), got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Geometry.Type != "Point" {
		t.Errorf("Expected Point geometry, got %q", f.Geometry.Type)
	}
	// Longitude first per GeoJSON spec.
	if len(f.Geometry.Coordinates) != 2 || f.Geometry.Coordinates[0] != 132.7656 || f.Geometry.Coordinates[1] != 33.8416 {
		t.Errorf("Unexpected coordinates: %v", f.Geometry.Coordinates)
	}
	if f.Properties["place_name"] != "松山市" {
		t.Errorf("Unexpected place_name property: %v", f.Properties["place_name"])
	}
	if !strings.Contains(buf.String(), "maps?q=") {
		t.Errorf("Expected maps URL in output")
	}
}

func TestWriteGeoJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, nil); err != nil {
		t.Fatalf("WriteGeoJSON failed on empty input: %v", err)
	}
	var fc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("Failed to parse empty GeoJSON: %v", err)
	}
	if fc["type"] != "FeatureCollection" {
		t.Errorf("Expected FeatureCollection, got %v", fc["type"])
	}
}
