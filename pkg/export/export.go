// Package export writes persisted place mentions to CSV and GeoJSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/m37335/bungo-project/pkg/db"
)

var csvHeader = []string{
	"author", "work", "place_name", "latitude", "longitude",
	"address", "sentence", "extraction_method", "confidence", "maps_url",
}

// WriteCSV writes all places as CSV rows, one per mention, including
// ungeocoded places with empty coordinate columns.
func WriteCSV(w io.Writer, places []db.Place) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range places {
		record := []string{
			p.AuthorName,
			p.WorkTitle,
			p.PlaceName,
			formatCoord(p.Latitude),
			formatCoord(p.Longitude),
			p.Address,
			p.Sentence,
			p.ExtractionMethod,
			strconv.FormatFloat(p.Confidence, 'f', 2, 64),
			p.MapsURL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for %s: %w", p.PlaceName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGeoJSON writes geocoded places as a GeoJSON FeatureCollection of
// points. Places without coordinates are skipped.
func WriteGeoJSON(w io.Writer, places []db.Place) error {
	fc := geojson.NewFeatureCollection()
	for _, p := range places {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		// GeoJSON positions are [longitude, latitude].
		f := geojson.NewFeature(orb.Point{*p.Longitude, *p.Latitude})
		f.Properties = geojson.Properties{
			"author":            p.AuthorName,
			"work":              p.WorkTitle,
			"place_name":        p.PlaceName,
			"address":           p.Address,
			"sentence":          p.Sentence,
			"extraction_method": p.ExtractionMethod,
			"confidence":        p.Confidence,
			"maps_url":          p.MapsURL,
		}
		fc.Append(f)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
