// Package ingest runs the extraction → geocoding → persistence pipeline for
// one work and reports per-item outcomes.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m37335/bungo-project/pkg/db"
	"github.com/m37335/bungo-project/pkg/extract"
	"github.com/m37335/bungo-project/pkg/geocode"
)

// Reason codes surfaced in per-item results.
const (
	ReasonGeocodeFailed = "geocode_failed"
	ReasonStoreFailed   = "store_failed"
)

// Status of one mention after the pipeline.
type Status string

const (
	StatusInserted Status = "inserted"
	StatusUpdated  Status = "updated"
	StatusFailed   Status = "failed"
)

// ItemResult records the outcome for a single place mention. Reason is set
// for failures and for rows stored without coordinates.
type ItemResult struct {
	PlaceName string
	Status    Status
	Geocoded  bool
	Reason    string
}

// Summary aggregates a work's ingestion run.
type Summary struct {
	Inserted int
	Updated  int
	Geocoded int
	Errors   int
	Items    []ItemResult
}

// WorkMeta identifies the work being ingested.
type WorkMeta struct {
	Author    string
	Title     string
	AozoraURL string
}

// Ingester orchestrates the pipeline. Execution is synchronous and single
// threaded; the geocode rate limit is an explicit pause between live
// provider calls.
type Ingester struct {
	DB        *sql.DB
	Extractor *extract.Extractor
	Resolver  *geocode.Resolver

	// GeocodeDelay is the pause between live geocoding calls.
	GeocodeDelay time.Duration

	// MinTextRunes is the cutoff below which a work's text is treated as
	// an input error and skipped.
	MinTextRunes int

	Logger *slog.Logger
}

// NewIngester wires the pipeline stages together.
func NewIngester(conn *sql.DB, ex *extract.Extractor, res *geocode.Resolver) *Ingester {
	return &Ingester{
		DB:           conn,
		Extractor:    ex,
		Resolver:     res,
		GeocodeDelay: time.Second,
		MinTextRunes: 10,
		Logger:       slog.Default(),
	}
}

// IngestWork extracts, geocodes, and upserts every place mention of the
// given text. Empty or too-short text is logged and skipped without error.
// Failure to register the author or work is fatal; per-mention geocoding
// and storage failures are recorded in the summary and the run continues.
func (ig *Ingester) IngestWork(ctx context.Context, meta WorkMeta, text string) (Summary, error) {
	var summary Summary

	if meta.Author == "" || meta.Title == "" {
		return summary, fmt.Errorf("ingest: work metadata incomplete")
	}
	if len([]rune(strings.TrimSpace(text))) < ig.MinTextRunes {
		if ig.Logger != nil {
			ig.Logger.Warn("text too short, skipping work",
				"author", meta.Author, "title", meta.Title)
		}
		return summary, nil
	}

	authorID, err := db.CreateOrGetAuthor(ig.DB, meta.Author, "", 0, 0)
	if err != nil {
		return summary, fmt.Errorf("ingest: register author: %w", err)
	}
	workID, err := db.CreateOrGetWork(ig.DB, authorID, meta.Title, meta.AozoraURL, 0, "")
	if err != nil {
		return summary, fmt.Errorf("ingest: register work: %w", err)
	}

	mentions := ig.Extractor.Extract(text)
	if ig.Logger != nil {
		ig.Logger.Info("extraction complete",
			"work", meta.Title, "mentions", len(mentions))
	}

	for i, m := range mentions {
		res := ig.Resolver.Resolve(ctx, m.PlaceName, "")

		item := ItemResult{PlaceName: m.PlaceName, Geocoded: res.Geocoded}
		if !res.Geocoded {
			item.Reason = ReasonGeocodeFailed
		}

		params := db.PlaceParams{
			PlaceName:        m.PlaceName,
			Latitude:         res.Latitude,
			Longitude:        res.Longitude,
			Address:          res.Address,
			BeforeText:       m.BeforeText,
			Sentence:         m.Sentence,
			AfterText:        m.AfterText,
			ExtractionMethod: m.Method,
			Confidence:       m.Confidence,
		}
		_, inserted, err := db.UpsertPlace(ig.DB, workID, params)
		if err != nil {
			if ig.Logger != nil {
				ig.Logger.Error("store failed",
					"place", m.PlaceName, "error", err)
			}
			item.Status = StatusFailed
			item.Reason = ReasonStoreFailed
			summary.Errors++
			summary.Items = append(summary.Items, item)
			continue
		}

		if inserted {
			item.Status = StatusInserted
			summary.Inserted++
		} else {
			item.Status = StatusUpdated
			summary.Updated++
		}
		if res.Geocoded {
			summary.Geocoded++
		}
		summary.Items = append(summary.Items, item)

		if ig.GeocodeDelay > 0 && !res.FromCache && i < len(mentions)-1 {
			time.Sleep(ig.GeocodeDelay)
		}
	}

	return summary, nil
}
