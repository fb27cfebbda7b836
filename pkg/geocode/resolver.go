package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultCountry is the country hint appended to every query.
const DefaultCountry = "日本"

// Result is the outcome of resolving one place name.
type Result struct {
	PlaceName  string
	Latitude   *float64
	Longitude  *float64
	Address    string
	Geocoded   bool
	Provider   string
	Confidence float64
	// FromCache is true when the result was served without a provider call.
	FromCache bool
}

// BatchStats summarizes a ResolveBatch run.
type BatchStats struct {
	Total       int
	Succeeded   int
	SuccessRate float64
}

// Resolver resolves place names through the cache, then each provider in
// order. Both successes and failures are written back to the cache, and a
// cache hit of either kind short-circuits all provider calls.
type Resolver struct {
	cache     *Cache
	providers []Provider
	Logger    *slog.Logger
}

// NewResolver wires a resolver around an injected cache and a provider
// chain ordered primary first.
func NewResolver(cache *Cache, providers ...Provider) *Resolver {
	return &Resolver{cache: cache, providers: providers, Logger: slog.Default()}
}

func resultFromEntry(e CacheEntry, fromCache bool) Result {
	return Result{
		PlaceName:  e.PlaceName,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		Address:    e.Address,
		Geocoded:   e.Geocoded,
		Provider:   e.Provider,
		Confidence: e.Confidence,
		FromCache:  fromCache,
	}
}

func entryFromResult(r Result) CacheEntry {
	return CacheEntry{
		PlaceName:  r.PlaceName,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Address:    r.Address,
		Geocoded:   r.Geocoded,
		Provider:   r.Provider,
		Confidence: r.Confidence,
	}
}

// Resolve resolves place against country (DefaultCountry when empty).
// On a cache miss the provider chain is tried in order; the first success
// is cached and returned, and exhaustion writes an explicit failure entry.
func (r *Resolver) Resolve(ctx context.Context, place, country string) Result {
	if country == "" {
		country = DefaultCountry
	}
	key := CacheKey(place, country)

	if e, ok := r.cache.Get(key); ok {
		return resultFromEntry(e, true)
	}

	for _, p := range r.providers {
		loc, err := p.Geocode(ctx, place, country)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) && r.Logger != nil {
				r.Logger.Warn("provider call failed",
					"provider", p.Name(), "place", place, "error", err)
			}
			continue
		}
		res := Result{
			PlaceName:  place,
			Latitude:   &loc.Latitude,
			Longitude:  &loc.Longitude,
			Address:    loc.Address,
			Geocoded:   true,
			Provider:   p.Name(),
			Confidence: p.Confidence(),
		}
		r.store(key, res)
		return res
	}

	failed := Result{PlaceName: place, Geocoded: false, Provider: "failed"}
	r.store(key, failed)
	return failed
}

func (r *Resolver) store(key string, res Result) {
	if err := r.cache.Put(key, entryFromResult(res)); err != nil && r.Logger != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// ResolveBatch resolves names in input order, pausing delay between live
// provider calls to respect upstream rate limits. Cache hits are not
// delayed. A single failure never aborts the batch.
func (r *Resolver) ResolveBatch(ctx context.Context, names []string, delay time.Duration) ([]Result, BatchStats) {
	results := make([]Result, 0, len(names))
	for i, name := range names {
		res := r.Resolve(ctx, name, "")
		results = append(results, res)
		if delay > 0 && !res.FromCache && i < len(names)-1 {
			time.Sleep(delay)
		}
	}

	stats := BatchStats{Total: len(results)}
	for _, res := range results {
		if res.Geocoded {
			stats.Succeeded++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Succeeded) / float64(stats.Total)
	}
	return results, stats
}
