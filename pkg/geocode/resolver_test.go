package geocode

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider counts calls and serves a scripted response.
type fakeProvider struct {
	name       string
	confidence float64
	loc        *Location
	err        error
	calls      int
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Confidence() float64 { return f.confidence }
func (f *fakeProvider) Geocode(_ context.Context, _, _ string) (*Location, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.loc, nil
}

func memCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache("")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return c
}

func TestResolveFallbackToSecondary(t *testing.T) {
	primary := &fakeProvider{name: "google", confidence: 0.9, err: errors.New("timeout")}
	secondary := &fakeProvider{name: "nominatim", confidence: 0.7,
		loc: &Location{Latitude: 33.8416, Longitude: 132.7656, Address: "愛媛県松山市"}}
	r := NewResolver(memCache(t), primary, secondary)

	res := r.Resolve(context.Background(), "松山市", "")
	if !res.Geocoded {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Provider != "nominatim" {
		t.Fatalf("expected secondary provider tag, got %s", res.Provider)
	}
	if *res.Latitude != 33.8416 || *res.Longitude != 132.7656 {
		t.Fatalf("unexpected coordinates: %v, %v", *res.Latitude, *res.Longitude)
	}
	if res.Confidence != 0.7 {
		t.Fatalf("expected tier confidence 0.7, got %v", res.Confidence)
	}
}

func TestResolveCacheHitSkipsProviders(t *testing.T) {
	p := &fakeProvider{name: "nominatim", confidence: 0.7,
		loc: &Location{Latitude: 33.8416, Longitude: 132.7656}}
	r := NewResolver(memCache(t), p)

	first := r.Resolve(context.Background(), "松山市", "")
	second := r.Resolve(context.Background(), "松山市", "")

	if p.calls != 1 {
		t.Fatalf("expected exactly 1 provider call, got %d", p.calls)
	}
	if !second.FromCache {
		t.Fatalf("expected cached result")
	}
	if *second.Latitude != *first.Latitude || *second.Longitude != *first.Longitude {
		t.Fatalf("cached coordinates differ: %+v vs %+v", first, second)
	}
	if second.Provider != first.Provider {
		t.Fatalf("cached provider tag differs: %s vs %s", first.Provider, second.Provider)
	}
}

func TestResolveFailureCachedPermanently(t *testing.T) {
	p := &fakeProvider{name: "nominatim", confidence: 0.7, err: ErrNoMatch}
	r := NewResolver(memCache(t), p)

	first := r.Resolve(context.Background(), "存在しない地名", "")
	if first.Geocoded {
		t.Fatalf("expected failure")
	}
	if first.Latitude != nil || first.Longitude != nil {
		t.Fatalf("failure must carry no coordinates")
	}

	second := r.Resolve(context.Background(), "存在しない地名", "")
	if p.calls != 1 {
		t.Fatalf("cached failure was retried: %d calls", p.calls)
	}
	if !second.FromCache || second.Geocoded {
		t.Fatalf("expected cached failure, got %+v", second)
	}
}

func TestResolveNoProvidersWritesFailure(t *testing.T) {
	c := memCache(t)
	r := NewResolver(c)
	res := r.Resolve(context.Background(), "松山市", "")
	if res.Geocoded {
		t.Fatalf("expected failure with no providers")
	}
	if c.Len() != 1 {
		t.Fatalf("expected failure entry in cache, got %d entries", c.Len())
	}
}

func TestResolveBatchStats(t *testing.T) {
	// 高松市 resolves, the other two miss.
	p := &fakeProvider{name: "nominatim", confidence: 0.7, err: ErrNoMatch}
	c := memCache(t)
	ok := CacheEntry{PlaceName: "高松市", Geocoded: true, Provider: "nominatim", Confidence: 0.7}
	lat, lng := 34.3428, 134.0466
	ok.Latitude, ok.Longitude = &lat, &lng
	if err := c.Put(CacheKey("高松市", DefaultCountry), ok); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	r := NewResolver(c, p)

	results, stats := r.ResolveBatch(context.Background(), []string{"高松市", "甲", "乙"}, 0)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if stats.Total != 3 || stats.Succeeded != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if want := 1.0 / 3.0; stats.SuccessRate != want {
		t.Fatalf("expected success rate %v, got %v", want, stats.SuccessRate)
	}
	if results[0].PlaceName != "高松市" {
		t.Fatalf("batch results out of input order: %+v", results)
	}
}

func TestResolveDefaultCountryKey(t *testing.T) {
	c := memCache(t)
	p := &fakeProvider{name: "nominatim", confidence: 0.7,
		loc: &Location{Latitude: 1, Longitude: 2}}
	r := NewResolver(c, p)
	r.Resolve(context.Background(), "松山市", "")
	if _, ok := c.Get(CacheKey("松山市", DefaultCountry)); !ok {
		t.Fatalf("expected entry under default-country key")
	}
}
