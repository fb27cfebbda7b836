// Package geocode resolves place names to coordinates through a cached,
// two-tier provider chain.
package geocode

import (
	"context"
	"errors"
)

// ErrNoMatch is returned by a provider when the service answered but found
// no candidate for the place name.
var ErrNoMatch = errors.New("geocode: no match")

// Location is a resolved coordinate with its display address.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Provider is a synchronous geocoding backend. Implementations carry a
// fixed confidence ceiling reflecting the tier's precision.
type Provider interface {
	Name() string
	Confidence() float64
	Geocode(ctx context.Context, place, country string) (*Location, error)
}
