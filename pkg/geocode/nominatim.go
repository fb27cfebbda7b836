package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const nominatimSearchURL = "https://nominatim.openstreetmap.org/search"

// nominatimConfidence is the tier ceiling for the community geocoder.
const nominatimConfidence = 0.7

// NominatimProvider geocodes through the OpenStreetMap Nominatim service.
// Nominatim requires an identifying User-Agent.
type NominatimProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimProvider builds the fallback-tier provider. timeout bounds
// each call; zero means 10 seconds.
func NewNominatimProvider(userAgent string, timeout time.Duration) *NominatimProvider {
	if userAgent == "" {
		userAgent = "bungo-geocoder"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimProvider{
		baseURL:   nominatimSearchURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return "nominatim" }

// Confidence implements Provider.
func (p *NominatimProvider) Confidence() float64 { return nominatimConfidence }

// Geocode implements Provider.
func (p *NominatimProvider) Geocode(ctx context.Context, place, country string) (*Location, error) {
	q := url.Values{}
	q.Set("q", place+", "+country)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("accept-language", "ja")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: status %s", resp.Status)
	}

	// Nominatim serializes coordinates as strings.
	var body []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(body[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(body[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: parse lon: %w", err)
	}

	return &Location{Latitude: lat, Longitude: lon, Address: body[0].DisplayName}, nil
}
