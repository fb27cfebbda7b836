package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// googleConfidence is the tier ceiling for the commercial API.
const googleConfidence = 0.9

// GoogleProvider geocodes through the Google Maps Geocoding API.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleProvider builds the primary-tier provider. timeout bounds each
// call; zero means 10 seconds.
func NewGoogleProvider(apiKey string, timeout time.Duration) *GoogleProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{
		apiKey:  apiKey,
		baseURL: googleGeocodeURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

// Confidence implements Provider.
func (p *GoogleProvider) Confidence() float64 { return googleConfidence }

// Geocode implements Provider.
func (p *GoogleProvider) Geocode(ctx context.Context, place, country string) (*Location, error) {
	q := url.Values{}
	q.Set("address", place+", "+country)
	q.Set("language", "ja")
	q.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google geocode: status %s", resp.Status)
	}

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google geocode: decode: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoMatch
	default:
		return nil, fmt.Errorf("google geocode: api status %s", body.Status)
	}
	if len(body.Results) == 0 {
		return nil, ErrNoMatch
	}

	r := body.Results[0]
	return &Location{
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
		Address:   r.FormattedAddress,
	}, nil
}
