package db

import "time"

// Author is a registered writer.
type Author struct {
	ID           int64
	Name         string
	WikipediaURL string
	BirthYear    int
	DeathYear    int
}

// Work identifies an author + title pair. Immutable after creation except
// for metadata enrichment.
type Work struct {
	ID              int64
	AuthorID        int64
	AuthorName      string
	Title           string
	AozoraURL       string
	PublicationYear int
	Genre           string
}

// Place is a persisted place mention, unique by (work, place name).
// Geocoded is derived: true iff both coordinates are present.
type Place struct {
	ID               int64
	WorkID           int64
	WorkTitle        string
	AuthorName       string
	PlaceName        string
	Latitude         *float64
	Longitude        *float64
	Address          string
	BeforeText       string
	Sentence         string
	AfterText        string
	ExtractionMethod string
	Confidence       float64
	MapsURL          string
	Geocoded         bool
	UpdatedAt        time.Time
}

// Stats are the aggregate counts served without re-running extraction.
type Stats struct {
	Authors      int
	Works        int
	Places       int
	Geocoded     int
	GeocodedRate float64
}
