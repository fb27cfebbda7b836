package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// mapsURL builds a Google Maps link for a resolved coordinate.
func mapsURL(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", *lat, *lng)
}

// CreateOrGetAuthor returns the existing author id or inserts a new author.
func CreateOrGetAuthor(db DBExecutor, name, wikipediaURL string, birthYear, deathYear int) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("author name must be non-empty")
	}

	var id int64
	query := `INSERT INTO authors (name, wikipedia_url, birth_year, death_year)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(name)
			  DO UPDATE SET
			    wikipedia_url = COALESCE(excluded.wikipedia_url, authors.wikipedia_url),
			    birth_year = COALESCE(excluded.birth_year, authors.birth_year),
			    death_year = COALESCE(excluded.death_year, authors.death_year)
			  RETURNING author_id`

	err := db.QueryRow(query, trimmed, nullableString(wikipediaURL),
		nullableInt(birthYear), nullableInt(deathYear)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert author: %w", err)
	}
	return id, nil
}

// CreateOrGetWork returns the existing work id for (author, title) or
// inserts a new work.
func CreateOrGetWork(db DBExecutor, authorID int64, title, aozoraURL string, publicationYear int, genre string) (int64, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return 0, fmt.Errorf("work title must be non-empty")
	}
	if authorID <= 0 {
		return 0, fmt.Errorf("authorID must be positive")
	}

	var id int64
	query := `INSERT INTO works (author_id, title, aozora_url, publication_year, genre)
			  VALUES (?, ?, ?, ?, ?)
			  ON CONFLICT(author_id, title)
			  DO UPDATE SET
			    aozora_url = COALESCE(excluded.aozora_url, works.aozora_url),
			    publication_year = COALESCE(excluded.publication_year, works.publication_year),
			    genre = COALESCE(excluded.genre, works.genre)
			  RETURNING work_id`

	err := db.QueryRow(query, authorID, trimmed, nullableString(aozoraURL),
		nullableInt(publicationYear), nullableString(genre)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert work: %w", err)
	}
	return id, nil
}

// PlaceParams carries the mutable fields of a place mention.
type PlaceParams struct {
	PlaceName        string
	Latitude         *float64
	Longitude        *float64
	Address          string
	BeforeText       string
	Sentence         string
	AfterText        string
	ExtractionMethod string
	Confidence       float64
}

// UpsertPlace stores a mention keyed by (work_id, place_name). An existing
// row has its mutable fields overwritten in place and keeps its identifier;
// otherwise a new row is inserted. The geocoded flag and maps_url are
// derived from the coordinates. Returns the row id and whether a new row
// was created.
func UpsertPlace(db DBExecutor, workID int64, p PlaceParams) (int64, bool, error) {
	trimmed := strings.TrimSpace(p.PlaceName)
	if trimmed == "" {
		return 0, false, fmt.Errorf("place name must be non-empty")
	}
	if workID <= 0 {
		return 0, false, fmt.Errorf("workID must be positive")
	}
	// Coordinates come in pairs or not at all.
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return 0, false, fmt.Errorf("partial coordinates for %s", trimmed)
	}

	geocoded := p.Latitude != nil && p.Longitude != nil
	murl := mapsURL(p.Latitude, p.Longitude)

	var id int64
	err := db.QueryRow(`SELECT place_id FROM places WHERE work_id = ? AND place_name = ?`,
		workID, trimmed).Scan(&id)
	switch {
	case err == nil:
		_, err = db.Exec(
			`UPDATE places SET latitude = ?, longitude = ?, address = ?, before_text = ?,
			 sentence = ?, after_text = ?, extraction_method = ?, confidence = ?,
			 maps_url = ?, geocoded = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE place_id = ?`,
			p.Latitude, p.Longitude, nullableString(p.Address), nullableString(p.BeforeText),
			nullableString(p.Sentence), nullableString(p.AfterText), p.ExtractionMethod,
			p.Confidence, nullableString(murl), geocoded, id)
		if err != nil {
			return 0, false, fmt.Errorf("update place %s: %w", trimmed, err)
		}
		return id, false, nil
	case err == sql.ErrNoRows:
		res, err := db.Exec(
			`INSERT INTO places (work_id, place_name, latitude, longitude, address,
			 before_text, sentence, after_text, extraction_method, confidence, maps_url, geocoded)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			workID, trimmed, p.Latitude, p.Longitude, nullableString(p.Address),
			nullableString(p.BeforeText), nullableString(p.Sentence), nullableString(p.AfterText),
			p.ExtractionMethod, p.Confidence, nullableString(murl), geocoded)
		if err != nil {
			return 0, false, fmt.Errorf("insert place %s: %w", trimmed, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	default:
		return 0, false, fmt.Errorf("lookup place %s: %w", trimmed, err)
	}
}

func scanPlaces(rows *sql.Rows) ([]Place, error) {
	defer rows.Close()
	var out []Place
	for rows.Next() {
		var p Place
		var lat, lng sql.NullFloat64
		var addr, before, sentence, after, method, murl sql.NullString
		var conf sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.PlaceName, &lat, &lng, &addr,
			&before, &sentence, &after, &method, &conf, &murl, &p.Geocoded,
			&p.WorkID, &p.WorkTitle, &p.AuthorName); err != nil {
			return nil, err
		}
		if lat.Valid {
			v := lat.Float64
			p.Latitude = &v
		}
		if lng.Valid {
			v := lng.Float64
			p.Longitude = &v
		}
		p.Address = addr.String
		p.BeforeText = before.String
		p.Sentence = sentence.String
		p.AfterText = after.String
		p.ExtractionMethod = method.String
		p.Confidence = conf.Float64
		p.MapsURL = murl.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const integratedColumns = `place_id, place_name, latitude, longitude, address,
	before_text, sentence, after_text, extraction_method, confidence, maps_url,
	geocoded, work_id, work_title, author_name`

// SearchPlaces returns place mentions whose name contains query.
func SearchPlaces(db DBExecutor, query string) ([]Place, error) {
	rows, err := db.Query(
		`SELECT `+integratedColumns+` FROM bungo_integrated
		 WHERE place_name LIKE ? ORDER BY author_name, work_title, place_name`,
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	return scanPlaces(rows)
}

// PlacesByWork returns every mention stored for the given work.
func PlacesByWork(db DBExecutor, workID int64) ([]Place, error) {
	rows, err := db.Query(
		`SELECT `+integratedColumns+` FROM bungo_integrated
		 WHERE work_id = ? ORDER BY place_name`, workID)
	if err != nil {
		return nil, err
	}
	return scanPlaces(rows)
}

// AllPlaces returns every stored mention, for export.
func AllPlaces(db DBExecutor) ([]Place, error) {
	rows, err := db.Query(
		`SELECT ` + integratedColumns + ` FROM bungo_integrated
		 ORDER BY author_name, work_title, place_name`)
	if err != nil {
		return nil, err
	}
	return scanPlaces(rows)
}

// ListUngeocoded returns mentions still missing coordinates.
func ListUngeocoded(db DBExecutor) ([]Place, error) {
	rows, err := db.Query(
		`SELECT ` + integratedColumns + ` FROM bungo_integrated
		 WHERE latitude IS NULL OR longitude IS NULL ORDER BY place_name`)
	if err != nil {
		return nil, err
	}
	return scanPlaces(rows)
}

// UpdatePlaceLocation backfills coordinates on an existing row and derives
// the geocoded flag and maps link.
func UpdatePlaceLocation(db DBExecutor, placeID int64, lat, lng float64, address string) error {
	murl := mapsURL(&lat, &lng)
	_, err := db.Exec(
		`UPDATE places SET latitude = ?, longitude = ?, address = ?, maps_url = ?,
		 geocoded = 1, updated_at = CURRENT_TIMESTAMP WHERE place_id = ?`,
		lat, lng, nullableString(address), murl, placeID)
	return err
}

// SearchAuthors returns authors whose name contains query.
func SearchAuthors(db DBExecutor, query string) ([]Author, error) {
	rows, err := db.Query(
		`SELECT author_id, name, wikipedia_url, birth_year, death_year
		 FROM authors WHERE name LIKE ? ORDER BY name`, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Author
	for rows.Next() {
		var a Author
		var wiki sql.NullString
		var birth, death sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Name, &wiki, &birth, &death); err != nil {
			return nil, err
		}
		a.WikipediaURL = wiki.String
		a.BirthYear = int(birth.Int64)
		a.DeathYear = int(death.Int64)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchWorks returns works whose title contains query, with author names.
func SearchWorks(db DBExecutor, query string) ([]Work, error) {
	rows, err := db.Query(
		`SELECT w.work_id, w.author_id, a.name, w.title, w.aozora_url,
		        w.publication_year, w.genre
		 FROM works w JOIN authors a ON a.author_id = w.author_id
		 WHERE w.title LIKE ? ORDER BY a.name, w.title`, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Work
	for rows.Next() {
		var w Work
		var aurl, genre sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&w.ID, &w.AuthorID, &w.AuthorName, &w.Title,
			&aurl, &year, &genre); err != nil {
			return nil, err
		}
		w.AozoraURL = aurl.String
		w.PublicationYear = int(year.Int64)
		w.Genre = genre.String
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStats returns aggregate counts and the geocoded ratio.
func GetStats(db DBExecutor) (Stats, error) {
	var s Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM authors", &s.Authors},
		{"SELECT COUNT(*) FROM works", &s.Works},
		{"SELECT COUNT(*) FROM places", &s.Places},
		{"SELECT COUNT(*) FROM places WHERE geocoded = 1", &s.Geocoded},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.dst); err != nil {
			return Stats{}, err
		}
	}
	if s.Places > 0 {
		s.GeocodedRate = float64(s.Geocoded) / float64(s.Places)
	}
	return s, nil
}
