// Package db persists authors, works, and place mentions in SQLite.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS authors (
    author_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL UNIQUE,
    wikipedia_url TEXT,
    birth_year    INTEGER,
    death_year    INTEGER,
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS works (
    work_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id        INTEGER NOT NULL REFERENCES authors(author_id),
    title            TEXT NOT NULL,
    aozora_url       TEXT,
    publication_year INTEGER,
    genre            TEXT,
    created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(author_id, title)
);

CREATE TABLE IF NOT EXISTS places (
    place_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    work_id           INTEGER NOT NULL REFERENCES works(work_id),
    place_name        TEXT NOT NULL,
    latitude          REAL,
    longitude         REAL,
    address           TEXT,
    before_text       TEXT,
    sentence          TEXT,
    after_text        TEXT,
    extraction_method TEXT,
    confidence        REAL,
    maps_url          TEXT,
    geocoded          BOOLEAN NOT NULL DEFAULT 0,
    created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(work_id, place_name)
);

CREATE INDEX IF NOT EXISTS idx_places_name ON places(place_name);
CREATE INDEX IF NOT EXISTS idx_places_work ON places(work_id);
CREATE INDEX IF NOT EXISTS idx_works_author ON works(author_id);

CREATE VIEW IF NOT EXISTS bungo_integrated AS
SELECT p.place_id, p.place_name, p.latitude, p.longitude, p.address,
       p.before_text, p.sentence, p.after_text,
       p.extraction_method, p.confidence, p.maps_url, p.geocoded,
       w.work_id, w.title AS work_title, w.aozora_url,
       a.author_id, a.name AS author_name
FROM places p
JOIN works w ON w.work_id = p.work_id
JOIN authors a ON a.author_id = w.author_id
`

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
