package ingest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/m37335/bungo-project/pkg/db"
	"github.com/m37335/bungo-project/pkg/extract"
	"github.com/m37335/bungo-project/pkg/geocode"

	_ "github.com/mattn/go-sqlite3"
)

type stubProvider struct {
	locations map[string]*geocode.Location
	calls     int
}

func (s *stubProvider) Name() string        { return "stub" }
func (s *stubProvider) Confidence() float64 { return 0.7 }
func (s *stubProvider) Geocode(_ context.Context, place, _ string) (*geocode.Location, error) {
	s.calls++
	if loc, ok := s.locations[place]; ok {
		return loc, nil
	}
	return nil, geocode.ErrNoMatch
}

func newTestIngester(t *testing.T, p geocode.Provider) (*Ingester, *sql.DB) {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	cache, err := geocode.OpenCache("")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	ig := NewIngester(conn, extract.NewExtractor(extract.NewPatternRecognizer()),
		geocode.NewResolver(cache, p))
	ig.GeocodeDelay = 0
	return ig, conn
}

func TestIngestWorkSummary(t *testing.T) {
	p := &stubProvider{locations: map[string]*geocode.Location{
		"松山市": {Latitude: 33.8416, Longitude: 132.7656, Address: "愛媛県松山市"},
	}}
	ig, conn := newTestIngester(t, p)

	meta := WorkMeta{Author: "夏目漱石", Title: "坊っちゃん"}
	text := "親譲りの無鉄砲で小供の時から損ばかりしている。四国は松山市の中学校に赴任した。翌日には見知らぬ村を歩いた。"
	summary, err := ig.IngestWork(context.Background(), meta, text)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Inserted == 0 {
		t.Fatalf("expected inserted rows, got %+v", summary)
	}
	if summary.Geocoded == 0 {
		t.Fatalf("expected geocoded rows, got %+v", summary)
	}
	if summary.Errors != 0 {
		t.Fatalf("expected no errors, got %+v", summary)
	}
	if len(summary.Items) != summary.Inserted+summary.Updated {
		t.Fatalf("item results inconsistent with counts: %+v", summary)
	}

	places, err := db.SearchPlaces(conn, "松山市")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 || !places[0].Geocoded {
		t.Fatalf("expected persisted geocoded 松山市, got %+v", places)
	}
}

func TestIngestWorkRerunConverges(t *testing.T) {
	p := &stubProvider{locations: map[string]*geocode.Location{
		"松山市": {Latitude: 33.8416, Longitude: 132.7656},
	}}
	ig, conn := newTestIngester(t, p)

	meta := WorkMeta{Author: "夏目漱石", Title: "坊っちゃん"}
	text := "四国は松山市の中学校に赴任した。"

	first, err := ig.IngestWork(context.Background(), meta, text)
	if err != nil {
		t.Fatalf("ingest 1: %v", err)
	}
	second, err := ig.IngestWork(context.Background(), meta, text)
	if err != nil {
		t.Fatalf("ingest 2: %v", err)
	}
	if first.Inserted == 0 {
		t.Fatalf("first run should insert: %+v", first)
	}
	if second.Inserted != 0 || second.Updated != first.Inserted {
		t.Fatalf("rerun should update in place: %+v", second)
	}

	var cnt int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM places`).Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != first.Inserted {
		t.Fatalf("rerun duplicated rows: %d", cnt)
	}
}

func TestIngestWorkGeocodeFailureIsNotFatal(t *testing.T) {
	p := &stubProvider{locations: map[string]*geocode.Location{}}
	ig, conn := newTestIngester(t, p)

	meta := WorkMeta{Author: "夏目漱石", Title: "草枕"}
	summary, err := ig.IngestWork(context.Background(), meta,
		"山路を登りながら松山市のことを考えた。")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Geocoded != 0 {
		t.Fatalf("expected no geocoded rows, got %+v", summary)
	}
	if summary.Inserted == 0 {
		t.Fatalf("ungeocoded mentions must still be stored: %+v", summary)
	}
	for _, item := range summary.Items {
		if !item.Geocoded && item.Reason != ReasonGeocodeFailed {
			t.Fatalf("missing reason code: %+v", item)
		}
	}

	places, err := db.SearchPlaces(conn, "松山市")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 || places[0].Geocoded || places[0].Latitude != nil {
		t.Fatalf("expected stored ungeocoded row, got %+v", places)
	}
}

func TestIngestWorkShortTextSkipped(t *testing.T) {
	ig, conn := newTestIngester(t, &stubProvider{})

	summary, err := ig.IngestWork(context.Background(),
		WorkMeta{Author: "夏目漱石", Title: "断片"}, "短い。")
	if err != nil {
		t.Fatalf("short text must not be fatal: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}

	var cnt int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM works`).Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("skipped work must not be registered")
	}
}

func TestIngestWorkMissingMetadata(t *testing.T) {
	ig, _ := newTestIngester(t, &stubProvider{})
	if _, err := ig.IngestWork(context.Background(), WorkMeta{}, "四国は松山市の中学校に赴任した。"); err == nil {
		t.Fatalf("expected error for missing metadata")
	}
}

func TestIngestWorkCachedGeocodeSkipsProvider(t *testing.T) {
	p := &stubProvider{locations: map[string]*geocode.Location{
		"松山市": {Latitude: 33.8416, Longitude: 132.7656},
	}}
	ig, _ := newTestIngester(t, p)

	meta := WorkMeta{Author: "夏目漱石", Title: "坊っちゃん"}
	text := "四国は松山市の中学校に赴任した。"
	if _, err := ig.IngestWork(context.Background(), meta, text); err != nil {
		t.Fatalf("ingest 1: %v", err)
	}
	callsAfterFirst := p.calls
	if _, err := ig.IngestWork(context.Background(), meta, text); err != nil {
		t.Fatalf("ingest 2: %v", err)
	}
	if p.calls != callsAfterFirst {
		t.Fatalf("rerun hit providers despite cache: %d vs %d", callsAfterFirst, p.calls)
	}
}
