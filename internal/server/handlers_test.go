package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/moviegate/moviegate/pkg/cache"
	"github.com/moviegate/moviegate/pkg/search"
	"github.com/moviegate/moviegate/pkg/service"
)

type stubProvider struct {
	docs     map[string]map[string]json.RawMessage
	listDocs map[string][]json.RawMessage
}

func (s *stubProvider) GetByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	return s.docs[index][id], nil
}

func (s *stubProvider) Search(ctx context.Context, index string, q search.Query) ([]json.RawMessage, error) {
	docs := s.listDocs[index]
	if docs == nil {
		return []json.RawMessage{}, nil
	}
	return docs, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var pingOK = pingFunc(func(ctx context.Context) error { return nil })

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return raw
}

// newTestRouter wires the full route table over a stub index and an
// in-memory Redis.
func newTestRouter(t *testing.T, provider search.Provider, cachePing, sourcePing Pinger) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := cache.NewStore(client)
	rt := cache.NewReadThrough(store, time.Minute, zerolog.Nop())

	h := &handler{
		films:      service.NewFilms(provider, "movies", rt, zerolog.Nop()),
		genres:     service.NewGenres(provider, "genres", rt, zerolog.Nop()),
		persons:    service.NewPersons(provider, "persons", rt, zerolog.Nop()),
		cachePing:  cachePing,
		sourcePing: sourcePing,
		logger:     zerolog.Nop(),
	}
	return newRouter(h)
}

func fixtureProvider(t *testing.T) *stubProvider {
	t.Helper()

	film := map[string]any{
		"id": "f1", "title": "Star Wars", "imdb_rating": 8.6,
		"description": "space saga",
		"director":    []string{"George Lucas"},
		"actors":      []map[string]any{{"id": "p1", "name": "Mark Hamill"}},
		"writers":     []map[string]any{{"id": "p2", "name": "George Lucas"}},
		"genre":       []map[string]any{{"id": "g1", "name": "Sci-Fi"}},
		"file_path":   "/secret/star-wars.mp4",
	}
	genre := map[string]any{"id": "g1", "name": "Sci-Fi", "description": "futures"}
	person := map[string]any{"id": "p1", "name": "Mark Hamill"}

	return &stubProvider{
		docs: map[string]map[string]json.RawMessage{
			"movies":  {"f1": mustRaw(t, film)},
			"genres":  {"g1": mustRaw(t, genre)},
			"persons": {"p1": mustRaw(t, person)},
		},
		listDocs: map[string][]json.RawMessage{
			"movies":  {mustRaw(t, film)},
			"genres":  {mustRaw(t, genre)},
			"persons": {mustRaw(t, person)},
		},
	}
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
}

func TestFilmsList(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("items = %v, want one film", items)
	}
	if items[0]["title"] != "Star Wars" || items[0]["imdb_rating"] != 8.6 {
		t.Errorf("item = %v, want Star Wars / 8.6", items[0])
	}
	// List items are the short view.
	for _, forbidden := range []string{"description", "actors", "file_path"} {
		if _, ok := items[0][forbidden]; ok {
			t.Errorf("list item leaks %q", forbidden)
		}
	}
}

func TestFilmsList_Empty(t *testing.T) {
	router := newTestRouter(t, &stubProvider{}, pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty list", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestFilmsList_InvalidPaging(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	for _, path := range []string{
		"/api/v1/films/?page[size]=0",
		"/api/v1/films/?page[size]=abc",
		"/api/v1/films/?page[number]=-1",
	} {
		rec := doGet(t, router, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestFilmDetails(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/f1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var detail map[string]any
	decodeBody(t, rec, &detail)
	if detail["title"] != "Star Wars" || detail["description"] != "space saga" {
		t.Errorf("detail = %v, want full film view", detail)
	}
	actors, _ := detail["actors"].([]any)
	if len(actors) != 1 {
		t.Errorf("actors = %v, want one entry", detail["actors"])
	}
	// Storage-only fields stay out of the API.
	if _, ok := detail["file_path"]; ok {
		t.Error("detail response leaks file_path")
	}
}

func TestFilmDetails_NotFound(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/unknown")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "film not found" {
		t.Errorf("detail = %q, want film not found", body["detail"])
	}
}

func TestFilmsSearch_MissingQuery(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/search")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without query", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "query parameter is required" {
		t.Errorf("detail = %q, want query parameter is required", body["detail"])
	}
}

func TestFilmsSearch(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/films/search?query=star")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 || items[0]["id"] != "f1" {
		t.Errorf("items = %v, want [f1]", items)
	}
}

func TestGenreRoutes(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/genres/")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 || items[0]["name"] != "Sci-Fi" {
		t.Errorf("items = %v, want [Sci-Fi]", items)
	}

	rec = doGet(t, router, "/api/v1/genres/g1")
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d, want 200", rec.Code)
	}
	var genre map[string]any
	decodeBody(t, rec, &genre)
	if genre["description"] != "futures" {
		t.Errorf("genre = %v, want description futures", genre)
	}

	if rec = doGet(t, router, "/api/v1/genres/unknown"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown genre status = %d, want 404", rec.Code)
	}
}

func TestPersonRoutes(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/api/v1/persons/p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d, want 200", rec.Code)
	}
	var person map[string]any
	decodeBody(t, rec, &person)
	if person["name"] != "Mark Hamill" {
		t.Errorf("person = %v, want Mark Hamill", person)
	}

	rec = doGet(t, router, "/api/v1/persons/search?query=mark")
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, want 200", rec.Code)
	}

	// Films the person took part in, in the film list shape.
	rec = doGet(t, router, "/api/v1/persons/p1/film")
	if rec.Code != http.StatusOK {
		t.Fatalf("person films status = %d, want 200", rec.Code)
	}
	var films []map[string]any
	decodeBody(t, rec, &films)
	if len(films) != 1 || films[0]["title"] != "Star Wars" {
		t.Errorf("person films = %v, want [Star Wars]", films)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		cachePing  Pinger
		sourcePing Pinger
		wantStatus int
		wantCache  string
	}{
		{
			name:       "all up",
			cachePing:  pingOK,
			sourcePing: pingOK,
			wantStatus: http.StatusOK,
			wantCache:  "ok",
		},
		{
			name:       "cache down degrades",
			cachePing:  pingFunc(func(ctx context.Context) error { return errors.New("refused") }),
			sourcePing: pingOK,
			wantStatus: http.StatusOK,
			wantCache:  "degraded",
		},
		{
			name:       "source down fails",
			cachePing:  pingOK,
			sourcePing: pingFunc(func(ctx context.Context) error { return errors.New("refused") }),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, fixtureProvider(t), tt.cachePing, tt.sourcePing)

			rec := doGet(t, router, "/healthz")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCache != "" {
				var body map[string]string
				decodeBody(t, rec, &body)
				if body["cache"] != tt.wantCache {
					t.Errorf("cache = %q, want %q", body["cache"], tt.wantCache)
				}
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, fixtureProvider(t), pingOK, pingOK)

	rec := doGet(t, router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics exposition missing standard collectors")
	}
}
