package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"film-map-cli/model"
	"film-map-cli/store"
)

func isolateDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
}

func TestEmbeddedSource_Fetch(t *testing.T) {
	films, err := EmbeddedSource{}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(films) == 0 {
		t.Fatal("expected builtin films")
	}
	seen := map[string]bool{}
	for _, f := range films {
		if f.RegionCode == "" || f.Title == "" || f.Year == 0 {
			t.Fatalf("incomplete builtin record: %+v", f)
		}
		if seen[f.RegionCode] {
			t.Fatalf("duplicate builtin region %s", f.RegionCode)
		}
		seen[f.RegionCode] = true
	}
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.json")
	if err := os.WriteFile(path, []byte(`[{"stateCode":"CA-MB","state":"Manitoba","title":"My Winnipeg","year":2007}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	films, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(films) != 1 || films[0].Title != "My Winnipeg" {
		t.Fatalf("unexpected films: %+v", films)
	}
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (FileSource{Path: filepath.Join(dir, "missing.json")}).Fetch(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"stateCode":"CA-MB"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileSource{Path: bad}).Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error for non-array document")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileSource{Path: empty}).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for empty file")
	}
}

type countingSource struct {
	calls int
	films []model.Film
	err   error
}

func (s *countingSource) Fetch(context.Context) ([]model.Film, error) {
	s.calls++
	return s.films, s.err
}

func TestCachedSource_ServesFreshCache(t *testing.T) {
	isolateDirs(t)
	inner := &countingSource{films: []model.Film{{RegionCode: "CA-ON", RegionName: "Ontario", Title: "Videodrome", Year: 1983}}}
	src := CachedSource{Inner: inner, Key: "https://films.example/films.json", TTL: time.Hour}

	for i := 0; i < 2; i++ {
		films, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if len(films) != 1 || films[0].Title != "Videodrome" {
			t.Fatalf("unexpected films: %+v", films)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedSource_StaleCacheDoesNotMaskFailure(t *testing.T) {
	isolateDirs(t)
	key := "https://films.example/films.json"
	if err := store.SaveFilmCache(key, []model.Film{{RegionCode: "CA-ON", Title: "Videodrome", Year: 1983}}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	inner := &countingSource{err: errors.New("offline")}
	src := CachedSource{Inner: inner, Key: key, TTL: time.Nanosecond}
	time.Sleep(2 * time.Millisecond)

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected upstream error")
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedSource_ZeroTTLBypassesCache(t *testing.T) {
	isolateDirs(t)
	inner := &countingSource{films: []model.Film{{RegionCode: "CA-QC", Title: "Incendies", Year: 2010}}}
	src := CachedSource{Inner: inner, Key: "k"}
	for i := 0; i < 2; i++ {
		if _, err := src.Fetch(context.Background()); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", inner.calls)
	}
	if _, _, err := store.LoadFilmCache("k", time.Hour); err != nil {
		t.Fatalf("expected readable cache state, got %v", err)
	}
}

func TestOpenSource(t *testing.T) {
	src, err := OpenSource("", nil, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := src.(EmbeddedSource); !ok {
		t.Fatalf("expected embedded source, got %T", src)
	}

	src, err = OpenSource("https://films.example/films.json", nil, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := src.(*Client); !ok {
		t.Fatalf("expected http client, got %T", src)
	}

	src, err = OpenSource("https://films.example/films.json", nil, time.Hour)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cached, ok := src.(CachedSource); !ok || cached.TTL != time.Hour {
		t.Fatalf("expected cached source, got %#v", src)
	}

	src, err = OpenSource("testdata/films.json", nil, time.Hour)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	fs, ok := src.(FileSource)
	if !ok || !filepath.IsAbs(fs.Path) {
		t.Fatalf("expected absolute file source, got %#v", src)
	}

	if _, err := OpenSource("ftp://films.example/films.json", nil, 0); err == nil {
		t.Fatal("expected unsupported scheme error")
	}
	if _, err := OpenSource("https:///films.json", nil, 0); err == nil {
		t.Fatal("expected missing host error")
	}
}

func TestProbeAsset_HTTP(t *testing.T) {
	var methods int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			atomic.AddInt32(&methods, 1)
		}
		if r.URL.Path == "/flags/on.svg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := ProbeAsset(context.Background(), server.Client(), server.URL+"/flags/on.svg", BuiltinSource); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := ProbeAsset(context.Background(), server.Client(), "flags/on.svg", server.URL+"/data/films.json"); err == nil {
		t.Fatal("expected relative reference to resolve under /data and fail")
	}
	if err := ProbeAsset(context.Background(), server.Client(), "../flags/on.svg", server.URL+"/data/films.json"); err != nil {
		t.Fatalf("expected relative reference to resolve, got %v", err)
	}
	var apiErr *APIError
	if err := ProbeAsset(context.Background(), server.Client(), server.URL+"/flags/xx.svg", ""); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatal("expected not found for missing flag")
	}
	if methods != 4 {
		t.Fatalf("expected 4 HEAD requests, got %d", methods)
	}
}

func TestProbeAsset_LocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "flags"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flags", "qc.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	source := filepath.Join(dir, "films.json")

	if err := ProbeAsset(context.Background(), nil, "flags/qc.svg", source); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := ProbeAsset(context.Background(), nil, "flags/on.svg", source); err == nil {
		t.Fatal("expected error for missing file")
	}
	if err := ProbeAsset(context.Background(), nil, "flags", source); err == nil {
		t.Fatal("expected error for directory")
	}
	if err := ProbeAsset(context.Background(), nil, "  ", source); err == nil {
		t.Fatal("expected error for empty reference")
	}
}

func TestResolveAsset(t *testing.T) {
	cases := []struct {
		ref, source, want string
	}{
		{"https://img.example/a.png", "/data/films.json", "https://img.example/a.png"},
		{"img/a.png", "https://films.example/data/films.json", "https://films.example/data/img/a.png"},
		{"img/a.png", "/data/films.json", filepath.Join("/data", "img/a.png")},
		{"img/a.png", BuiltinSource, "img/a.png"},
		{"", "/data/films.json", ""},
	}
	for _, tc := range cases {
		if got := ResolveAsset(tc.ref, tc.source); got != tc.want {
			t.Fatalf("ResolveAsset(%q, %q): expected %q, got %q", tc.ref, tc.source, tc.want, got)
		}
	}
}
