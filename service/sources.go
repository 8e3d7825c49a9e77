package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"film-map-cli/data"
	"film-map-cli/logging"
	"film-map-cli/model"
	"film-map-cli/store"
)

// BuiltinSource names the dataset compiled into the binary.
const BuiltinSource = "builtin"

// Source fetches the raw film records.
type Source interface {
	Fetch(ctx context.Context) ([]model.Film, error)
}

// FileSource reads the dataset from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) String() string {
	return s.Path
}

func (s FileSource) Fetch(ctx context.Context) ([]model.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFilms(f)
}

// EmbeddedSource serves the default dataset shipped with the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) String() string {
	return BuiltinSource
}

func (EmbeddedSource) Fetch(ctx context.Context) ([]model.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeFilms(bytes.NewReader(data.Films))
}

// CachedSource serves a fresh on-disk copy of Inner's dataset when one
// exists, and otherwise fetches from Inner and stores the result. A failed
// fetch fails even when a stale copy is on disk.
type CachedSource struct {
	Inner Source
	Key   string
	TTL   time.Duration
}

func (s CachedSource) String() string {
	return s.Key
}

func (s CachedSource) Fetch(ctx context.Context) ([]model.Film, error) {
	if s.Inner == nil {
		return nil, errors.New("cached source has no upstream")
	}
	if s.TTL > 0 {
		films, fresh, err := store.LoadFilmCache(s.Key, s.TTL)
		if err != nil {
			logging.Error(fmt.Errorf("read film cache: %w", err))
		}
		if err == nil && fresh && len(films) > 0 {
			logging.Trace("source.cache_hit", map[string]interface{}{"source": s.Key, "films": len(films)})
			return films, nil
		}
	}

	films, err := s.Inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.TTL > 0 {
		if err := store.SaveFilmCache(s.Key, films); err != nil {
			logging.Error(fmt.Errorf("write film cache: %w", err))
		}
	}
	return films, nil
}

// OpenSource resolves a source setting: "builtin" (or empty), an http(s) URL,
// or a path to a JSON file. Remote datasets are cached for ttl when ttl > 0.
func OpenSource(spec string, httpClient *http.Client, ttl time.Duration) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == BuiltinSource {
		return EmbeddedSource{}, nil
	}
	if isURL(spec) {
		u, err := url.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid source url: %w", err)
		}
		switch u.Scheme {
		case "http", "https":
		default:
			return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("source url %q has no host", spec)
		}
		client := NewClient(httpClient, spec)
		if ttl <= 0 {
			return client, nil
		}
		return CachedSource{Inner: client, Key: spec, TTL: ttl}, nil
	}
	path, err := filepath.Abs(spec)
	if err != nil {
		return nil, err
	}
	return FileSource{Path: path}, nil
}

func isURL(value string) bool {
	i := strings.Index(value, "://")
	return i > 0 && !strings.ContainsAny(value[:i], `/\.`)
}
