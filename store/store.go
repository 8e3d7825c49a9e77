package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"film-map-cli/model"
)

const appDir = "film-map-cli"

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source,omitempty"`
	Data      T         `json:"data"`
}

// LoadFilmCache returns the cached dataset for source and whether it is
// younger than ttl. A missing cache is not an error.
func LoadFilmCache(source string, ttl time.Duration) ([]model.Film, bool, error) {
	path, err := filmCachePath(source)
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Film](path)
	if err != nil {
		return nil, false, err
	}
	if cache.UpdatedAt.IsZero() {
		return nil, false, nil
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= ttl, nil
}

// SaveFilmCache stores the dataset fetched from source.
func SaveFilmCache(source string, films []model.Film) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("cache source is required")
	}
	path, err := filmCachePath(source)
	if err != nil {
		return err
	}
	return saveCache(path, source, films)
}

// ClearFilmCache removes the cached dataset for source, if any.
func ClearFilmCache(source string) error {
	path, err := filmCachePath(source)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ConfigPath resolves name inside the application's config directory.
func ConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

// CachePath resolves name inside the application's cache directory.
func CachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func filmCachePath(source string) (string, error) {
	sum := sha256.Sum256([]byte(source))
	return CachePath(fmt.Sprintf("films_%s.json", hex.EncodeToString(sum[:8])))
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, fmt.Errorf("invalid cache file %s: %w", filepath.Base(path), err)
	}
	return cache, nil
}

func saveCache[T any](path string, source string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Source:    source,
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
