package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectLocationFromProvider_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude":45.42,"longitude":-75.69,"city":"Ottawa","region":"Ontario","region_code":"ON","country_name":"Canada","country_code":"CA"}`))
	}))
	defer server.Close()

	loc, err := detectLocationFromProvider(context.Background(), server.Client(), locationProvider{
		name:     "custom",
		endpoint: server.URL,
		parse:    parseIPAPI,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if loc.Region != "Ontario" || loc.RegionCode != "ON" {
		t.Fatalf("unexpected region: %+v", loc)
	}
	if loc.CountryCode != "CA" {
		t.Fatalf("unexpected country code: %s", loc.CountryCode)
	}
	if loc.Source != "custom" {
		t.Fatalf("expected source custom, got %q", loc.Source)
	}
}

func TestDetectLocationFromProvider_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	_, err := detectLocationFromProvider(context.Background(), server.Client(), locationProvider{
		name:     "custom",
		endpoint: server.URL,
		parse:    parseIPAPI,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected body in error, got %q", err.Error())
	}
}

func TestDetectLocationFromProvider_NoRegion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latitude":45.42,"longitude":-75.69,"city":"Ottawa"}`))
	}))
	defer server.Close()

	_, err := detectLocationFromProvider(context.Background(), server.Client(), locationProvider{
		name:     "custom",
		endpoint: server.URL,
		parse:    parseIPAPI,
	})
	if err == nil {
		t.Fatal("expected error for response without region")
	}
}

func TestDetectLocationWithProviders_Fallback(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>blocked</body></html>`))
	}))
	defer blocked.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"latitude":46.81,"longitude":-71.21,"city":"Québec","region":"Quebec","region_code":"QC","country":"Canada","country_code":"CA"}`))
	}))
	defer fallback.Close()

	loc, err := detectLocationWithProviders(context.Background(), blocked.Client(), []locationProvider{
		{name: "blocked", endpoint: blocked.URL, parse: parseIPAPI},
		{name: "fallback", endpoint: fallback.URL, parse: parseIPWhoIs},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if loc.Region != "Quebec" {
		t.Fatalf("unexpected region: %s", loc.Region)
	}
	if loc.Source != "fallback" {
		t.Fatalf("expected source fallback, got %q", loc.Source)
	}
}

func TestDetectLocationWithProviders_AllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>blocked</body></html>`))
	}))
	defer server.Close()

	_, err := detectLocationWithProviders(context.Background(), server.Client(), []locationProvider{
		{name: "first", endpoint: server.URL, parse: parseIPAPI},
		{name: "second", endpoint: server.URL, parse: parseIPInfo},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(strings.ToLower(err.Error()), "<html") {
		t.Fatalf("expected compact error without html, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Fatalf("expected every provider named, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status code in error, got %q", err.Error())
	}
}

func TestDetectLocationWithProviders_NoProviders(t *testing.T) {
	if _, err := detectLocationWithProviders(context.Background(), http.DefaultClient, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestDetectRegion_CanceledContextStopsEarly(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"region":"Ontario"}`))
	}))
	defer server.Close()

	previous := defaultLocationProviders
	defaultLocationProviders = []locationProvider{
		{name: "one", endpoint: server.URL, parse: parseIPAPI},
		{name: "two", endpoint: server.URL, parse: parseIPAPI},
	}
	defer func() {
		defaultLocationProviders = previous
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DetectRegion(ctx, server.Client())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider calls, got %d", calls)
	}
}

func TestParseIPInfo(t *testing.T) {
	loc, err := parseIPInfo([]byte(`{"loc":"49.89,-97.13","city":"Winnipeg","region":"Manitoba","country":"CA"}`))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if loc.Region != "Manitoba" || loc.CountryCode != "CA" {
		t.Fatalf("unexpected location: %+v", loc)
	}
	if loc.City != "Winnipeg" || loc.Country != "CA" {
		t.Fatalf("unexpected city or country: %+v", loc)
	}

	if _, err := parseIPInfo([]byte(`{"bogon":true}`)); err == nil {
		t.Fatal("expected bogon error")
	}
	if _, err := parseIPInfo([]byte(`{"error":{"title":"Wrong ip","message":"Please provide a valid IP address"}}`)); err == nil {
		t.Fatal("expected provider error")
	}
}
