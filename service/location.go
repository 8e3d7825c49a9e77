package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"film-map-cli/logging"
	"film-map-cli/model"
)

const (
	ipLocationEndpoint = "https://ipapi.co/json/"
	ipWhoIsEndpoint    = "https://ipwho.is/"
	ipInfoEndpoint     = "https://ipinfo.io/json"
	errorSnippetN      = 120
)

// UserLocation is the location guessed from the caller's IP address.
// Only the administrative region matters to the map.
type UserLocation struct {
	City        string
	Region      string
	RegionCode  string
	Country     string
	CountryCode string
	Source      string
}

type locationProvider struct {
	name     string
	endpoint string
	parse    func([]byte) (UserLocation, error)
}

var defaultLocationProviders = []locationProvider{
	{name: "ipapi", endpoint: ipLocationEndpoint, parse: parseIPAPI},
	{name: "ipwhois", endpoint: ipWhoIsEndpoint, parse: parseIPWhoIs},
	{name: "ipinfo", endpoint: ipInfoEndpoint, parse: parseIPInfo},
}

// DetectRegion resolves the caller's region through IP geolocation,
// trying each provider in turn until one answers.
func DetectRegion(ctx context.Context, httpClient *http.Client) (UserLocation, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	location, err := detectLocationWithProviders(ctx, httpClient, defaultLocationProviders)
	if err != nil {
		return UserLocation{}, err
	}
	logging.Trace("location.detected", map[string]interface{}{
		"source":  location.Source,
		"region":  location.Region,
		"country": location.CountryCode,
	})
	return location, nil
}

func detectLocationWithProviders(ctx context.Context, httpClient *http.Client, providers []locationProvider) (UserLocation, error) {
	if len(providers) == 0 {
		return UserLocation{}, errors.New("no location providers configured")
	}

	var providerErrors []string
	for _, provider := range providers {
		location, err := detectLocationFromProvider(ctx, httpClient, provider)
		if err == nil {
			return location, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return UserLocation{}, err
		}
		providerErrors = append(providerErrors, fmt.Sprintf("%s: %s", provider.name, err.Error()))
	}
	return UserLocation{}, fmt.Errorf("all location providers failed (%s)", strings.Join(providerErrors, " | "))
}

func detectLocationFromProvider(ctx context.Context, httpClient *http.Client, provider locationProvider) (UserLocation, error) {
	body, err := fetchLocationBody(ctx, httpClient, provider.endpoint)
	if err != nil {
		return UserLocation{}, err
	}
	location, err := provider.parse(body)
	if err != nil {
		return UserLocation{}, err
	}
	if !model.Has(location.Region) && !model.Has(location.RegionCode) {
		return UserLocation{}, errors.New("provider returned no region")
	}
	location.Source = provider.name
	return location, nil
}

func fetchLocationBody(ctx context.Context, httpClient *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create location request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		if msg := compactErrorSnippet(string(snippet)); msg != "" {
			return nil, fmt.Errorf("%s: %s", res.Status, msg)
		}
		return nil, errors.New(res.Status)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("read location response: %w", err)
	}
	return body, nil
}

// regionPayload covers ipapi.co and ipwho.is, which share field names
// for the fields used here.
type regionPayload struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	RegionCode  string `json:"region_code"`
	CountryCode string `json:"country_code"`
}

func (p regionPayload) location(country string) UserLocation {
	return UserLocation{
		City:        p.City,
		Region:      p.Region,
		RegionCode:  p.RegionCode,
		Country:     country,
		CountryCode: p.CountryCode,
	}
}

func parseIPAPI(body []byte) (UserLocation, error) {
	var payload struct {
		regionPayload
		Country string `json:"country_name"`
		Error   bool   `json:"error"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UserLocation{}, fmt.Errorf("decode location response: %w", err)
	}
	if payload.Error {
		return UserLocation{}, errors.New(nonEmptyOr(payload.Reason, "unknown error"))
	}
	return payload.location(payload.Country), nil
}

func parseIPWhoIs(body []byte) (UserLocation, error) {
	var payload struct {
		regionPayload
		Country string `json:"country"`
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UserLocation{}, fmt.Errorf("decode location response: %w", err)
	}
	if !payload.Success {
		return UserLocation{}, errors.New(nonEmptyOr(payload.Message, "provider returned unsuccessful response"))
	}
	return payload.location(payload.Country), nil
}

// parseIPInfo reads ipinfo.io, which reports the province by name only
// and the country as a two-letter code.
func parseIPInfo(body []byte) (UserLocation, error) {
	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Bogon   bool   `json:"bogon"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UserLocation{}, fmt.Errorf("decode location response: %w", err)
	}
	switch {
	case payload.Bogon:
		return UserLocation{}, errors.New("bogon IP")
	case payload.Error.Message != "":
		return UserLocation{}, errors.New(payload.Error.Message)
	}
	return UserLocation{
		City:        payload.City,
		Region:      payload.Region,
		Country:     payload.Country,
		CountryCode: payload.Country,
	}, nil
}

func nonEmptyOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
