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

	"film-map-cli/model"
)

const defaultUserAgent = "film-map-cli/1.0 (+https://github.com/film-map-cli)"

// Client fetches the film dataset over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

// APIError is returned when the data endpoint responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "film data api error"
	}
	if e.Body == "" {
		return fmt.Sprintf("film data api error: %s", e.Status)
	}
	return fmt.Sprintf("film data api error: %s: %s", e.Status, e.Body)
}

// NewClient creates a client for endpoint. If httpClient is nil, a default client is used.
// The dataset is requested once; failed requests are not retried.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimSpace(endpoint),
		userAgent:  defaultUserAgent,
	}
}

func (c *Client) String() string {
	return c.endpoint
}

// Fetch downloads and decodes the film records.
func (c *Client) Fetch(ctx context.Context) ([]model.Film, error) {
	if c.endpoint == "" {
		return nil, errors.New("film data endpoint is required")
	}
	var films []model.Film
	if err := c.getJSON(ctx, c.endpoint, &films); err != nil {
		return nil, err
	}
	return films, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       compactErrorSnippet(string(snippet)),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response from %s: empty body", endpoint)
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// compactErrorSnippet flattens an error body to one short line and drops HTML pages.
func compactErrorSnippet(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > errorSnippetN {
		text = text[:errorSnippetN]
	}
	return text
}

// decodeFilms parses a JSON array of film records.
func decodeFilms(r io.Reader) ([]model.Film, error) {
	var films []model.Film
	if err := json.NewDecoder(r).Decode(&films); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode films: empty input")
		}
		return nil, fmt.Errorf("decode films: %w", err)
	}
	return films, nil
}
