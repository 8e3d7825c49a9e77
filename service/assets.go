package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResolveAsset turns an image reference from the dataset into an absolute
// URL or file path. Relative references are resolved against the source
// they came from.
func ResolveAsset(ref string, source string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if isURL(ref) {
		return ref
	}
	source = strings.TrimSpace(source)
	if isURL(source) {
		base, err := url.Parse(source)
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	if filepath.IsAbs(ref) || source == "" || source == BuiltinSource {
		return ref
	}
	return filepath.Join(filepath.Dir(source), ref)
}

// ProbeAsset checks that an image reference resolves. URLs are checked with
// a HEAD request, local paths with stat.
func ProbeAsset(ctx context.Context, httpClient *http.Client, ref string, source string) error {
	target := ResolveAsset(ref, source)
	if target == "" {
		return errors.New("asset reference is empty")
	}
	if !isURL(target) {
		info, err := os.Stat(target)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("asset %s is a directory", target)
		}
		return nil
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 6 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("create asset request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asset request failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
	_ = res.Body.Close()
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: res.StatusCode, Status: res.Status, Endpoint: target}
	}
	return nil
}
