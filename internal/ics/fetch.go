package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	appLog "icsreport/internal/log"
)

// Source identifies a single calendar document: a local file path or an
// http(s) URL.
type Source struct {
	// ID is an internal identifier (config ID or CLI position).
	ID string
	// Location is the file path or URL.
	Location string
}

// IsURL reports whether the source is fetched over HTTP.
func (s Source) IsURL() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Redacted returns the location with any URL path and query hidden, safe
// for logging. File paths are returned unchanged.
func (s Source) Redacted() string {
	if !s.IsURL() {
		return s.Location
	}
	u, err := url.Parse(s.Location)
	if err != nil {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}

// Document is the outcome of loading a single source.
type Document struct {
	Source    Source
	Body      []byte
	FromCache bool // true if a cached body was reused (304 or network failure)
}

// cacheMeta holds HTTP conditional-request metadata for a single URL.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Loader reads calendar documents. Local files are read directly; URLs are
// fetched with retries, honoring ETag / Last-Modified against a disk cache.
type Loader struct {
	client   *retryablehttp.Client
	cacheDir string
}

// NewLoader creates a Loader caching HTTP bodies under cacheDir.
func NewLoader(cacheDir string) *Loader {
	if cacheDir == "" {
		// Caller should set this explicitly; fall back to a relative dir
		// so that development runs work without extra setup.
		cacheDir = "./var/ics-cache"
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &Loader{client: client, cacheDir: cacheDir}
}

// LoadAll loads every source in order. Failures are logged and collected;
// the returned documents cover only the sources that produced a body.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) ([]Document, []error) {
	docs := make([]Document, 0, len(sources))
	errs := make([]error, 0)

	for _, src := range sources {
		doc, err := l.Load(ctx, src)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("calendar load failed", err, "id", src.ID, "location", src.Redacted())
			continue
		}
		docs = append(docs, doc)
	}

	return docs, errs
}

// Load loads a single source.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src.Location == "" {
		return Document{}, errors.New("source location is empty")
	}
	if !src.IsURL() {
		body, err := os.ReadFile(src.Location)
		if err != nil {
			return Document{}, err
		}
		return Document{Source: src, Body: body}, nil
	}
	return l.fetch(ctx, src)
}

// fetch retrieves a URL source, reusing the cached body on 304 responses
// and falling back to it on network failure.
func (l *Loader) fetch(ctx context.Context, src Source) (Document, error) {
	cachePath := l.cachePathForURL(src.Location)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return Document{}, err
	}

	meta, _ := loadCacheMeta(cachePath)
	cachedBody, _ := os.ReadFile(filepath.Join(cachePath, "body.ics"))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return Document{}, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("ics fetch start", "id", src.ID, "location", src.Redacted())

	resp, err := l.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("ics fetch network error, using cached body", err, "id", src.ID, "location", src.Redacted())
			return Document{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return Document{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return Document{}, readErr
		}

		newMeta := cacheMeta{
			URL:          src.Location,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := saveCache(cachePath, newMeta, body); err != nil {
			appLog.Error("ics cache save failed", err, "id", src.ID, "location", src.Redacted())
		}

		appLog.Info("ics fetch success", "id", src.ID, "location", src.Redacted(), "status", resp.StatusCode)
		return Document{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return Document{}, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Info("ics fetch not modified; using cache", "id", src.ID, "location", src.Redacted())
		return Document{Source: src, Body: cachedBody, FromCache: true}, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("ics fetch non-OK, using cached body", errors.New(resp.Status), "id", src.ID, "location", src.Redacted(), "status", resp.StatusCode)
			return Document{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return Document{}, errors.New(resp.Status)
	}
}

func (l *Loader) cachePathForURL(u string) string {
	sum := sha256.Sum256([]byte(u))
	// First 16 hex chars are plenty for a per-URL directory name.
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadCacheMeta(cachePath string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func saveCache(cachePath string, meta cacheMeta, body []byte) error {
	// Write the body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.ics"), body, 0o600); err != nil {
		return err
	}

	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}
