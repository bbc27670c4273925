// Package geocode resolves coordinates to human-readable place names via a
// Nominatim-compatible reverse-geocoding API. It is a best-effort decoration
// of search results: callers treat a failed lookup as "no place name".
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	APIURL    string
	UserAgent string
}

type cachedPlace struct {
	name   string
	expiry time.Time
}

type Client struct {
	client *http.Client
	config Config

	cacheMu   sync.RWMutex
	cacheData map[string]cachedPlace
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Transport: &headerTransport{
				UserAgent: cfg.UserAgent,
				Base:      http.DefaultTransport,
			},
			Timeout: 10 * time.Second,
		},
		config:    cfg,
		cacheData: make(map[string]cachedPlace),
	}
}

// headerTransport sets the headers Nominatim-style services require on
// every request.
type headerTransport struct {
	UserAgent string
	Base      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// ReversePlace returns the display name for a coordinate. Results are cached
// by coordinate rounded to ~10 m, since nearby searches repeat the same
// points constantly.
func (c *Client) ReversePlace(ctx context.Context, lat, lon float64) (string, error) {
	cacheKey := fmt.Sprintf("%.4f:%.4f", lat, lon)

	c.cacheMu.RLock()
	cached, ok := c.cacheData[cacheKey]
	if ok && time.Now().Before(cached.expiry) {
		c.cacheMu.RUnlock()
		return cached.name, nil
	}
	c.cacheMu.RUnlock()

	name, err := c.fetchPlace(ctx, lat, lon)
	if err != nil {
		return "", err
	}

	c.cacheMu.Lock()
	c.cacheData[cacheKey] = cachedPlace{
		name:   name,
		expiry: time.Now().Add(time.Hour),
	}
	c.cacheMu.Unlock()

	return name, nil
}

// Places resolves display names for a batch of coordinates, a few lookups
// at a time. A failed lookup yields an empty string for that slot; the
// caller's response simply omits the place name.
func (c *Client) Places(ctx context.Context, coords [][2]float64) []string {
	names := make([]string, len(coords))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, coord := range coords {
		i, coord := i, coord
		g.Go(func() error {
			name, err := c.ReversePlace(ctx, coord[0], coord[1])
			if err != nil {
				return nil
			}
			names[i] = name
			return nil
		})
	}
	_ = g.Wait()

	return names
}

func (c *Client) fetchPlace(ctx context.Context, lat, lon float64) (string, error) {
	url := fmt.Sprintf("%s/reverse", c.config.APIURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Add("lat", fmt.Sprintf("%f", lat))
	q.Add("lon", fmt.Sprintf("%f", lon))
	q.Add("format", "jsonv2")
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch place: %w", err)
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return "", &apiErr
		}
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var place RawPlace
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return "", err
	}

	return place.DisplayName, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
