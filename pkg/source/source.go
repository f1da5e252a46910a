package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/trombinoscope/pkg/cache"
	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	tio "github.com/matzehuels/trombinoscope/pkg/io"
	"github.com/matzehuels/trombinoscope/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize bounds remote documents; photos may be inlined as data URLs.
	maxBodySize = 32 << 20
)

// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
// non-2xx responses).
var ErrNetwork = errors.New("network error")

// Client fetches employee lists.
type Client struct {
	http  *http.Client
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration

	// retry runs fn with backoff; swapped out in tests.
	retry func(ctx context.Context, fn func() error) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache keeps fetched bodies in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) { cl.cache, cl.ttl = c, ttl }
}

// WithKeyer overrides the cache keyer.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// NewClient creates a Client. Without [WithCache] nothing is cached.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache.NewNullCache(),
		keyer: cache.NewDefaultKeyer(),
		retry: cache.RetryWithBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads location with a default Client.
func Load(ctx context.Context, location string) ([]directory.Employee, error) {
	return NewClient().Load(ctx, location)
}

// Loader adapts location to a [directory.Loader] for seeding.
func (c *Client) Loader(location string) directory.Loader {
	return func(ctx context.Context) ([]directory.Employee, error) {
		return c.Load(ctx, location)
	}
}

// Load reads the employee list at location.
func (c *Client) Load(ctx context.Context, location string) ([]directory.Employee, error) {
	location = strings.TrimSpace(location)
	if !IsRemote(location) {
		if err := terrors.ValidatePath(location); err != nil {
			return nil, err
		}
		return tio.ImportFile(location)
	}

	body, format, err := c.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	list, err := tio.DecodeEmployees(body, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return list, nil
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// cachedBody is the cache envelope of a fetched document.
type cachedBody struct {
	format string
	data   []byte
}

func (b cachedBody) encode() []byte { return append([]byte(b.format+"\n"), b.data...) }

func decodeCachedBody(raw []byte) (cachedBody, bool) {
	format, data, ok := strings.Cut(string(raw), "\n")
	if !ok {
		return cachedBody{}, false
	}
	return cachedBody{format: format, data: []byte(data)}, true
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	key := c.keyer.SourceKey(rawURL)
	if raw, ok, _ := c.cache.Get(ctx, key); ok {
		if b, ok := decodeCachedBody(raw); ok {
			observability.Cache().OnCacheHit(ctx, "source")
			return b.data, b.format, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "source")

	var body cachedBody
	err := c.retry(ctx, func() error {
		data, format, err := c.get(ctx, rawURL)
		if err != nil {
			return err
		}
		body = cachedBody{format: format, data: data}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if c.ttl > 0 {
		raw := body.encode()
		if err := c.cache.Set(ctx, key, raw, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "source", len(raw))
		}
	}
	return body.data, body.format, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid source URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid source URL")
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, "", cache.Retryable(terrors.Wrap(terrors.ErrCodeNetwork, fmt.Errorf("%w: %v", ErrNetwork, err), "fetch %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", cache.Retryable(terrors.Wrap(terrors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	return data, formatOf(u.Path, resp.Header.Get("Content-Type")), nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return terrors.New(terrors.ErrCodeNotFound, "%s: not found", rawURL)
	case code >= 500:
		return cache.Retryable(terrors.Wrap(terrors.ErrCodeNetwork, fmt.Errorf("%w: status %d", ErrNetwork, code), "fetch %s", rawURL))
	default:
		return terrors.Wrap(terrors.ErrCodeNetwork, fmt.Errorf("%w: status %d", ErrNetwork, code), "fetch %s", rawURL)
	}
}

func formatOf(urlPath, contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return tio.FormatYAML
	}
	return tio.FormatFromPath(path.Base(urlPath))
}
