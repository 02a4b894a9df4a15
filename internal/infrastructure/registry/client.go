// Package registry queries the npm registry for published package versions.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// defaultTimeout bounds a single metadata request.
const defaultTimeout = 10 * time.Second

// Ensure Client implements the planning port.
var _ planning.Registry = (*Client)(nil)

// Client resolves the latest published version of packages over the npm
// registry HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *Cache
	retrier retry.Retry[answer]
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different registry.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCache memoizes answers in the given per-run cache.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithRetry retries transient lookup failures with exponential backoff.
func WithRetry(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		c.retrier = newRetrier(cfg)
	}
}

// NewClient creates a registry client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default().With("component", "npm_registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// packument is the subset of the registry metadata document the client
// reads. The abbreviated media type keeps responses small.
type packument struct {
	DistTags map[string]string `json:"dist-tags"`
}

// LatestVersion returns the version published under the latest dist-tag.
// ok is false when the package was never published.
func (c *Client) LatestVersion(ctx context.Context, name string) (version.Version, bool, error) {
	if c.cache != nil {
		if v, found, ok := c.cache.get(name); ok {
			return v, found, nil
		}
	}

	res, err := c.lookup(ctx, name)
	if err != nil {
		return version.Zero, false, err
	}

	c.store(name, res.version, res.found)
	return res.version, res.found, nil
}

// lookup runs one fetch, retried when transient failures allow it.
func (c *Client) lookup(ctx context.Context, name string) (answer, error) {
	if c.retrier == nil {
		return c.fetch(ctx, name)
	}
	return c.retrier.Do(ctx, func(ctx context.Context) (answer, error) {
		return c.fetch(ctx, name)
	})
}

func (c *Client) fetch(ctx context.Context, name string) (answer, error) {
	const op = "registry.LatestVersion"

	endpoint := c.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return answer{}, rerrors.RegistryWrap(err, op, "failed to build request")
	}
	req.Header.Set("Accept", "application/vnd.npm.install-v1+json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error echoes the request URL, which carries userinfo on
		// credentialed private registries.
		return answer{}, rerrors.WrapSafe(err, rerrors.KindNetwork, op, fmt.Sprintf("request for %s failed", name))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return answer{version: version.Zero, found: false}, nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return answer{}, rerrors.Registry(op,
			fmt.Sprintf("registry returned %d for %s: %s", resp.StatusCode, name, strings.TrimSpace(string(body))))
	}

	var doc packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return answer{}, rerrors.RegistryWrap(err, op, fmt.Sprintf("failed to decode response for %s", name))
	}

	latest := doc.DistTags["latest"]
	if latest == "" {
		c.logger.Debug("package has no latest dist-tag", "package", name)
		return answer{version: version.Zero, found: false}, nil
	}

	v, err := version.Parse(latest)
	if err != nil {
		return answer{}, rerrors.RegistryWrap(err, op,
			fmt.Sprintf("unparsable published version %q for %s", latest, name))
	}

	return answer{version: v, found: true}, nil
}

func (c *Client) store(name string, v version.Version, found bool) {
	if c.cache != nil {
		c.cache.put(name, v, found)
	}
}
