package statuswatch

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const defaultProviderTimeout = 15 * time.Second

// Provider identifies one statuspage.io/incident.io-compatible status API
// to watch.
//
// Provider is immutable after creation via [NewProvider]. The base URL is
// the API root; the pollers append /incidents.json and /components.json
// to it. Providers are configured using the functional options pattern
// with [ProviderOption] functions such as [WithHeaders] and [WithTimeout].
type Provider struct {
	name    string
	baseURL string
	headers map[string]string
	timeout time.Duration
}

// Name returns the provider's display name. The name identifies the
// provider in emitted events and logs.
func (p Provider) Name() string {
	return p.name
}

// BaseURL returns the provider's API base URL, without a trailing slash.
func (p Provider) BaseURL() string {
	return p.baseURL
}

// Headers returns a copy of the custom HTTP headers sent with every poll
// request to this provider. Returns nil if none are set.
func (p Provider) Headers() map[string]string {
	return copyMap(p.headers)
}

// Timeout returns the per-request timeout for this provider.
// Defaults to 15 seconds if not explicitly set via [WithTimeout].
func (p Provider) Timeout() time.Duration {
	return p.timeout
}

// NewProvider creates a [Provider] with the given name, base URL, and
// options.
//
// The name is a human-readable identifier used in events and logs. The
// base URL must be a valid http:// or https:// URL pointing at the API
// root (for statuspage.io pages this is typically ".../api/v2"); any
// trailing slash is stripped.
//
// Example:
//
//	p, err := statuswatch.NewProvider("OpenAI API", "https://status.openai.com/api/v2",
//	    statuswatch.WithTimeout(10 * time.Second),
//	)
func NewProvider(name, baseURL string, opts ...ProviderOption) (Provider, error) {
	if name == "" {
		return Provider{}, errors.New("provider name cannot be empty")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return Provider{}, errors.New("invalid base URL: " + err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Provider{}, errors.New("base URL must use http:// or https://")
	}

	cfg := &providerConfig{
		headers: make(map[string]string),
		timeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Provider{}, err
		}
	}

	return Provider{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: cfg.headers,
		timeout: cfg.timeout,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
