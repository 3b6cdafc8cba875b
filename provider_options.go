package statuswatch

import (
	"errors"
	"time"
)

// providerConfig holds mutable state during provider construction.
type providerConfig struct {
	headers map[string]string
	timeout time.Duration
}

// ProviderOption is a function that configures a [Provider] during
// construction.
//
// ProviderOption implements the functional options pattern, allowing
// optional configuration to be passed to [NewProvider] in a type-safe,
// extensible way. Options return an error if validation fails.
type ProviderOption func(*providerConfig) error

// WithHeaders adds custom HTTP headers to every poll request for this
// provider. Use this for status APIs behind authentication.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	p, err := statuswatch.NewProvider("Internal", url,
//	    statuswatch.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) ProviderOption {
	return func(cfg *providerConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout sets the HTTP request timeout for this provider's feeds.
//
// A poll that does not complete within this duration counts as a failure
// and triggers the backoff policy. Defaults to 15 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) ProviderOption {
	return func(cfg *providerConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}
