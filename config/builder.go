package config

import (
	"sort"

	"github.com/statuswatch/statuswatch"
)

// BuildProviders converts parsed configuration into SDK Provider values.
func BuildProviders(cfg *Config) ([]statuswatch.Provider, error) {
	providers := make([]statuswatch.Provider, 0, len(cfg.Providers))

	for _, pc := range cfg.Providers {
		var opts []statuswatch.ProviderOption

		if len(pc.Headers) > 0 {
			opts = append(opts, statuswatch.WithHeaders(mapToKeyValuePairs(pc.Headers)...))
		}
		if pc.Timeout != 0 {
			opts = append(opts, statuswatch.WithTimeout(pc.Timeout.Duration()))
		}

		p, err := statuswatch.NewProvider(pc.Name, pc.URL, opts...)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
