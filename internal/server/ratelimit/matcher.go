package ratelimit

import "strings"

// MatchEndpoint returns the config for path and method, preferring an exact path
// over a prefix match. It returns nil when neither matches.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
