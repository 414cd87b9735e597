package config

// SiteConfig holds per-host request overrides.
// This lets a crawl present credentials or custom headers to specific
// hosts without affecting requests elsewhere.
//
// Design decision: The fields enumerate exactly what can be overridden
// (cookie, headers, depth). Unrecognized YAML keys are rejected by the
// loader rather than silently forwarded into requests.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with requests to this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers included in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global max depth for crawls seeded at this host.
	// If zero, the global MaxDepth is used.
	Depth int `yaml:"depth,omitempty"`
}

// File represents the structure of the .ajaxspider configuration file.
type File struct {
	// Sites maps hostnames to their overrides. Keys are bare hosts
	// (e.g., "example.com"), without scheme or path.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to all hosts unless a
	// site-specific entry replaces them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.Depth != 0 {
			result.Depth = siteConfig.Depth
		}
		if len(siteConfig.Headers) > 0 {
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
	}

	return result
}
