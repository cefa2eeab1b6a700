// Package config loads gateway configuration from an optional YAML file and
// the environment, and derives the immutable Settings the server runs with.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "https://api.taskboard.app/v1"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPort           = 8080
	DefaultRateLimit      = 100.0
)

// Config is the raw, mutable configuration as read from its sources.
type Config struct {
	APIToken         string        `yaml:"api_token" env:"TASKBOARD_API_TOKEN"`
	BaseURL          string        `yaml:"base_url" env:"TASKBOARD_API_URL"`
	EnabledTools     string        `yaml:"enabled_tools" env:"TASKBOARD_ENABLED_TOOLS"`
	TopPositionLists string        `yaml:"top_position_lists" env:"TASKBOARD_TOP_POSITION_LISTS"`
	ReadOnly         bool          `yaml:"read_only" env:"TASKBOARD_READ_ONLY"`
	RequestTimeout   time.Duration `yaml:"http_timeout" env:"TASKBOARD_HTTP_TIMEOUT"`
	Port             int           `yaml:"port" env:"PORT"`
	RateLimit        float64       `yaml:"rate_limit" env:"TASKBOARD_RATE_LIMIT"` // 0 means DefaultRateLimit, negative disables limiting
}

// Load reads the YAML file at path (skipped when path is empty), lets the
// environment override it, and fills remaining blanks with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
}

// Validate checks the fields every mode needs. requireToken is set for
// stdio mode, where there is no per-request credential to fall back on.
func (c *Config) Validate(requireToken bool) error {
	if requireToken && c.APIToken == "" {
		return fmt.Errorf("TASKBOARD_API_TOKEN is required (set via env var or api_token in the config file)")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Settings derives the immutable runtime view of c.
func (c *Config) Settings() Settings {
	s := Settings{
		apiToken:       c.APIToken,
		baseURL:        c.BaseURL,
		readOnly:       c.ReadOnly,
		requestTimeout: c.RequestTimeout,
		domainOrder:    ParseList(c.EnabledTools, ",", strings.ToLower),
		topPatterns:    ParseList(c.TopPositionLists, ",", nil),
	}
	s.domains = make(map[string]struct{}, len(s.domainOrder))
	for _, d := range s.domainOrder {
		s.domains[d] = struct{}{}
	}
	return s
}

// Settings is the configuration the server runs with. It is built once at
// startup and never changes, so it can be shared without locking.
type Settings struct {
	apiToken       string
	baseURL        string
	readOnly       bool
	requestTimeout time.Duration
	domains        map[string]struct{}
	domainOrder    []string
	topPatterns    []string
}

func (s Settings) APIToken() string              { return s.apiToken }
func (s Settings) BaseURL() string               { return s.baseURL }
func (s Settings) ReadOnly() bool                { return s.readOnly }
func (s Settings) RequestTimeout() time.Duration { return s.requestTimeout }

// DomainEnabled reports whether tools of the named domain are registered.
// An empty enabled set means every domain is on.
func (s Settings) DomainEnabled(name string) bool {
	if len(s.domains) == 0 {
		return true
	}
	_, ok := s.domains[strings.ToLower(name)]
	return ok
}

// EnabledDomains returns the configured domain names in input order, or nil
// when every domain is enabled.
func (s Settings) EnabledDomains() []string {
	if len(s.domainOrder) == 0 {
		return nil
	}
	return append([]string(nil), s.domainOrder...)
}

// TopPositionPatterns returns the list-name patterns for position inference.
func (s Settings) TopPositionPatterns() []string {
	return append([]string(nil), s.topPatterns...)
}

// UnknownDomains returns the configured domain names that are not in known.
func (s Settings) UnknownDomains(known []string) []string {
	valid := make(map[string]struct{}, len(known))
	for _, k := range known {
		valid[k] = struct{}{}
	}

	var unknown []string
	for _, d := range s.domainOrder {
		if _, ok := valid[d]; !ok {
			unknown = append(unknown, d)
		}
	}
	return unknown
}

// Suggest returns the closest entry of known to name, or "" if nothing is
// close enough.
func Suggest(name string, known []string) string {
	ranks := fuzzy.RankFindFold(name, known)
	if len(ranks) == 0 {
		// Typos that drop characters only match in the other direction.
		for _, k := range known {
			if fuzzy.MatchFold(k, name) {
				return k
			}
		}
		return ""
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
