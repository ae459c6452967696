package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Rule limits one route. Path segments equal to "*" match any single
// segment, so "/emissions/*/render" covers every emission ID.
type Rule struct {
	Method string
	Path   string
	// Limit is the number of requests per Window; 0 means unlimited.
	Limit  int
	Window time.Duration
	// Burst defaults to Limit when 0.
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Rule
	Rules           []Rule
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	Allowlist       map[string]bool
}

// DefaultConfig limits the routes that launch a browser much harder than
// the rest of the API.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Rule{Limit: 600, Window: time.Minute, Burst: 60},
		Rules:           DefaultRules(30),
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
		Allowlist:       map[string]bool{},
	}
}

// DefaultRules returns the per-route rules with renderPerMinute applied to
// every rendering route.
func DefaultRules(renderPerMinute int) []Rule {
	burst := max(renderPerMinute/6, 1)
	return []Rule{
		{Method: "GET", Path: "/health"},
		{Method: "POST", Path: "/render", Limit: renderPerMinute, Window: time.Minute, Burst: burst},
		{Method: "POST", Path: "/emissions/*/render", Limit: renderPerMinute, Window: time.Minute, Burst: burst},
	}
}

// LoadConfig reads overrides from the environment:
// RATE_LIMIT_ENABLED, RATE_LIMIT_RENDER_PER_MINUTE and RATE_LIMIT_ALLOWLIST.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	if v, err := strconv.ParseBool(getenv("RATE_LIMIT_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(getenv("RATE_LIMIT_RENDER_PER_MINUTE")); err == nil && v > 0 {
		cfg.Rules = DefaultRules(v)
	}
	for _, ip := range strings.Split(getenv("RATE_LIMIT_ALLOWLIST"), ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			cfg.Allowlist[ip] = true
		}
	}
	return cfg
}

// Match returns the rule for a request, or nil when only the default applies.
func Match(method, path string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Method == method && pathMatches(rules[i].Path, path) {
			return &rules[i]
		}
	}
	return nil
}

func pathMatches(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}
