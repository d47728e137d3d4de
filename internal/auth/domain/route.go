package domain

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
)

// RouteKind is the outcome of classifying a request path.
type RouteKind int

const (
	// RoutePublic requests are dispatched without establishing an identity.
	RoutePublic RouteKind = iota + 1
	// RouteLogin requests run the credential login flow.
	RouteLogin
	// RouteLogout requests run the stateless logout flow.
	RouteLogout
	// RouteProtected requests need a valid bearer token.
	RouteProtected
)

func (k RouteKind) String() string {
	switch k {
	case RoutePublic:
		return "public"
	case RouteLogin:
		return "login"
	case RouteLogout:
		return "logout"
	case RouteProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// Classification tells the pipeline how to treat a request. RequiredRole is
// empty when any authenticated principal may proceed.
type Classification struct {
	Kind         RouteKind
	RequiredRole Role
}

// WhitelistRule marks paths matching Pattern as reachable without a token
// when AllowedWithoutAuth is true. A rule with AllowedWithoutAuth false carves
// a protected path out of a broader public pattern.
//
// Patterns are slash separated. "*" matches within one segment and "**"
// matches any number of segments, so "/api/v1/auth/**" covers
// "/api/v1/auth" and everything below it.
type WhitelistRule struct {
	Pattern            string
	AllowedWithoutAuth bool
}

// RoleRule requires Role for paths matching Pattern.
type RoleRule struct {
	Pattern string
	Role    Role
}

// RouteConfig is the input of NewRouteMatcher.
type RouteConfig struct {
	LoginPath  string
	LogoutPath string
	Whitelist  []WhitelistRule
	// Roles is consulted in order; the first matching rule wins.
	Roles []RoleRule
}

// DefaultRouteConfig returns the route table of the public API for the given
// version segment (for example "v1"). extraPublic patterns are appended to the
// whitelist as public rules.
func DefaultRouteConfig(apiVersion string, extraPublic []string) RouteConfig {
	prefix := "/api/" + apiVersion

	whitelist := []WhitelistRule{
		{Pattern: prefix + "/auth/**", AllowedWithoutAuth: true},
		{Pattern: prefix + "/login", AllowedWithoutAuth: true},
		{Pattern: prefix + "/logout", AllowedWithoutAuth: true},
		{Pattern: prefix + "/rooms/search", AllowedWithoutAuth: true},
		{Pattern: "/api-docs/**", AllowedWithoutAuth: true},
		{Pattern: "/swagger-ui/**", AllowedWithoutAuth: true},
		{Pattern: "/swagger-resources/**", AllowedWithoutAuth: true},
		{Pattern: "/css/**", AllowedWithoutAuth: true},
		{Pattern: "/js/**", AllowedWithoutAuth: true},
		{Pattern: "/images/**", AllowedWithoutAuth: true},
		{Pattern: "/webjars/**", AllowedWithoutAuth: true},
		{Pattern: "/favicon.ico", AllowedWithoutAuth: true},
		{Pattern: "/health", AllowedWithoutAuth: true},
		{Pattern: "/ready", AllowedWithoutAuth: true},
	}
	for _, p := range extraPublic {
		whitelist = append(whitelist, WhitelistRule{Pattern: p, AllowedWithoutAuth: true})
	}

	return RouteConfig{
		LoginPath:  prefix + "/auth/login",
		LogoutPath: prefix + "/logout",
		Whitelist:  whitelist,
		Roles: []RoleRule{
			{Pattern: prefix + "/management/**", Role: RoleAdmin},
			{Pattern: prefix + "/**", Role: RoleUser},
		},
	}
}

type compiledRule struct {
	segments    []string
	public      bool
	specificity int
	wildcards   int
}

type compiledRoleRule struct {
	segments []string
	role     Role
}

// RouteMatcher classifies request paths. It is immutable after construction
// and safe for concurrent use.
type RouteMatcher struct {
	loginPath  string
	logoutPath string
	whitelist  []compiledRule
	roles      []compiledRoleRule
}

// NewRouteMatcher validates and compiles cfg.
func NewRouteMatcher(cfg RouteConfig) (*RouteMatcher, error) {
	m := &RouteMatcher{}
	if cfg.LoginPath != "" {
		m.loginPath = cleanPath(cfg.LoginPath)
	}
	if cfg.LogoutPath != "" {
		m.logoutPath = cleanPath(cfg.LogoutPath)
	}

	for _, rule := range cfg.Whitelist {
		segments, err := compilePattern(rule.Pattern)
		if err != nil {
			return nil, err
		}
		specificity, wildcards := measure(segments)
		m.whitelist = append(m.whitelist, compiledRule{
			segments:    segments,
			public:      rule.AllowedWithoutAuth,
			specificity: specificity,
			wildcards:   wildcards,
		})
	}

	// most specific first, declaration order breaks ties
	sort.SliceStable(m.whitelist, func(i, j int) bool {
		a, b := m.whitelist[i], m.whitelist[j]
		if a.specificity != b.specificity {
			return a.specificity > b.specificity
		}
		return a.wildcards < b.wildcards
	})

	for _, rule := range cfg.Roles {
		segments, err := compilePattern(rule.Pattern)
		if err != nil {
			return nil, err
		}
		if rule.Role == "" {
			return nil, fmt.Errorf("role rule %q has no role", rule.Pattern)
		}
		m.roles = append(m.roles, compiledRoleRule{segments: segments, role: rule.Role})
	}

	return m, nil
}

// Classify decides how the pipeline treats a request. It depends only on the
// path and method.
func (m *RouteMatcher) Classify(requestPath, method string) Classification {
	if method == http.MethodOptions {
		return Classification{Kind: RoutePublic}
	}

	p := cleanPath(requestPath)

	if method == http.MethodPost {
		switch {
		case m.loginPath != "" && p == m.loginPath:
			return Classification{Kind: RouteLogin}
		case m.logoutPath != "" && p == m.logoutPath:
			return Classification{Kind: RouteLogout}
		}
	}

	segments := splitPath(p)
	for _, rule := range m.whitelist {
		if matchSegments(rule.segments, segments) {
			if rule.public {
				return Classification{Kind: RoutePublic}
			}
			break
		}
	}

	for _, rule := range m.roles {
		if matchSegments(rule.segments, segments) {
			return Classification{Kind: RouteProtected, RequiredRole: rule.role}
		}
	}

	return Classification{Kind: RouteProtected}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func compilePattern(pattern string) ([]string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("route pattern %q must start with /", pattern)
	}
	segments := splitPath(pattern)
	for _, seg := range segments {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return nil, fmt.Errorf("route pattern %q: %w", pattern, err)
		}
	}
	return segments, nil
}

// measure returns the number of literal characters and wildcard segments in a pattern.
func measure(segments []string) (specificity, wildcards int) {
	for _, seg := range segments {
		if seg == "**" {
			wildcards++
			continue
		}
		if strings.ContainsAny(seg, "*?[") {
			wildcards++
		}
		specificity += len(strings.NewReplacer("*", "", "?", "").Replace(seg)) + 1
	}
	return specificity, wildcards
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(segments); i++ {
				if matchSegments(pattern[1:], segments[i:]) {
					return true
				}
			}
			return false
		}

		if len(segments) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], segments[0]); !ok {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}
