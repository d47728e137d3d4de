package domain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultMatcher(t *testing.T) *RouteMatcher {
	t.Helper()
	m, err := NewRouteMatcher(DefaultRouteConfig("v1", []string{"/api/v1/public/**"}))
	require.NoError(t, err)
	return m
}

func TestRouteMatcher_Classify(t *testing.T) {
	m := newDefaultMatcher(t)

	tests := []struct {
		name     string
		method   string
		path     string
		expected Classification
	}{
		{"login", http.MethodPost, "/api/v1/auth/login", Classification{Kind: RouteLogin}},
		{"login with trailing slash", http.MethodPost, "/api/v1/auth/login/", Classification{Kind: RouteLogin}},
		{"login path with GET is only public", http.MethodGet, "/api/v1/auth/login", Classification{Kind: RoutePublic}},
		{"logout", http.MethodPost, "/api/v1/logout", Classification{Kind: RouteLogout}},
		{"room search", http.MethodGet, "/api/v1/rooms/search", Classification{Kind: RoutePublic}},
		{"auth subtree", http.MethodGet, "/api/v1/auth/signup/confirm", Classification{Kind: RoutePublic}},
		{"swagger", http.MethodGet, "/swagger-ui/index.html", Classification{Kind: RoutePublic}},
		{"health", http.MethodGet, "/health", Classification{Kind: RoutePublic}},
		{"extra whitelist", http.MethodGet, "/api/v1/public/terms", Classification{Kind: RoutePublic}},
		{"preflight on admin path", http.MethodOptions, "/api/v1/management/users", Classification{Kind: RoutePublic}},
		{
			"management requires admin",
			http.MethodGet, "/api/v1/management/users",
			Classification{Kind: RouteProtected, RequiredRole: RoleAdmin},
		},
		{
			"api requires user",
			http.MethodGet, "/api/v1/rooms/42",
			Classification{Kind: RouteProtected, RequiredRole: RoleUser},
		},
		{
			"dot segments are cleaned before matching",
			http.MethodGet, "/api/v1/rooms/search/../../management/users",
			Classification{Kind: RouteProtected, RequiredRole: RoleAdmin},
		},
		{"unmatched path needs any authentication", http.MethodGet, "/internal/stats", Classification{Kind: RouteProtected}},
		{"other api version needs any authentication", http.MethodGet, "/api/v2/rooms", Classification{Kind: RouteProtected}},
		{"empty path", http.MethodGet, "", Classification{Kind: RouteProtected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Classify(tt.path, tt.method))
		})
	}
}

func TestRouteMatcher_MostSpecificWhitelistRuleWins(t *testing.T) {
	m, err := NewRouteMatcher(RouteConfig{
		LoginPath:  "/api/v1/auth/login",
		LogoutPath: "/api/v1/logout",
		Whitelist: []WhitelistRule{
			{Pattern: "/api/v1/auth/**", AllowedWithoutAuth: true},
			{Pattern: "/api/v1/auth/me", AllowedWithoutAuth: false},
		},
		Roles: []RoleRule{{Pattern: "/api/v1/**", Role: RoleUser}},
	})
	require.NoError(t, err)

	assert.Equal(t,
		Classification{Kind: RouteProtected, RequiredRole: RoleUser},
		m.Classify("/api/v1/auth/me", http.MethodGet),
	)
	assert.Equal(t, Classification{Kind: RoutePublic}, m.Classify("/api/v1/auth/other", http.MethodGet))
}

func TestRouteMatcher_FirstRoleRuleWins(t *testing.T) {
	m, err := NewRouteMatcher(RouteConfig{
		Roles: []RoleRule{
			{Pattern: "/api/**", Role: RoleUser},
			{Pattern: "/api/admin/**", Role: RoleAdmin},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, m.Classify("/api/admin/users", http.MethodGet).RequiredRole)
}

func TestRouteMatcher_SingleSegmentWildcard(t *testing.T) {
	m, err := NewRouteMatcher(RouteConfig{
		Whitelist: []WhitelistRule{{Pattern: "/api/v1/rooms/*/images", AllowedWithoutAuth: true}},
	})
	require.NoError(t, err)

	assert.Equal(t, RoutePublic, m.Classify("/api/v1/rooms/7/images", http.MethodGet).Kind)
	assert.Equal(t, RouteProtected, m.Classify("/api/v1/rooms/7/8/images", http.MethodGet).Kind)
	assert.Equal(t, RouteProtected, m.Classify("/api/v1/rooms/images", http.MethodGet).Kind)
}

func TestRouteMatcher_Deterministic(t *testing.T) {
	m := newDefaultMatcher(t)
	first := m.Classify("/api/v1/management/rooms", http.MethodDelete)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, m.Classify("/api/v1/management/rooms", http.MethodDelete))
	}
}

func TestNewRouteMatcher_InvalidConfig(t *testing.T) {
	t.Run("Error_PatternWithoutLeadingSlash", func(t *testing.T) {
		_, err := NewRouteMatcher(RouteConfig{Whitelist: []WhitelistRule{{Pattern: "api/v1"}}})
		assert.Error(t, err)
	})

	t.Run("Error_MalformedGlob", func(t *testing.T) {
		_, err := NewRouteMatcher(RouteConfig{Whitelist: []WhitelistRule{{Pattern: "/files/["}}})
		assert.Error(t, err)
	})

	t.Run("Error_RoleRuleWithoutRole", func(t *testing.T) {
		_, err := NewRouteMatcher(RouteConfig{Roles: []RoleRule{{Pattern: "/api/**"}}})
		assert.Error(t, err)
	})
}

func TestMatchSegments(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"/api/v1/auth/**", "/api/v1/auth", true},
		{"/api/v1/auth/**", "/api/v1/auth/login", true},
		{"/api/v1/auth/**", "/api/v1/auth/a/b/c", true},
		{"/api/v1/auth/**", "/api/v1/authx", false},
		{"/**/*.css", "/static/site/main.css", true},
		{"/**/*.css", "/static/site/main.js", false},
		{"/favicon.ico", "/favicon.ico", true},
		{"/favicon.ico", "/favicon.ico/x", false},
		{"/", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.match, matchSegments(splitPath(tt.pattern), splitPath(tt.path)))
		})
	}
}
