package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware returns nil when CORS is disabled or no valid origin
// pattern is configured. See originPattern for the accepted pattern syntax.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	patterns := compileOriginPatterns(parseOrigins(allowOriginsStr), logger)
	if len(patterns) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(patterns)),
		slog.String("origins", allowOriginsStr))

	return cors.New(cors.Config{
		AllowOriginFunc: patterns.allows,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		// "*" does not cover Authorization, so it is listed explicitly
		AllowHeaders: []string{"*", "Authorization"},
		// the access token is returned in the Authorization header on login
		ExposeHeaders: []string{"*", "Authorization", "X-Request-Id"},
		MaxAge:        time.Hour,
	})
}

// parseOrigins splits a comma separated origin list, dropping empty entries.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// originPattern is one allowed origin, written scheme://host[:port]. The host
// may contain "*" wildcards, so "*.localhost" matches any subdomain of
// localhost. A port of "*" or "[*]" accepts any port or none. A lone "*"
// allows every origin.
type originPattern struct {
	scheme  string
	host    string
	port    string
	anyPort bool
}

type originPatterns []originPattern

func parseOriginPattern(raw string) (originPattern, bool) {
	if raw == "*" {
		return originPattern{scheme: "*", host: "*", anyPort: true}, true
	}

	scheme, hostPort, ok := strings.Cut(strings.ToLower(raw), "://")
	if !ok || scheme == "" || hostPort == "" {
		return originPattern{}, false
	}

	p := originPattern{scheme: scheme, host: hostPort}
	if i := strings.LastIndex(hostPort, ":"); i >= 0 {
		p.host = hostPort[:i]
		switch port := hostPort[i+1:]; port {
		case "*", "[*]":
			p.anyPort = true
		default:
			p.port = port
		}
	}

	if p.host == "" || strings.Contains(p.host, "/") {
		return originPattern{}, false
	}
	if _, err := path.Match(p.host, ""); err != nil {
		return originPattern{}, false
	}
	return p, true
}

func compileOriginPatterns(raw []string, logger *slog.Logger) originPatterns {
	patterns := make(originPatterns, 0, len(raw))
	for _, r := range raw {
		p, ok := parseOriginPattern(r)
		if !ok {
			logger.Warn("ignoring invalid CORS origin pattern", slog.String("pattern", r))
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns
}

func (p originPattern) matches(scheme, host, port string) bool {
	if p.scheme != "*" && p.scheme != scheme {
		return false
	}
	if !p.anyPort && p.port != port {
		return false
	}
	ok, _ := path.Match(p.host, host)
	return ok
}

func (ps originPatterns) allows(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	for _, p := range ps {
		if p.matches(scheme, host, port) {
			return true
		}
	}
	return false
}
