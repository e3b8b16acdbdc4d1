package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to make cross-origin requests.
	// Empty, or a single "*", allows any origin.
	AllowOrigins []string

	// AllowMethods lists the methods advertised on preflight responses.
	// Defaults to "GET, POST, PUT, DELETE, OPTIONS".
	AllowMethods []string

	// AllowHeaders lists the request headers advertised on preflight
	// responses. When empty, the headers requested by the client are
	// echoed back.
	AllowHeaders []string

	// ExposeHeaders lists response headers the browser may read.
	ExposeHeaders []string

	// AllowCredentials enables Access-Control-Allow-Credentials. It cannot
	// be combined with a wildcard origin, so when both are set the
	// middleware echoes the specific request origin instead of "*".
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header, negative sends "0" to disable caching.
	MaxAge int
}

// originSet matches request origins case-insensitively while preserving
// the configured casing for the echoed header value.
type originSet map[string]string

func newOriginSet(origins []string) (originSet, bool) {
	if len(origins) == 0 {
		return nil, true
	}
	set := make(originSet, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil, true
		}
		set[strings.ToLower(o)] = o
	}
	return set, false
}

// allowValue returns the Access-Control-Allow-Origin value for origin,
// or "" when the origin is not allowed.
func (s originSet) allowValue(origin string, wildcard bool) string {
	if wildcard {
		return "*"
	}
	return s[strings.ToLower(origin)]
}

// CORS returns a middleware handling cross-origin requests. Preflight
// requests (OPTIONS with Access-Control-Request-Method) are answered with
// 204 and never reach the wrapped handler. Vary headers are set on every
// origin-dependent response so shared caches keep responses per origin.
func CORS(cfg CORSConfig) Middleware {
	set, wildcard := newOriginSet(cfg.AllowOrigins)
	if cfg.AllowCredentials {
		wildcard = false
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	if allowMethods == "" {
		allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	var maxAge string
	switch {
	case cfg.MaxAge > 0:
		maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		maxAge = "0"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Same-origin request. Still vary on Origin so caches keep
				// it apart from cross-origin responses.
				if !wildcard {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := set.allowValue(origin, wildcard)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				writePreflight(w, r, cfg, allowOrigin, allowMethods, allowHeaders, maxAge)
				return
			}

			if !wildcard {
				w.Header().Add("Vary", "Origin")
			}
			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writePreflight(w http.ResponseWriter, r *http.Request, cfg CORSConfig, allowOrigin, allowMethods, allowHeaders, maxAge string) {
	w.Header().Add("Vary", "Origin")
	w.Header().Add("Vary", "Access-Control-Request-Method")
	w.Header().Add("Vary", "Access-Control-Request-Headers")

	if allowOrigin == "" {
		// Disallowed origin: 204 with no CORS headers, the browser blocks it.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", allowMethods)

	switch {
	case allowHeaders != "":
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
	default:
		if rh := r.Header.Get("Access-Control-Request-Headers"); rh != "" {
			w.Header().Set("Access-Control-Allow-Headers", rh)
		}
	}

	if cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if maxAge != "" {
		w.Header().Set("Access-Control-Max-Age", maxAge)
	}

	w.WriteHeader(http.StatusNoContent)
}
