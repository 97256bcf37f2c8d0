package httpmiddleware

import (
	"net/http"
	"strings"
)

// CORS returns a middleware that answers cross-origin requests for the given
// origins. An empty list or a "*" entry allows every origin. Preflight
// requests (OPTIONS with Access-Control-Request-Method) are answered with
// 204 and never reach the wrapped handler.
func CORS(origins []string) Middleware {
	allowAll := len(origins) == 0
	allowed := make(map[string]string, len(origins)) // lowercase -> original
	for _, o := range origins {
		if o == "*" {
			allowAll = true
			break
		}
		allowed[strings.ToLower(o)] = o
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := ""
			switch {
			case allowAll:
				allowOrigin = "*"
			default:
				w.Header().Add("Vary", "Origin")
				if o, ok := allowed[strings.ToLower(origin)]; ok {
					allowOrigin = o
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowOrigin != "" {
					w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					if rh := r.Header.Get("Access-Control-Request-Headers"); rh != "" {
						w.Header().Set("Access-Control-Allow-Headers", rh)
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			}
			next.ServeHTTP(w, r)
		})
	}
}
