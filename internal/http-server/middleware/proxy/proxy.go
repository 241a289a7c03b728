package proxy

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// TrustedRealIP rewrites r.RemoteAddr from True-Client-IP, X-Real-IP or
// X-Forwarded-For, but only when the connection comes from one of the trusted
// proxy addresses. Any other client keeps its socket address, whatever
// headers it sends.
func TrustedRealIP(trusted []string) func(next http.Handler) http.Handler {
	proxies := make(map[string]struct{}, len(trusted))
	for _, addr := range trusted {
		if addr != "" {
			proxies[addr] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		forwarded := middleware.RealIP(next)

		fn := func(w http.ResponseWriter, r *http.Request) {
			if _, ok := proxies[host(r.RemoteAddr)]; ok {
				forwarded.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func host(remoteAddr string) string {
	h, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return h
}
