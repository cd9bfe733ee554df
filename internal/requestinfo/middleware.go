// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits after logging and metrics in the chi stack.  For every
request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Takes the client IP from r.RemoteAddr.  chi's RealIP runs earlier and
     has already rewritten RemoteAddr from X-Forwarded-For or X-Real-IP;
     the headers are consulted here only when RemoteAddr is unusable.
  3. Performs a GeoLite2 country lookup when a database is loaded.
  4. Stores a `*RequestInfo` in the request context, so handlers can read
     UA and Geo attributes without reparsing.

Instrumentation
---------------
At debug level each invocation logs client IP, country, browser, device,
bot flag, and path.
*/
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Enrich wraps an http.Handler, attaches *RequestInfo, and forwards.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(clientIP(r)),
			Timestamp: time.Now().UTC(),
		}

		zap.S().Debugw("request info",
			"ip", info.ClientIP(),
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), info)))
	})
}

// clientIP prefers r.RemoteAddr (with or without port), then the left-most
// parseable X-Forwarded-For entry, then X-Real-IP.
func clientIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	if ip := net.ParseIP(r.RemoteAddr); ip != nil {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		return net.ParseIP(strings.TrimSpace(xrip))
	}
	return nil
}
