package middleware

import (
	"fmt"
	"net"
	"net/http"

	"mingle/internal/middleware/ratelimiter"
)

// IdentityFunc extracts the rate limiting key from a request.
type IdentityFunc func(r *http.Request) (string, error)

// ByIP keys the limiter on the client address. RemoteAddr is host:port on a
// direct connection but a bare IP once the RealIP middleware has rewritten it
// from a forwarded-IP header, so both shapes must resolve.
func ByIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid client address: %s", ip)
	}
	return ip, nil
}

// ByUser keys the limiter on the authenticated user id. Must run inside
// RequireAuth.
func ByUser(r *http.Request) (string, error) {
	userId, ok := UserIdFromContext(r)
	if !ok {
		return "", fmt.Errorf("no authenticated user in request context")
	}
	return fmt.Sprintf("user:%d", userId), nil
}

// RateLimit rejects requests over the per-identity budget with 429.
func RateLimit(limiter *ratelimiter.Limiter, identity IdentityFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identity(r)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if !limiter.Allow(id) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
