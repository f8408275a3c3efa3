package pkgrouter

import "net/http"

// LimitBody caps the request body at n bytes. Reading past the cap fails
// with *http.MaxBytesError. A non-positive n leaves the body unbounded.
func LimitBody(n int64) Middleware {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
