package middleware

import (
	"net/http"
	"sync"
)

// Serialize runs requests one at a time. The register core is built for a
// single operator and carries no internal locking, so the HTTP front end
// provides the synchronization at its own boundary.
func Serialize(mu *sync.Mutex) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
