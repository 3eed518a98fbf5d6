package middleware

import "net/http"

// ContentTypeJSON marks responses as JSON. Apply to API subrouters only;
// file-serving routes set their own types.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
