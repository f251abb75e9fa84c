package api

import "net/http"

const livenessText = "LGSTech backend is running successfully!"

// RootHandler answers the liveness probe on "/".
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(livenessText))
	}
}
