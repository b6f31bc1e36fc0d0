package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(log.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"requestId": r.Header.Get("X-Request-ID"),
			}).Trace(" ====> request")
			next.ServeHTTP(w, r)
		})
	}
}
