package middleware

import (
	"fmt"
	"net/http"

	"github.com/2beens/fitcourses/pkg"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests over the limiter budget with 429.
func RateLimit(limiter *rate.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reservation := limiter.Reserve()
			if !reservation.OK() {
				pkg.WriteJSONMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", delay.Seconds()+0.5))
				pkg.WriteJSONMessage(w, http.StatusTooManyRequests, fmt.Sprintf("retry after %f seconds", delay.Seconds()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
