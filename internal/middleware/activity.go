package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// TrackActivity updates the caller's last-active timestamp once the
// request has been served. It never fails the request; a failed touch is
// only logged.
func TrackActivity(touch func(ctx context.Context, userID string) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			userID := GetUserID(r.Context())
			if userID == "" {
				return
			}
			if err := touch(r.Context(), userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("Failed to update last active")
			}
		})
	}
}
