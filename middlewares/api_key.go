package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/lendingdesk/court-search-service/common/utils"
	"github.com/rs/zerolog/log"
)

// ApiKey rejects requests whose X-API-KEY header does not match the
// configured backend key. When no key is configured the check is disabled,
// which is the expected state for local development.
func ApiKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-KEY")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				log.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Msg("Rejected request with invalid API key")
				utils.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
