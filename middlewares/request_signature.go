package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/lendingdesk/court-search-service/common/utils"
	"github.com/rs/zerolog/log"
)

// RequestSignature verifies the X-SIGNATURE header, an HMAC-SHA256 over
// "<method>:<path>:<timestamp>" keyed with the server salt. Disabled when no
// salt is configured.
func RequestSignature(salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if salt == "" {
				next.ServeHTTP(w, r)
				return
			}

			signature := r.Header.Get("X-SIGNATURE")
			timestamp := r.Header.Get("X-TIMESTAMP")
			if signature == "" || timestamp == "" {
				utils.WriteError(w, http.StatusUnauthorized, "missing request signature")
				return
			}

			mac := hmac.New(sha256.New, []byte(salt))
			mac.Write([]byte(r.Method + ":" + r.URL.Path + ":" + timestamp))
			expected := hex.EncodeToString(mac.Sum(nil))

			if !hmac.Equal([]byte(signature), []byte(expected)) {
				log.Warn().
					Str("path", r.URL.Path).
					Msg("Rejected request with invalid signature")
				utils.WriteError(w, http.StatusUnauthorized, "invalid request signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
