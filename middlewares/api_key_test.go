package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestApiKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"matching key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"check disabled", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ApiKey(tt.configured)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/search/history", nil)
			if tt.provided != "" {
				req.Header.Set("X-API-KEY", tt.provided)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestSignature(t *testing.T) {
	const salt = "pepper"

	sign := func(method, path, timestamp string) string {
		mac := hmac.New(sha256.New, []byte(salt))
		mac.Write([]byte(method + ":" + path + ":" + timestamp))
		return hex.EncodeToString(mac.Sum(nil))
	}

	handler := RequestSignature(salt)(okHandler())

	t.Run("valid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/search", nil)
		req.Header.Set("X-TIMESTAMP", "1700000000")
		req.Header.Set("X-SIGNATURE", sign(http.MethodPost, "/search", "1700000000"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("tampered path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/search", nil)
		req.Header.Set("X-TIMESTAMP", "1700000000")
		req.Header.Set("X-SIGNATURE", sign(http.MethodPost, "/other", "1700000000"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("missing headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/search", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("check disabled", func(t *testing.T) {
		open := RequestSignature("")(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/search", nil)

		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}
