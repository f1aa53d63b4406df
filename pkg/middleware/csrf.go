package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"escapedia/pkg/logger"

	"github.com/google/uuid"
)

const (
	CSRFField      = "csrf_token"
	csrfSeedCookie = "csrf_seed"
	csrfTokenKey   = contextKey("csrf_token")
)

// CSRFProtection binds every form post to a per-browser seed cookie. The expected
// token is the HMAC of the seed, so forms carry it and cross-site posts cannot.
func CSRFProtection(secret []byte, secure bool, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seed := extractSeed(r)
			if seed == "" {
				seed = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     csrfSeedCookie,
					Value:    seed,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			expected := signSeed(secret, seed)

			if requiresContentType(r.Method) {
				received := r.FormValue(CSRFField)
				if !hmac.Equal([]byte(expected), []byte(received)) {
					log.Warn("CSRF verification failed",
						"request_id", RequestID(r.Context()),
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
					)
					http.Error(w, "Formulario caducado. Recarga la página e inténtalo de nuevo.", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenKey, expected)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFToken returns the token forms rendered for this request must carry.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey).(string)
	return token
}

func extractSeed(r *http.Request) string {
	c, err := r.Cookie(csrfSeedCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func signSeed(secret []byte, seed string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(seed))
	return hex.EncodeToString(mac.Sum(nil))
}
