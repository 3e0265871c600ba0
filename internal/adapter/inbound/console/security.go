package console

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	csrfCookie = "opsconsole_csrf"
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
)

type csrfKey struct{}

// cspMiddleware sets Content Security Policy and related security headers on
// all responses. The console serves no scripts.
func cspMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'none'; style-src 'self'; img-src 'self' data:; "+
				"frame-ancestors 'none'; form-action 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// csrfMiddleware provides double-submit CSRF protection for the console forms.
//
// Every request gets a token cookie if it has none; the token is placed in the
// request context so forms can embed it. State-changing methods must echo the
// cookie in the csrf_token form field or the X-CSRF-Token header.
func csrfMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ensureCSRFCookie(w, r, secure)
			r = r.WithContext(context.WithValue(r.Context(), csrfKey{}, token))

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			sent := r.Header.Get(csrfHeader)
			if sent == "" {
				sent = r.PostFormValue(csrfField)
			}
			if !validCSRF(r, sent) {
				http.Error(w, "Forbidden: invalid CSRF token. Reload the page and try again.", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validCSRF(r *http.Request, sent string) bool {
	cookie, err := r.Cookie(csrfCookie)
	if err != nil || cookie.Value == "" || sent == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(sent)) == 1
}

// ensureCSRFCookie returns the request's token, issuing a new cookie when the
// request carries none.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, secure bool) string {
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		return c.Value
	}

	token := generateCSRFToken()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// csrfToken returns the token placed in ctx by csrfMiddleware.
func csrfToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}

// generateCSRFToken returns a cryptographically random 32-byte hex-encoded string.
func generateCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return strings.Repeat("0", 64)
	}
	return hex.EncodeToString(b)
}
