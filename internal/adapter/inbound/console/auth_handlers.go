package console

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/domain/ratelimit"
	"github.com/snapbook/opsconsole/internal/service"
)

type loginForm struct {
	Next      string
	Phone     string
	CodeSent  bool
	ExpiresAt string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	next := SafeNext(r.URL.Query().Get("next"))
	if h.store.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Sign in", "", loginForm{Next: next})
}

// requestCode asks the backend to text a verification code and re-renders the
// login form with the phone filled in.
func (h *Handler) requestCode(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Next:  SafeNext(r.PostFormValue("next")),
		Phone: strings.TrimSpace(r.PostFormValue("phone")),
	}
	if !h.allow(w, r, ratelimit.ScopeCode, ratelimit.CodeRequests, form) {
		return
	}

	expires, err := h.auth.RequestCode(r.Context(), form.Phone)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, service.ErrInvalidLogin) {
			status = http.StatusUnprocessableEntity
		} else {
			httpadapter.LoggerFromContext(r.Context()).Warn("verification code request failed", "error", err)
		}
		h.renderFlash(w, r, status, "login", "Sign in", "", form,
			&Flash{Kind: FlashError, Message: loginErrorMessage(err)})
		return
	}

	form.CodeSent = true
	form.ExpiresAt = expires
	h.renderFlash(w, r, http.StatusOK, "login", "Sign in", "", form,
		&Flash{Kind: FlashSuccess, Message: "Verification code sent."})
}

// login exchanges phone and code for a session and returns to next.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Next:     SafeNext(r.PostFormValue("next")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		CodeSent: true,
	}
	if !h.allow(w, r, ratelimit.ScopeLogin, ratelimit.LoginAttempts, form) {
		return
	}

	_, err := h.auth.Login(r.Context(), form.Phone, r.PostFormValue("code"))
	h.countLogin(err)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, service.ErrInvalidLogin) {
			status = http.StatusUnprocessableEntity
		} else {
			httpadapter.LoggerFromContext(r.Context()).Warn("login failed", "error", err)
		}
		h.renderFlash(w, r, status, "login", "Sign in", "", form,
			&Flash{Kind: FlashError, Message: loginErrorMessage(err)})
		return
	}

	setFlash(w, FlashSuccess, "Signed in.", h.secure)
	http.Redirect(w, r, form.Next, http.StatusSeeOther)
}

// logout clears the session. It never contacts the backend.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		httpadapter.LoggerFromContext(r.Context()).Error("failed to clear session", "error", err)
	}
	setFlash(w, FlashSuccess, "Signed out.", h.secure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// allow applies the login throttle for form.Phone. When the phone is over its
// limit the login page is rendered with 429 and false is returned.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, scope ratelimit.Scope, limit ratelimit.Limit, form loginForm) bool {
	if h.limiter == nil || form.Phone == "" {
		return true
	}
	res, err := h.limiter.Allow(r.Context(), ratelimit.FormatKey(scope, form.Phone), limit)
	if err != nil {
		httpadapter.LoggerFromContext(r.Context()).Warn("login throttle unavailable", "error", err)
		return true
	}
	if res.Allowed {
		return true
	}
	if h.metrics != nil && scope == ratelimit.ScopeLogin {
		h.metrics.LoginAttempts.WithLabelValues("throttled").Inc()
	}
	wait := int(math.Ceil(res.RetryAfter.Seconds()))
	w.Header().Set("Retry-After", fmt.Sprint(wait))
	h.renderFlash(w, r, http.StatusTooManyRequests, "login", "Sign in", "", form,
		&Flash{Kind: FlashWarning, Message: fmt.Sprintf("Too many attempts. Try again in %d seconds.", wait)})
	return false
}

func (h *Handler) countLogin(err error) {
	if h.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidLogin):
		outcome = "invalid"
	case backend.IsUnauthorized(err), backend.IsRequestFailed(err), errors.Is(err, service.ErrEmptyResponse):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
}

// loginErrorMessage differs from errorMessage for 401: there is no session to
// expire on the login page.
func loginErrorMessage(err error) string {
	switch {
	case backend.IsUnauthorized(err), errors.Is(err, service.ErrEmptyResponse):
		return "Login failed. Check the phone number and code."
	default:
		return errorMessage(err)
	}
}
