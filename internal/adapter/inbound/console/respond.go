package console

import (
	"errors"
	"net/http"

	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/service"
)

// errInvalidForm marks operator input rejected before any backend call.
var errInvalidForm = errors.New("invalid form")

// failed handles err when it ends the request. An unauthorized error has
// already cleared the session in the pipeline; the operator is sent to the
// login page with returnTo as next. It reports whether the response was written.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, err error, returnTo string) bool {
	logger := httpadapter.LoggerFromContext(r.Context())
	if backend.IsUnauthorized(err) {
		logger.Info("session rejected by backend, redirecting to login", "path", r.URL.Path)
		setFlash(w, FlashWarning, backend.Message(err), h.secure)
		http.Redirect(w, r, LoginURL(returnTo), http.StatusSeeOther)
		return true
	}
	logger.Warn("backend call failed", "path", r.URL.Path, "error", err)
	return false
}

// errorMessage is the operator-facing text for err.
func errorMessage(err error) string {
	var invalid formError
	switch {
	case errors.As(err, &invalid):
		return invalid.msg
	case errors.Is(err, service.ErrInvalidLogin), errors.Is(err, service.ErrInvalidSettings):
		return err.Error()
	default:
		return backend.Message(err)
	}
}

// formError carries a message about rejected input.
type formError struct{ msg string }

func (e formError) Error() string { return e.msg }
func (e formError) Unwrap() error { return errInvalidForm }

func invalidForm(msg string) error { return formError{msg: msg} }

// afterMutation finishes a form post: on success it flashes ok and redirects
// to back; on failure it flashes the error and redirects to back, except for
// 401 which goes to the login page.
func (h *Handler) afterMutation(w http.ResponseWriter, r *http.Request, err error, ok, back string) {
	if err != nil {
		if h.failed(w, r, err, back) {
			return
		}
		setFlash(w, FlashError, errorMessage(err), h.secure)
	} else {
		setFlash(w, FlashSuccess, ok, h.secure)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
