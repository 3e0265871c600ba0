package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/domain/session"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// pageData is what the layout receives.
type pageData struct {
	Title     string
	Screen    string
	Nav       []navItem
	Principal *session.Principal
	Roles     []string
	Flash     *Flash
	CSRF      string
	Version   string
	Body      any
}

// renderer holds one template set per page, each layered over the layout.
type renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"opt":        optional,
	"money":      func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"selected":   selected,
	"join":       strings.Join,
	"auditLevel": admin.AuditLevel,
	"tone":       tone,
	"choices":    choices,
}

func newRenderer() (*renderer, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).
		ParseFS(templatesFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, f); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return &renderer{pages: pages}, nil
}

// render writes page name inside the layout. A flash already set on the
// request (from a redirect) is consumed unless body carries its own.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title, screen string, body any) {
	h.renderFlash(w, r, status, name, title, screen, body, nil)
}

func (h *Handler) renderFlash(w http.ResponseWriter, r *http.Request, status int, name, title, screen string, body any, flash *Flash) {
	t, ok := h.pages.pages[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}

	if pending := popFlash(w, r); flash == nil {
		flash = pending
	}

	data := pageData{
		Title:   title,
		Screen:  screen,
		Flash:   flash,
		CSRF:    csrfToken(r.Context()),
		Version: h.version,
		Body:    body,
	}
	if sess, ok := h.store.Get(r.Context()); ok {
		data.Principal = sess.User
		data.Roles = sess.Roles
		data.Nav = navFor(r, h.store, screen)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		httpadapter.LoggerFromContext(r.Context()).Error("render failed", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// staticHandler serves the embedded stylesheet.
func staticHandler() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")
		files.ServeHTTP(w, r)
	})
}

// optional renders nillable backend fields, "-" when absent.
func optional(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case *string:
		if x == nil || *x == "" {
			return "-"
		}
		return *x
	case *int64:
		if x == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *x)
	case string:
		if x == "" {
			return "-"
		}
		return x
	default:
		return fmt.Sprint(v)
	}
}

// selected reports whether option value is the current filter. An empty
// filter selects the "all" option.
func selected(current, value string) bool {
	if current == "" {
		return value == admin.AllFilter
	}
	return current == value
}

type choiceList struct {
	Current string
	Options []admin.Option
}

// choices feeds the "options" partial.
func choices(current string, opts []admin.Option) choiceList {
	return choiceList{Current: current, Options: opts}
}

// tone maps a status to a badge colour class.
func tone(status string) string {
	switch status {
	case "frozen", "rejected", "submitted":
		return "bad"
	case "pending", "processing", "confirmed":
		return "warn"
	case "approved", "resolved", "completed", "reviewed", "verified", "active":
		return "good"
	default:
		return "info"
	}
}
