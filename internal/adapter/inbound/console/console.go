// Package console serves the operations console: server-rendered screens over
// the marketplace back-office API.
//
// Every screen sits behind AuthGate and a RoleGate built from the route
// table. Screens fetch through the outbound.AdminAPI port, keep the last good
// data of each view and report failures as flash messages. A 401 from the
// backend clears the session and sends the operator back to the login page.
package console

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/domain/ratelimit"
	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/port/outbound"
	"github.com/snapbook/opsconsole/internal/service"
)

const meterName = "github.com/snapbook/opsconsole/console"

// Deps are the collaborators of the console Handler.
type Deps struct {
	Store     *session.Store
	API       outbound.AdminAPI
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Settings  *service.SettingsService
	// Metrics is optional.
	Metrics *httpadapter.Metrics
	// Limiter throttles the login endpoints per phone. Nil disables it.
	Limiter ratelimit.Limiter
	Logger  *slog.Logger
	Version string
	// SecureCookies marks cookies Secure for consoles served over TLS.
	SecureCookies bool
}

// Handler serves the console.
type Handler struct {
	store     *session.Store
	api       outbound.AdminAPI
	auth      *service.AuthService
	dashboard *service.DashboardService
	settings  *service.SettingsService
	metrics   *httpadapter.Metrics
	limiter   ratelimit.Limiter
	logger    *slog.Logger
	version   string
	secure    bool

	pages     *renderer
	views     *views
	viewLoads metric.Int64Counter
}

// New creates the console Handler. Views are reset whenever the session is
// cleared, so no data outlives the operator who loaded it.
func New(d Deps) (*Handler, error) {
	if d.Store == nil || d.API == nil || d.Auth == nil {
		return nil, fmt.Errorf("console: store, API and auth service are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Dashboard == nil {
		d.Dashboard = service.NewDashboardService(d.API)
	}
	if d.Settings == nil {
		d.Settings = service.NewSettingsService(d.API, d.Logger)
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("console: parse templates: %w", err)
	}

	viewLoads, err := otel.Meter(meterName).Int64Counter(
		"opsconsole.view.loads",
		metric.WithDescription("Screen data loads by view and outcome"),
	)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		store:     d.Store,
		api:       d.API,
		auth:      d.Auth,
		dashboard: d.Dashboard,
		settings:  d.Settings,
		metrics:   d.Metrics,
		limiter:   d.Limiter,
		logger:    d.Logger,
		version:   d.Version,
		secure:    d.SecureCookies,
		pages:     pages,
		views:     newViews(),
		viewLoads: viewLoads,
	}
	d.Store.OnClear(h.views.set.ResetAll)
	return h, nil
}

// Handler returns an http.Handler with all console routes.
func (h *Handler) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", staticHandler())

	mux.HandleFunc("GET /login", h.loginPage)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /login/code", h.requestCode)
	mux.HandleFunc("POST /logout", h.logout)

	gate := func(name string, next http.HandlerFunc) http.Handler {
		s, _ := ScreenByName(name)
		return RoleGate(h.store, h.deniedHandler(name), s.Roles...)(next)
	}

	screens := http.NewServeMux()
	screens.Handle("GET /{$}", gate("dashboard", h.dashboardPage))

	screens.Handle("GET /users", gate("users", h.usersPage))
	screens.Handle("POST /users/{id}/review", gate("users", h.reviewPhotographer))

	screens.Handle("GET /orders", gate("orders", h.ordersPage))
	screens.Handle("GET /orders/export", gate("orders", h.exportOrders))
	screens.Handle("GET /orders/{id}", gate("orders", h.orderDetailPage))
	screens.Handle("POST /orders/{id}/freeze", gate("orders", h.freezeOrder))

	screens.Handle("GET /disputes", gate("disputes", h.disputesPage))
	screens.Handle("GET /disputes/{id}", gate("disputes", h.disputeDetailPage))
	screens.Handle("POST /disputes/{id}/resolve", gate("disputes", h.resolveDispute))

	screens.Handle("GET /content", gate("content", h.contentPage))
	screens.Handle("POST /content/{id}/review", gate("content", h.reviewPortfolio))

	screens.Handle("GET /audit", gate("audit", h.auditPage))
	screens.Handle("POST /audit", gate("audit", h.createAudit))

	screens.Handle("GET /ops", gate("ops", h.opsPage))
	screens.Handle("POST /ops/settings", gate("ops", h.saveSettings))
	screens.Handle("POST /ops/approvals/{id}/review", gate("ops", h.reviewMerchantApproval))

	screens.HandleFunc("/", h.notFound)

	outer := RoleGate(h.store, h.deniedHandler(""), ConsoleRoles...)(screens)
	mux.Handle("/", AuthGate(h.store)(outer))

	return cspMiddleware(csrfMiddleware(h.secure)(mux))
}

// deniedHandler renders the access-denied view with 403 at the requested URL.
func (h *Handler) deniedHandler(screen string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics != nil {
			label := screen
			if label == "" {
				label = "console"
			}
			h.metrics.AccessDenied.WithLabelValues(label).Inc()
		}
		httpadapter.LoggerFromContext(r.Context()).Info("access denied",
			"path", r.URL.Path, "roles", h.store.Roles(r.Context()))
		h.render(w, r, http.StatusForbidden, "denied", "Access denied", screen, nil)
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", "Not found", "", nil)
}
