package console

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/service"
)

// views holds the last good data of every screen.
type views struct {
	set service.ViewSet

	dashboard *service.View[struct{}, *service.Dashboard]
	users     *service.View[admin.UserFilter, *admin.Page[admin.User]]
	orders    *service.View[admin.OrderFilter, *admin.Page[admin.Order]]
	disputes  *service.View[admin.StatusFilter, *admin.Page[admin.Dispute]]
	content   *service.View[admin.PortfolioFilter, *admin.Page[admin.Portfolio]]
	audit     *service.View[admin.AuditFilter, *admin.Page[admin.AuditEntry]]
	settings  *service.View[struct{}, service.Settings]
	approvals *service.View[admin.StatusFilter, *admin.Page[admin.MerchantApproval]]
	templates *service.View[admin.TemplateFilter, *admin.Page[admin.MerchantTemplate]]
}

func newViews() *views {
	v := &views{
		dashboard: service.NewView[struct{}, *service.Dashboard](),
		users:     service.NewView[admin.UserFilter, *admin.Page[admin.User]](),
		orders:    service.NewView[admin.OrderFilter, *admin.Page[admin.Order]](),
		disputes:  service.NewView[admin.StatusFilter, *admin.Page[admin.Dispute]](),
		content:   service.NewView[admin.PortfolioFilter, *admin.Page[admin.Portfolio]](),
		audit:     service.NewView[admin.AuditFilter, *admin.Page[admin.AuditEntry]](),
		settings:  service.NewView[struct{}, service.Settings](),
		approvals: service.NewView[admin.StatusFilter, *admin.Page[admin.MerchantApproval]](),
		templates: service.NewView[admin.TemplateFilter, *admin.Page[admin.MerchantTemplate]](),
	}
	v.set.Add(v.dashboard)
	v.set.Add(v.users)
	v.set.Add(v.orders)
	v.set.Add(v.disputes)
	v.set.Add(v.content)
	v.set.Add(v.audit)
	v.set.Add(v.settings)
	v.set.Add(v.approvals)
	v.set.Add(v.templates)
	return v
}

// load runs fetch through view v and records the outcome. On failure the
// returned data is the view's prior data and the error is handled: a 401
// redirects to the login page (answered is true), anything else becomes an
// error flash for the caller to render.
func load[P, T any](h *Handler, w http.ResponseWriter, r *http.Request, name string, v *service.View[P, T], params P, fetch func(context.Context, P) (T, error)) (data T, flash *Flash, answered bool) {
	res := service.Load(v, params, func(p P) (T, error) {
		return fetch(r.Context(), p)
	})
	h.recordLoad(r.Context(), name, res.Err, res.Applied)
	if res.Err != nil {
		if h.failed(w, r, res.Err, r.URL.RequestURI()) {
			return res.Data, nil, true
		}
		return res.Data, &Flash{Kind: FlashError, Message: errorMessage(res.Err)}, false
	}
	return res.Data, nil, false
}

func (h *Handler) recordLoad(ctx context.Context, view string, err error, applied bool) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case !applied:
		outcome = "superseded"
	}
	h.viewLoads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("view", view),
		attribute.String("outcome", outcome),
	))
}
