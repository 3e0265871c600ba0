package console

import (
	"context"
	"net/http"

	"github.com/snapbook/opsconsole/internal/service"
)

type dashboardBody struct {
	Days int
	*service.Dashboard
}

func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	d, flash, answered := load(h, w, r, "dashboard", h.views.dashboard, struct{}{},
		func(ctx context.Context, _ struct{}) (*service.Dashboard, error) {
			return h.dashboard.Load(ctx)
		})
	if answered {
		return
	}
	if d == nil {
		d = &service.Dashboard{}
	}
	h.renderFlash(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard",
		dashboardBody{Days: service.DashboardDays, Dashboard: d}, flash)
}
