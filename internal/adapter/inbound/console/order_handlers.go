package console

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// exportLimit caps the rows of one CSV export.
const exportLimit = 500

type ordersBody struct {
	Filter        admin.OrderFilter
	Orders        []admin.Order
	Pager         pager
	StatusOptions []admin.Option
}

type orderDetailBody struct {
	Order *admin.OrderDetail
}

func (h *Handler) ordersPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := admin.OrderFilter{Status: choice(q, "status", admin.OrderStatusOptions)}
	f.Page, f.PageSize = pageQuery(q, "")

	page, flash, answered := load(h, w, r, "orders", h.views.orders, f, h.api.ListOrders)
	if answered {
		return
	}

	body := ordersBody{
		Filter:        f,
		StatusOptions: admin.OrderStatusOptions,
		Pager: newPager(page, f.Page, func(p int) string {
			g := f
			g.Page = p
			return ordersURL(g)
		}),
	}
	if page != nil {
		body.Orders = page.Items
	}
	h.renderFlash(w, r, http.StatusOK, "orders", "Orders", "orders", body, flash)
}

func (h *Handler) orderDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	order, err := h.api.GetOrder(r.Context(), id)
	if err != nil {
		if h.failed(w, r, err, r.URL.RequestURI()) {
			return
		}
		h.renderFlash(w, r, http.StatusOK, "order", fmt.Sprintf("Order %d", id), "orders",
			orderDetailBody{}, &Flash{Kind: FlashError, Message: errorMessage(err)})
		return
	}
	h.render(w, r, http.StatusOK, "order", fmt.Sprintf("Order %d", id), "orders", orderDetailBody{Order: order})
}

// freezeOrder freezes an order and returns to where the form was posted from.
func (h *Handler) freezeOrder(w http.ResponseWriter, r *http.Request) {
	back := ordersURL(h.views.orders.Params())
	id, ok := pathID(r)
	if !ok {
		h.afterMutation(w, r, invalidForm("Unknown order."), "", back)
		return
	}
	if r.PostFormValue("from") == "detail" {
		back = fmt.Sprintf("/orders/%d", id)
	}

	reason := strings.TrimSpace(r.PostFormValue("reason"))
	_, err := h.api.FreezeOrder(r.Context(), id, reason)
	h.afterMutation(w, r, err, fmt.Sprintf("Order %d frozen.", id), back)
}

// exportOrders downloads the orders report as CSV. The status and date range
// come from the query; dates are YYYY-MM-DD.
func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	back := ordersURL(h.views.orders.Params())

	f := admin.ReportFilter{
		Status: choice(q, "status", admin.OrderStatusOptions),
		Limit:  exportLimit,
		Format: "csv",
	}
	start, end := strings.TrimSpace(q.Get("start_date")), strings.TrimSpace(q.Get("end_date"))
	if start != "" || end != "" {
		if !validDate(start) || !validDate(end) || end < start {
			h.afterMutation(w, r, invalidForm("Enter a start and end date (YYYY-MM-DD)."), "", back)
			return
		}
		f.StartDate, f.EndDate = start, end
	}

	report, err := h.api.OrdersReport(r.Context(), f)
	if err != nil {
		h.afterMutation(w, r, err, "", back)
		return
	}
	if report.CSV == nil || *report.CSV == "" {
		setFlash(w, FlashWarning, "Nothing to export.", h.secure)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	name := fmt.Sprintf("orders_report_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write([]byte(*report.CSV)); err != nil {
		httpadapter.LoggerFromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
