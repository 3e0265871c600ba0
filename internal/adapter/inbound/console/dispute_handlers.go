package console

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// defaultResolution is used by the quick-resolve action on the list.
const defaultResolution = "Under review by operations."

type disputesBody struct {
	Filter            admin.StatusFilter
	Disputes          []admin.Dispute
	Pager             pager
	StatusOptions     []admin.Option
	DefaultResolution string
}

type disputeDetailBody struct {
	Dispute         *admin.DisputeDetail
	ResolveStatuses []admin.Option
}

func (h *Handler) disputesPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := admin.StatusFilter{Status: choice(q, "status", admin.DisputeStatusOptions)}
	f.Page, f.PageSize = pageQuery(q, "")

	page, flash, answered := load(h, w, r, "disputes", h.views.disputes, f, h.api.ListDisputes)
	if answered {
		return
	}

	body := disputesBody{
		Filter:            f,
		StatusOptions:     admin.DisputeStatusOptions,
		DefaultResolution: defaultResolution,
		Pager: newPager(page, f.Page, func(p int) string {
			g := f
			g.Page = p
			return disputesURL(g)
		}),
	}
	if page != nil {
		body.Disputes = page.Items
	}
	h.renderFlash(w, r, http.StatusOK, "disputes", "Disputes", "disputes", body, flash)
}

func (h *Handler) disputeDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	title := fmt.Sprintf("Dispute %d", id)
	d, err := h.api.GetDispute(r.Context(), id)
	if err != nil {
		if h.failed(w, r, err, r.URL.RequestURI()) {
			return
		}
		h.renderFlash(w, r, http.StatusOK, "dispute", title, "disputes",
			disputeDetailBody{ResolveStatuses: admin.ResolveStatusOptions}, &Flash{Kind: FlashError, Message: errorMessage(err)})
		return
	}
	h.render(w, r, http.StatusOK, "dispute", title, "disputes",
		disputeDetailBody{Dispute: d, ResolveStatuses: admin.ResolveStatusOptions})
}

// resolveDispute records a resolution. Without a status the backend keeps its
// own default.
func (h *Handler) resolveDispute(w http.ResponseWriter, r *http.Request) {
	back := disputesURL(h.views.disputes.Params())
	id, ok := pathID(r)
	if !ok {
		h.afterMutation(w, r, invalidForm("Unknown dispute."), "", back)
		return
	}
	if r.PostFormValue("from") == "detail" {
		back = fmt.Sprintf("/disputes/%d", id)
	}

	req := admin.ResolveDisputeRequest{Resolution: strings.TrimSpace(r.PostFormValue("resolution"))}
	if req.Resolution == "" {
		h.afterMutation(w, r, invalidForm("Describe the resolution."), "", back)
		return
	}
	if status := r.PostFormValue("status"); status != "" {
		if !admin.ValidOption(admin.ResolveStatusOptions, status) {
			h.afterMutation(w, r, invalidForm("Unknown dispute status."), "", back)
			return
		}
		req.Status = status
	}

	_, err := h.api.ResolveDispute(r.Context(), id, req)
	h.afterMutation(w, r, err, fmt.Sprintf("Dispute %d updated.", id), back)
}
