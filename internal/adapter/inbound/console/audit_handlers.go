package console

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

type auditBody struct {
	Filter  admin.AuditFilter
	Entries []admin.AuditEntry
	Pager   pager
}

func (h *Handler) auditPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := admin.AuditFilter{Action: text(q, "action")}
	f.Page, f.PageSize = pageQuery(q, "")

	page, flash, answered := load(h, w, r, "audit", h.views.audit, f, h.api.ListAudits)
	if answered {
		return
	}

	body := auditBody{
		Filter: f,
		Pager: newPager(page, f.Page, func(p int) string {
			g := f
			g.Page = p
			return auditURL(g)
		}),
	}
	if page != nil {
		body.Entries = page.Items
	}
	h.renderFlash(w, r, http.StatusOK, "audit", "Audit log", "audit", body, flash)
}

// createAudit records a manual audit entry. Detail, when given, must be JSON.
func (h *Handler) createAudit(w http.ResponseWriter, r *http.Request) {
	back := auditURL(h.views.audit.Params())

	req := admin.CreateAuditRequest{
		Action:     strings.TrimSpace(r.PostFormValue("action")),
		TargetType: strings.TrimSpace(r.PostFormValue("target_type")),
	}
	if req.Action == "" {
		h.afterMutation(w, r, invalidForm("Action is required."), "", back)
		return
	}
	if raw := strings.TrimSpace(r.PostFormValue("target_id")); raw != "" {
		id := positiveID(raw)
		if id == 0 {
			h.afterMutation(w, r, invalidForm("Target ID must be a positive number."), "", back)
			return
		}
		req.TargetID = &id
	}
	if detail := strings.TrimSpace(r.PostFormValue("detail")); detail != "" {
		if !json.Valid([]byte(detail)) {
			h.afterMutation(w, r, invalidForm("Detail must be valid JSON."), "", back)
			return
		}
		req.Detail = json.RawMessage(detail)
	}

	err := h.api.CreateAudit(r.Context(), req)
	h.afterMutation(w, r, err, "Audit entry recorded.", back)
}
