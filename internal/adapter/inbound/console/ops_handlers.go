package console

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/service"
)

type opsBody struct {
	Settings        service.Settings
	PriorityOptions []admin.Option
	ApprovalFilter  admin.StatusFilter
	Approvals       []admin.MerchantApproval
	ApprovalPager   pager
	ApprovalOptions []admin.Option
	TemplateFilter  admin.TemplateFilter
	Templates       []admin.MerchantTemplate
	TemplatePager   pager
}

// opsPage shows platform settings, the merchant approval queue and the
// merchant templates. The three loads run concurrently.
func (h *Handler) opsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	af := admin.StatusFilter{Status: choice(q, "approval_status", admin.ReviewStatusOptions)}
	af.Page, af.PageSize = pageQuery(q, "approval_")
	tf := admin.TemplateFilter{MerchantID: positiveID(q.Get("merchant_id"))}
	tf.Page, tf.PageSize = pageQuery(q, "template_")

	ctx := r.Context()
	var (
		settings  service.LoadResult[service.Settings]
		approvals service.LoadResult[*admin.Page[admin.MerchantApproval]]
		templates service.LoadResult[*admin.Page[admin.MerchantTemplate]]
	)
	p := pool.New()
	p.Go(func() {
		settings = service.Load(h.views.settings, struct{}{}, func(struct{}) (service.Settings, error) {
			return h.settings.Load(ctx)
		})
	})
	p.Go(func() {
		approvals = service.Load(h.views.approvals, af, func(f admin.StatusFilter) (*admin.Page[admin.MerchantApproval], error) {
			return h.api.ListMerchantApprovals(ctx, f)
		})
	})
	p.Go(func() {
		templates = service.Load(h.views.templates, tf, func(f admin.TemplateFilter) (*admin.Page[admin.MerchantTemplate], error) {
			return h.api.ListMerchantTemplates(ctx, f)
		})
	})
	p.Wait()

	h.recordLoad(ctx, "settings", settings.Err, settings.Applied)
	h.recordLoad(ctx, "approvals", approvals.Err, approvals.Applied)
	h.recordLoad(ctx, "templates", templates.Err, templates.Applied)

	var flash *Flash
	for _, err := range []error{settings.Err, approvals.Err, templates.Err} {
		if err == nil {
			continue
		}
		if h.failed(w, r, err, r.URL.RequestURI()) {
			return
		}
		if flash == nil {
			flash = &Flash{Kind: FlashError, Message: errorMessage(err)}
		}
	}

	body := opsBody{
		Settings:        settings.Data,
		PriorityOptions: admin.DisputePriorityOptions,
		ApprovalFilter:  af,
		ApprovalOptions: admin.ReviewStatusOptions,
		TemplateFilter:  tf,
		ApprovalPager: newPager(approvals.Data, af.Page, func(p int) string {
			g := af
			g.Page = p
			return opsURL(g, tf)
		}),
		TemplatePager: newPager(templates.Data, tf.Page, func(p int) string {
			g := tf
			g.Page = p
			return opsURL(af, g)
		}),
	}
	if approvals.Data != nil {
		body.Approvals = approvals.Data.Items
	}
	if templates.Data != nil {
		body.Templates = templates.Data.Items
	}
	h.renderFlash(w, r, http.StatusOK, "ops", "Operations", "ops", body, flash)
}

func (h *Handler) opsBack() string {
	return opsURL(h.views.approvals.Params(), h.views.templates.Params())
}

// saveSettings writes every platform setting from the form.
func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	in := service.Settings{
		AutoCancelHours:   r.PostFormValue("auto_cancel_hours"),
		RefundPenaltyRate: r.PostFormValue("refund_penalty_rate"),
		DisputePriority:   r.PostFormValue("dispute_priority"),
		DemandTags:        r.PostFormValue("demand_tags"),
		PhotographerTags:  r.PostFormValue("photographer_tags"),
		RecommendSlots:    r.PostFormValue("recommend_slots"),
		ActivityBanners:   r.PostFormValue("activity_banners"),
	}
	if in.DisputePriority != "" && !admin.ValidOption(admin.DisputePriorityOptions, in.DisputePriority) {
		h.afterMutation(w, r, invalidForm("Unknown dispute priority."), "", h.opsBack())
		return
	}

	err := h.settings.Save(r.Context(), in)
	h.afterMutation(w, r, err, "Settings saved.", h.opsBack())
}

func (h *Handler) reviewMerchantApproval(w http.ResponseWriter, r *http.Request) {
	back := h.opsBack()
	id, ok := pathID(r)
	if !ok {
		h.afterMutation(w, r, invalidForm("Unknown approval."), "", back)
		return
	}
	status, err := reviewStatus(r.PostFormValue("status"))
	if err != nil {
		h.afterMutation(w, r, err, "", back)
		return
	}

	req := admin.ReviewRequest{Status: status, Comment: strings.TrimSpace(r.PostFormValue("comment"))}
	_, err = h.api.ReviewMerchantApproval(r.Context(), id, req)
	h.afterMutation(w, r, err, fmt.Sprintf("Approval %d %s.", id, status), back)
}
