package console

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

type contentBody struct {
	Filter        admin.PortfolioFilter
	Portfolios    []admin.Portfolio
	Pager         pager
	StatusOptions []admin.Option
}

func (h *Handler) contentPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := admin.PortfolioFilter{
		Status:         choice(q, "status", admin.ReviewStatusOptions),
		PhotographerID: positiveID(q.Get("photographer_id")),
	}
	f.Page, f.PageSize = pageQuery(q, "")

	page, flash, answered := load(h, w, r, "content", h.views.content, f, h.api.ListPortfolios)
	if answered {
		return
	}

	body := contentBody{
		Filter:        f,
		StatusOptions: admin.ReviewStatusOptions,
		Pager: newPager(page, f.Page, func(p int) string {
			g := f
			g.Page = p
			return contentURL(g)
		}),
	}
	if page != nil {
		body.Portfolios = page.Items
	}
	h.renderFlash(w, r, http.StatusOK, "content", "Content review", "content", body, flash)
}

func (h *Handler) reviewPortfolio(w http.ResponseWriter, r *http.Request) {
	back := contentURL(h.views.content.Params())
	id, ok := pathID(r)
	if !ok {
		h.afterMutation(w, r, invalidForm("Unknown portfolio."), "", back)
		return
	}
	status, err := reviewStatus(r.PostFormValue("status"))
	if err != nil {
		h.afterMutation(w, r, err, "", back)
		return
	}

	req := admin.ReviewRequest{Status: status, Comment: strings.TrimSpace(r.PostFormValue("comment"))}
	_, err = h.api.ReviewPortfolio(r.Context(), id, req)
	h.afterMutation(w, r, err, fmt.Sprintf("Portfolio %d %s.", id, status), back)
}
