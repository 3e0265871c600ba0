package console

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// pageQuery reads page and page_size with the shared defaults and bounds.
func pageQuery(q url.Values, prefix string) (int, int) {
	page, _ := strconv.Atoi(q.Get(prefix + "page"))
	size, _ := strconv.Atoi(q.Get(prefix + "page_size"))
	return admin.NormalizePage(page, size)
}

// choice returns the query value when it is one of opts. "all", empty and
// unknown values mean no filter.
func choice(q url.Values, key string, opts []admin.Option) string {
	v := strings.TrimSpace(q.Get(key))
	if admin.ValidOption(opts, v) {
		return v
	}
	return ""
}

// text returns a trimmed free-text filter.
func text(q url.Values, key string) string {
	v := strings.TrimSpace(q.Get(key))
	if v == admin.AllFilter {
		return ""
	}
	return v
}

// positiveID parses a positive integer, 0 when absent or malformed.
func positiveID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// pathID reads the {id} wildcard.
func pathID(r *http.Request) (int64, bool) {
	id := positiveID(r.PathValue("id"))
	return id, id > 0
}

// listURL builds path?query, dropping empty values, zero ids and pages, and
// first-page defaults.
func listURL(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		k, v := kv[i], kv[i+1]
		if v == "" || (v == "0" && numericKey(k)) {
			continue
		}
		if strings.HasSuffix(k, "page") && v == "1" {
			continue
		}
		if strings.HasSuffix(k, "page_size") && v == strconv.Itoa(admin.DefaultPageSize) {
			continue
		}
		q.Set(k, v)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func numericKey(k string) bool {
	return strings.HasSuffix(k, "_id") || strings.HasSuffix(k, "page") || strings.HasSuffix(k, "page_size")
}

func itoa(n int) string     { return strconv.Itoa(n) }
func i64toa(n int64) string { return strconv.FormatInt(n, 10) }

// pager is the pagination bar under a list.
type pager struct {
	Page    int
	Pages   int
	Total   int
	PrevURL string
	NextURL string
}

// newPager builds the bar; link returns the URL of a given page.
func newPager[T any](p *admin.Page[T], page int, link func(page int) string) pager {
	pg := pager{Page: page, Pages: 1}
	if p != nil {
		pg.Pages = p.Pages()
		pg.Total = p.Total
	}
	if page > 1 {
		pg.PrevURL = link(page - 1)
	}
	if page < pg.Pages {
		pg.NextURL = link(page + 1)
	}
	return pg
}

func usersURL(f admin.UserFilter) string {
	return listURL("/users", "keyword", f.Keyword, "role", f.Role, "status", f.Status,
		"page", itoa(f.Page), "page_size", itoa(f.PageSize))
}

func ordersURL(f admin.OrderFilter) string {
	return listURL("/orders", "status", f.Status, "page", itoa(f.Page), "page_size", itoa(f.PageSize))
}

func disputesURL(f admin.StatusFilter) string {
	return listURL("/disputes", "status", f.Status, "page", itoa(f.Page), "page_size", itoa(f.PageSize))
}

func contentURL(f admin.PortfolioFilter) string {
	return listURL("/content", "status", f.Status, "photographer_id", i64toa(f.PhotographerID),
		"page", itoa(f.Page), "page_size", itoa(f.PageSize))
}

func auditURL(f admin.AuditFilter) string {
	return listURL("/audit", "action", f.Action, "page", itoa(f.Page), "page_size", itoa(f.PageSize))
}

func opsURL(approvals admin.StatusFilter, templates admin.TemplateFilter) string {
	return listURL("/ops",
		"approval_status", approvals.Status, "approval_page", itoa(approvals.Page), "approval_page_size", itoa(approvals.PageSize),
		"merchant_id", i64toa(templates.MerchantID), "template_page", itoa(templates.Page), "template_page_size", itoa(templates.PageSize))
}
