package console

import (
	"net/http"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

type usersBody struct {
	Filter        admin.UserFilter
	Users         []admin.User
	Pager         pager
	RoleOptions   []admin.Option
	StatusOptions []admin.Option
}

func (h *Handler) usersPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := admin.UserFilter{
		Keyword: text(q, "keyword"),
		Role:    choice(q, "role", admin.UserRoleOptions),
		Status:  choice(q, "status", admin.UserStatusOptions),
	}
	f.Page, f.PageSize = pageQuery(q, "")

	page, flash, answered := load(h, w, r, "users", h.views.users, f, h.api.ListUsers)
	if answered {
		return
	}

	body := usersBody{
		Filter:        f,
		RoleOptions:   admin.UserRoleOptions,
		StatusOptions: admin.UserStatusOptions,
		Pager: newPager(page, f.Page, func(p int) string {
			g := f
			g.Page = p
			return usersURL(g)
		}),
	}
	if page != nil {
		body.Users = page.Items
	}
	h.renderFlash(w, r, http.StatusOK, "users", "Users", "users", body, flash)
}

// reviewPhotographer approves or rejects a photographer application, then
// returns to the user list with its current filters.
func (h *Handler) reviewPhotographer(w http.ResponseWriter, r *http.Request) {
	back := usersURL(h.views.users.Params())
	id, ok := pathID(r)
	if !ok {
		h.afterMutation(w, r, invalidForm("Unknown photographer."), "", back)
		return
	}
	status, err := reviewStatus(r.PostFormValue("status"))
	if err != nil {
		h.afterMutation(w, r, err, "", back)
		return
	}

	_, err = h.api.ReviewPhotographer(r.Context(), id, admin.ReviewRequest{Status: status})
	h.afterMutation(w, r, err, "Photographer "+status+".", back)
}

// reviewStatus accepts the two review outcomes.
func reviewStatus(s string) (string, error) {
	switch s {
	case admin.StatusApproved, admin.StatusRejected:
		return s, nil
	}
	return "", invalidForm("Choose approve or reject.")
}
