package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/port/outbound"
)

var _ outbound.AdminAPI = (*Client)(nil)

// --- auth ---

// SendCode requests a verification code for phone.
func (c *Client) SendCode(ctx context.Context, phone string) (*admin.SendCodeResponse, error) {
	var resp admin.SendCodeResponse
	if err := c.Post(ctx, "/auth/code", admin.SendCodeRequest{Phone: phone}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges phone and code for a token, principal and roles.
func (c *Client) Login(ctx context.Context, phone, code string) (*admin.LoginResponse, error) {
	var resp admin.LoginResponse
	if err := c.Post(ctx, "/auth/login", admin.LoginRequest{Phone: phone, Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- dashboard ---

func (c *Client) Metrics(ctx context.Context, days int) (*admin.Metrics, error) {
	var m admin.Metrics
	path := NewQuery().SetInt("days", int64(days)).Path("/admin/metrics")
	if err := c.Get(ctx, path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Trends(ctx context.Context, days int) (*admin.Trends, error) {
	var t admin.Trends
	path := NewQuery().SetInt("days", int64(days)).Path("/admin/metrics/trends")
	if err := c.Get(ctx, path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// --- users ---

func (c *Client) ListUsers(ctx context.Context, f admin.UserFilter) (*admin.Page[admin.User], error) {
	var page admin.Page[admin.User]
	path := NewQuery().
		Set("keyword", f.Keyword).
		Set("role", f.Role).
		Set("status", f.Status).
		Page(f.Page, f.PageSize).
		Path("/admin/users")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ReviewPhotographer approves or rejects a photographer application.
func (c *Client) ReviewPhotographer(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	var resp admin.StatusResponse
	if err := c.Post(ctx, idPath("/admin/photographers/%s/review", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- orders ---

func (c *Client) ListOrders(ctx context.Context, f admin.OrderFilter) (*admin.Page[admin.Order], error) {
	var page admin.Page[admin.Order]
	path := NewQuery().Set("status", f.Status).Page(f.Page, f.PageSize).Path("/admin/orders")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*admin.OrderDetail, error) {
	var o admin.OrderDetail
	if err := c.Get(ctx, idPath("/admin/orders/%s", id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) FreezeOrder(ctx context.Context, id int64, reason string) (*admin.StatusResponse, error) {
	var resp admin.StatusResponse
	if err := c.Post(ctx, idPath("/admin/orders/%s/freeze", id), admin.FreezeRequest{Reason: reason}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) OrdersReport(ctx context.Context, f admin.ReportFilter) (*admin.OrderReport, error) {
	var r admin.OrderReport
	path := NewQuery().
		Set("start_date", f.StartDate).
		Set("end_date", f.EndDate).
		Set("status", f.Status).
		SetInt("limit", int64(f.Limit)).
		Set("format", f.Format).
		Path("/admin/reports/orders")
	if err := c.Get(ctx, path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// --- disputes ---

func (c *Client) ListDisputes(ctx context.Context, f admin.StatusFilter) (*admin.Page[admin.Dispute], error) {
	var page admin.Page[admin.Dispute]
	path := NewQuery().Set("status", f.Status).Page(f.Page, f.PageSize).Path("/admin/disputes")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetDispute(ctx context.Context, id int64) (*admin.DisputeDetail, error) {
	var d admin.DisputeDetail
	if err := c.Get(ctx, idPath("/admin/disputes/%s", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) ResolveDispute(ctx context.Context, id int64, req admin.ResolveDisputeRequest) (*admin.StatusResponse, error) {
	var resp admin.StatusResponse
	if err := c.Post(ctx, idPath("/admin/disputes/%s/resolve", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- content ---

func (c *Client) ListPortfolios(ctx context.Context, f admin.PortfolioFilter) (*admin.Page[admin.Portfolio], error) {
	var page admin.Page[admin.Portfolio]
	path := NewQuery().
		Set("status", f.Status).
		SetInt("photographer_id", f.PhotographerID).
		Page(f.Page, f.PageSize).
		Path("/admin/portfolios")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) ReviewPortfolio(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	var resp admin.StatusResponse
	if err := c.Post(ctx, idPath("/admin/portfolios/%s/review", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- audit ---

func (c *Client) ListAudits(ctx context.Context, f admin.AuditFilter) (*admin.Page[admin.AuditEntry], error) {
	var page admin.Page[admin.AuditEntry]
	path := NewQuery().Set("action", f.Action).Page(f.Page, f.PageSize).Path("/admin/audits")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateAudit(ctx context.Context, req admin.CreateAuditRequest) error {
	return c.Post(ctx, "/admin/audits", req, nil)
}

// --- ops ---

func (c *Client) GetConfig(ctx context.Context, key string) (*admin.Config, error) {
	var cfg admin.Config
	if err := c.Get(ctx, "/admin/configs/"+url.PathEscape(key), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig replaces a setting. value must be valid JSON.
func (c *Client) UpdateConfig(ctx context.Context, key string, value []byte) (*admin.Config, error) {
	var cfg admin.Config
	if err := c.Put(ctx, "/admin/configs/"+url.PathEscape(key), admin.UpdateConfigRequest{Value: value}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) ListMerchantApprovals(ctx context.Context, f admin.StatusFilter) (*admin.Page[admin.MerchantApproval], error) {
	var page admin.Page[admin.MerchantApproval]
	path := NewQuery().Set("status", f.Status).Page(f.Page, f.PageSize).Path("/admin/merchant-approvals")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) ReviewMerchantApproval(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	var resp admin.StatusResponse
	if err := c.Post(ctx, idPath("/admin/merchant-approvals/%s/review", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListMerchantTemplates(ctx context.Context, f admin.TemplateFilter) (*admin.Page[admin.MerchantTemplate], error) {
	var page admin.Page[admin.MerchantTemplate]
	path := NewQuery().SetInt("merchant_id", f.MerchantID).Page(f.Page, f.PageSize).Path("/admin/merchant-templates")
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}
