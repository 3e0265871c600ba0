// Package outbound defines the outbound port interfaces for reaching the
// marketplace backend.
package outbound

import (
	"context"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// AuthAPI is the outbound port for the login flow.
type AuthAPI interface {
	// SendCode asks the backend to send a verification code to phone.
	SendCode(ctx context.Context, phone string) (*admin.SendCodeResponse, error)
	// Login exchanges phone and code for a token, principal and roles.
	Login(ctx context.Context, phone, code string) (*admin.LoginResponse, error)
}

// AdminAPI is the outbound port for the back-office endpoints.
// The backend adapter implements it; every call carries the operator's
// session and may fail with an unauthorized, request-failed or transport error.
type AdminAPI interface {
	AuthAPI

	Metrics(ctx context.Context, days int) (*admin.Metrics, error)
	Trends(ctx context.Context, days int) (*admin.Trends, error)

	ListUsers(ctx context.Context, f admin.UserFilter) (*admin.Page[admin.User], error)
	ReviewPhotographer(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error)

	ListOrders(ctx context.Context, f admin.OrderFilter) (*admin.Page[admin.Order], error)
	GetOrder(ctx context.Context, id int64) (*admin.OrderDetail, error)
	FreezeOrder(ctx context.Context, id int64, reason string) (*admin.StatusResponse, error)
	OrdersReport(ctx context.Context, f admin.ReportFilter) (*admin.OrderReport, error)

	ListDisputes(ctx context.Context, f admin.StatusFilter) (*admin.Page[admin.Dispute], error)
	GetDispute(ctx context.Context, id int64) (*admin.DisputeDetail, error)
	ResolveDispute(ctx context.Context, id int64, req admin.ResolveDisputeRequest) (*admin.StatusResponse, error)

	ListPortfolios(ctx context.Context, f admin.PortfolioFilter) (*admin.Page[admin.Portfolio], error)
	ReviewPortfolio(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error)

	ListAudits(ctx context.Context, f admin.AuditFilter) (*admin.Page[admin.AuditEntry], error)
	CreateAudit(ctx context.Context, req admin.CreateAuditRequest) error

	GetConfig(ctx context.Context, key string) (*admin.Config, error)
	UpdateConfig(ctx context.Context, key string, value []byte) (*admin.Config, error)
	ListMerchantApprovals(ctx context.Context, f admin.StatusFilter) (*admin.Page[admin.MerchantApproval], error)
	ReviewMerchantApproval(ctx context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error)
	ListMerchantTemplates(ctx context.Context, f admin.TemplateFilter) (*admin.Page[admin.MerchantTemplate], error)
}
