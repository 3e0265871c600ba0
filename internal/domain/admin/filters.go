package admin

// UserFilter narrows the user list.
type UserFilter struct {
	Keyword  string
	Role     string
	Status   string
	Page     int
	PageSize int
}

// OrderFilter narrows the order list.
type OrderFilter struct {
	Status   string
	Page     int
	PageSize int
}

// ReportFilter selects orders for an export.
type ReportFilter struct {
	StartDate string
	EndDate   string
	Status    string
	Limit     int
	Format    string
}

// StatusFilter narrows lists that filter on status only.
type StatusFilter struct {
	Status   string
	Page     int
	PageSize int
}

// PortfolioFilter narrows the portfolio review queue.
type PortfolioFilter struct {
	Status         string
	PhotographerID int64
	Page           int
	PageSize       int
}

// AuditFilter narrows the audit log.
type AuditFilter struct {
	Action   string
	Page     int
	PageSize int
}

// TemplateFilter narrows the merchant template list.
type TemplateFilter struct {
	MerchantID int64
	Page       int
	PageSize   int
}
