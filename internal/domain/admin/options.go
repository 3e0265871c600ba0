package admin

// Option is a selectable filter value with its display label.
type Option struct {
	Value string
	Label string
}

var allOption = Option{Value: AllFilter, Label: "All"}

// Filter choices offered by the list screens.
var (
	UserRoleOptions = []Option{allOption,
		{"user", "User"}, {"photographer", "Photographer"}, {"merchant", "Merchant"}}
	UserStatusOptions = []Option{allOption,
		{"active", "Active"}, {"pending", "Pending review"}, {"verified", "Verified"}}
	OrderStatusOptions = []Option{allOption,
		{"confirmed", "Confirmed"}, {"paid", "Paid"}, {"ongoing", "Ongoing"},
		{"completed", "Completed"}, {"reviewed", "Reviewed"}, {"frozen", "Frozen"}}
	DisputeStatusOptions = []Option{allOption,
		{"submitted", "Submitted"}, {"processing", "Processing"},
		{"resolved", "Resolved"}, {"rejected", "Rejected"}}
	ReviewStatusOptions = []Option{allOption,
		{"pending", "Pending"}, {"approved", "Approved"}, {"rejected", "Rejected"}}
	// ResolveStatusOptions are the outcomes an operator may set on a dispute.
	ResolveStatusOptions = []Option{
		{"processing", "Processing"}, {"resolved", "Resolved"}, {"rejected", "Rejected"}}
	DisputePriorityOptions = []Option{
		{"low", "Low"}, {"medium", "Medium"}, {"high", "High"}}
)

// Outcomes accepted by the review and resolve endpoints.
const (
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusResolved   = "resolved"
	StatusProcessing = "processing"
)

// ValidOption reports whether value is one of opts, ignoring the "all" entry.
func ValidOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value && o.Value != AllFilter {
			return true
		}
	}
	return false
}
