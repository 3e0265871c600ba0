// Package admin defines the marketplace back-office resources the console
// reads and mutates.
package admin

import (
	"encoding/json"

	"github.com/snapbook/opsconsole/internal/domain/session"
)

// --- auth ---

// SendCodeRequest asks the backend to text a verification code.
type SendCodeRequest struct {
	Phone string `json:"phone"`
}

// SendCodeResponse carries the code's expiry.
type SendCodeResponse struct {
	ExpiredAt string `json:"expired_at"`
}

// LoginRequest exchanges phone and code for a session.
type LoginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// LoginResponse is the login payload.
type LoginResponse struct {
	Token string             `json:"token"`
	User  *session.Principal `json:"user,omitempty"`
	Roles []string           `json:"roles"`
}

// --- users ---

type User struct {
	ID                 int64   `json:"id"`
	Phone              string  `json:"phone"`
	Status             string  `json:"status"`
	Role               string  `json:"role"`
	Nickname           *string `json:"nickname,omitempty"`
	CityID             *int64  `json:"city_id,omitempty"`
	UpdatedAt          string  `json:"updated_at"`
	PhotographerID     *int64  `json:"photographer_id,omitempty"`
	PhotographerStatus *string `json:"photographer_status,omitempty"`
}

// ReviewRequest is the body of every approve/reject endpoint.
type ReviewRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// StatusResponse is returned by review and freeze endpoints.
type StatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// --- orders ---

type Order struct {
	ID                int64   `json:"id"`
	UserID            int64   `json:"user_id"`
	UserPhone         *string `json:"user_phone,omitempty"`
	PhotographerID    *int64  `json:"photographer_id,omitempty"`
	PhotographerPhone *string `json:"photographer_phone,omitempty"`
	Status            string  `json:"status"`
	PayType           string  `json:"pay_type"`
	TotalAmount       float64 `json:"total_amount"`
	CreatedAt         string  `json:"created_at"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Payment struct {
	ID         int64   `json:"id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	PayChannel string  `json:"pay_channel"`
	PaidAt     *string `json:"paid_at,omitempty"`
	ProofURL   *string `json:"proof_url,omitempty"`
}

type Refund struct {
	ID        int64   `json:"id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Reason    *string `json:"reason,omitempty"`
	ProofURL  *string `json:"proof_url,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type DeliveryItem struct {
	ID      int64   `json:"id"`
	FileURL string  `json:"file_url"`
	Version *string `json:"version,omitempty"`
	Note    *string `json:"note,omitempty"`
}

type Delivery struct {
	ID          int64          `json:"id"`
	Status      string         `json:"status"`
	SubmittedAt *string        `json:"submitted_at,omitempty"`
	AcceptedAt  *string        `json:"accepted_at,omitempty"`
	Items       []DeliveryItem `json:"items"`
}

type Review struct {
	Score     int      `json:"score"`
	Tags      []string `json:"tags,omitempty"`
	Comment   *string  `json:"comment,omitempty"`
	CreatedAt string   `json:"created_at"`
}

type OrderDetail struct {
	ID                int64       `json:"id"`
	Status            string      `json:"status"`
	PayType           string      `json:"pay_type"`
	TotalAmount       float64     `json:"total_amount"`
	DepositAmount     float64     `json:"deposit_amount"`
	ServiceFee        float64     `json:"service_fee"`
	ScheduleStart     *string     `json:"schedule_start,omitempty"`
	ScheduleEnd       *string     `json:"schedule_end,omitempty"`
	CreatedAt         string      `json:"created_at"`
	UpdatedAt         string      `json:"updated_at"`
	UserID            int64       `json:"user_id"`
	UserPhone         *string     `json:"user_phone,omitempty"`
	PhotographerID    *int64      `json:"photographer_id,omitempty"`
	PhotographerPhone *string     `json:"photographer_phone,omitempty"`
	Items             []OrderItem `json:"items"`
	Payments          []Payment   `json:"payments"`
	Refunds           []Refund    `json:"refunds"`
	Deliveries        []Delivery  `json:"deliveries"`
	Review            *Review     `json:"review,omitempty"`
}

type FreezeRequest struct {
	Reason string `json:"reason,omitempty"`
}

type OrderReportItem struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	PhotographerID *int64  `json:"photographer_id,omitempty"`
	Status         string  `json:"status"`
	PayType        string  `json:"pay_type"`
	TotalAmount    float64 `json:"total_amount"`
	CreatedAt      string  `json:"created_at"`
}

type OrderReport struct {
	Format      string            `json:"format"`
	GeneratedAt string            `json:"generated_at"`
	Total       int               `json:"total"`
	Items       []OrderReportItem `json:"items"`
	CSV         *string           `json:"csv,omitempty"`
}

// --- disputes ---

type Dispute struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	InitiatorID    int64   `json:"initiator_id"`
	InitiatorPhone *string `json:"initiator_phone,omitempty"`
	Status         string  `json:"status"`
	Reason         *string `json:"reason,omitempty"`
	UpdatedAt      string  `json:"updated_at"`
}

type Evidence struct {
	ID        int64   `json:"id"`
	FileURL   string  `json:"file_url"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type DisputeDetail struct {
	Dispute
	OrderStatus *string    `json:"order_status,omitempty"`
	Resolution  *string    `json:"resolution,omitempty"`
	CreatedAt   string     `json:"created_at"`
	Evidence    []Evidence `json:"evidence"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution"`
	Status     string `json:"status,omitempty"`
}

// --- content ---

type Portfolio struct {
	ID                int64   `json:"id"`
	PhotographerID    int64   `json:"photographer_id"`
	PhotographerPhone *string `json:"photographer_phone,omitempty"`
	Title             string  `json:"title"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// --- audit ---

type AuditEntry struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	TargetType *string         `json:"target_type,omitempty"`
	TargetID   *int64          `json:"target_id,omitempty"`
	AdminID    int64           `json:"admin_id"`
	AdminPhone *string         `json:"admin_phone,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

type CreateAuditRequest struct {
	Action     string          `json:"action"`
	TargetType string          `json:"target_type,omitempty"`
	TargetID   *int64          `json:"target_id,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

// --- metrics ---

type Metrics struct {
	PeriodDays               int     `json:"period_days"`
	UsersTotal               int     `json:"users_total"`
	OrdersTotal              int     `json:"orders_total"`
	OrdersPeriod             int     `json:"orders_period"`
	OrdersToday              int     `json:"orders_today"`
	DisputesOpen             int     `json:"disputes_open"`
	DisputesPeriod           int     `json:"disputes_period"`
	PendingPhotographers     int     `json:"pending_photographers"`
	PendingMerchantApprovals int     `json:"pending_merchant_approvals"`
	RevenueToday             float64 `json:"revenue_today"`
	RevenuePeriod            float64 `json:"revenue_period"`
}

type TrendPoint struct {
	Date     string  `json:"date"`
	Orders   int     `json:"orders"`
	Disputes int     `json:"disputes"`
	Revenue  float64 `json:"revenue"`
}

type Trends struct {
	Days  int          `json:"days"`
	Items []TrendPoint `json:"items"`
}

// --- ops ---

// ConfigKeys lists the platform settings the console edits.
var ConfigKeys = []string{
	"order_auto_cancel_hours",
	"refund_penalty_rate",
	"dispute_priority",
	"demand_tags",
	"photographer_tags",
	"recommend_slots",
	"activity_banners",
}

type Config struct {
	ID    int64           `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type UpdateConfigRequest struct {
	Value json.RawMessage `json:"value"`
}

type MerchantApproval struct {
	ID           int64   `json:"id"`
	MerchantID   int64   `json:"merchant_id"`
	MerchantName string  `json:"merchant_name"`
	DemandID     int64   `json:"demand_id"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type TemplateItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type MerchantTemplate struct {
	ID           int64          `json:"id"`
	MerchantID   int64          `json:"merchant_id"`
	MerchantName string         `json:"merchant_name"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	CreatedAt    string         `json:"created_at"`
	Items        []TemplateItem `json:"items"`
}
