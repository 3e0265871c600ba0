package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/memory"
	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/port/outbound"
	"github.com/snapbook/opsconsole/internal/service"
)

const testCSRF = "test-csrf-token"

// fakeAPI answers every back-office call from memory. Setting unauthorized
// makes every call behave like the pipeline on a 401: the session is cleared
// and ErrUnauthorized returned.
type fakeAPI struct {
	store *session.Store

	mu           sync.Mutex
	unauthorized bool
	failWith     error
	calls        []string

	loginToken string
	loginRoles []string
	reportCSV  *string

	lastUserFilter admin.UserFilter
	lastReview     admin.ReviewRequest
	lastResolve    admin.ResolveDisputeRequest
	lastAudit      admin.CreateAuditRequest
	lastReport     admin.ReportFilter
	frozen         []int64
	configs        map[string][]byte
}

var _ outbound.AdminAPI = (*fakeAPI)(nil)

func newFakeAPI(store *session.Store) *fakeAPI {
	return &fakeAPI{store: store, loginToken: "tok-1", loginRoles: []string{session.RoleAdmin}, configs: map[string][]byte{}}
}

func (f *fakeAPI) called(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.unauthorized {
		_ = f.store.Clear(context.Background())
		return backend.ErrUnauthorized
	}
	return f.failWith
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) SendCode(_ context.Context, _ string) (*admin.SendCodeResponse, error) {
	if err := f.called("SendCode"); err != nil {
		return nil, err
	}
	return &admin.SendCodeResponse{ExpiredAt: "2026-01-01T00:05:00Z"}, nil
}

func (f *fakeAPI) Login(_ context.Context, phone, code string) (*admin.LoginResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "Login")
	f.mu.Unlock()
	if code != "123456" {
		return nil, backend.ErrUnauthorized
	}
	return &admin.LoginResponse{
		Token: f.loginToken,
		User:  &session.Principal{ID: 1, Phone: phone, Status: "active"},
		Roles: f.loginRoles,
	}, nil
}

func (f *fakeAPI) Metrics(_ context.Context, days int) (*admin.Metrics, error) {
	if err := f.called("Metrics"); err != nil {
		return nil, err
	}
	return &admin.Metrics{PeriodDays: days, UsersTotal: 42, OrdersToday: 3}, nil
}

func (f *fakeAPI) Trends(_ context.Context, days int) (*admin.Trends, error) {
	if err := f.called("Trends"); err != nil {
		return nil, err
	}
	return &admin.Trends{Days: days, Items: []admin.TrendPoint{{Date: "2026-01-01", Orders: 2}}}, nil
}

func (f *fakeAPI) ListUsers(_ context.Context, flt admin.UserFilter) (*admin.Page[admin.User], error) {
	if err := f.called("ListUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUserFilter = flt
	f.mu.Unlock()
	pid := int64(7)
	pst := "pending"
	return &admin.Page[admin.User]{
		Items: []admin.User{{ID: 1, Phone: "13800000001", Status: "active", Role: "user",
			PhotographerID: &pid, PhotographerStatus: &pst}},
		Page: flt.Page, PageSize: flt.PageSize, Total: 45,
	}, nil
}

func (f *fakeAPI) ReviewPhotographer(_ context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	if err := f.called("ReviewPhotographer"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastReview = req
	f.mu.Unlock()
	return &admin.StatusResponse{ID: id, Status: req.Status}, nil
}

func (f *fakeAPI) ListOrders(_ context.Context, flt admin.OrderFilter) (*admin.Page[admin.Order], error) {
	if err := f.called("ListOrders"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.Order]{
		Items: []admin.Order{{ID: 11, UserID: 1, Status: "paid", PayType: "full", TotalAmount: 300, CreatedAt: "2026-01-01"}},
		Page:  flt.Page, PageSize: flt.PageSize, Total: 1,
	}, nil
}

func (f *fakeAPI) GetOrder(_ context.Context, id int64) (*admin.OrderDetail, error) {
	if err := f.called("GetOrder"); err != nil {
		return nil, err
	}
	return &admin.OrderDetail{ID: id, Status: "paid", PayType: "full", TotalAmount: 300}, nil
}

func (f *fakeAPI) FreezeOrder(_ context.Context, id int64, _ string) (*admin.StatusResponse, error) {
	if err := f.called("FreezeOrder"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.frozen = append(f.frozen, id)
	f.mu.Unlock()
	return &admin.StatusResponse{ID: id, Status: "frozen"}, nil
}

func (f *fakeAPI) OrdersReport(_ context.Context, flt admin.ReportFilter) (*admin.OrderReport, error) {
	if err := f.called("OrdersReport"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastReport = flt
	f.mu.Unlock()
	return &admin.OrderReport{Format: "csv", CSV: f.reportCSV}, nil
}

func (f *fakeAPI) ListDisputes(_ context.Context, flt admin.StatusFilter) (*admin.Page[admin.Dispute], error) {
	if err := f.called("ListDisputes"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.Dispute]{
		Items: []admin.Dispute{{ID: 5, OrderID: 11, Status: "open", UpdatedAt: "2026-01-02"}},
		Page:  flt.Page, PageSize: flt.PageSize, Total: 1,
	}, nil
}

func (f *fakeAPI) GetDispute(_ context.Context, id int64) (*admin.DisputeDetail, error) {
	if err := f.called("GetDispute"); err != nil {
		return nil, err
	}
	return &admin.DisputeDetail{Dispute: admin.Dispute{ID: id, OrderID: 11, Status: "open"}}, nil
}

func (f *fakeAPI) ResolveDispute(_ context.Context, id int64, req admin.ResolveDisputeRequest) (*admin.StatusResponse, error) {
	if err := f.called("ResolveDispute"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastResolve = req
	f.mu.Unlock()
	return &admin.StatusResponse{ID: id, Status: "resolved"}, nil
}

func (f *fakeAPI) ListPortfolios(_ context.Context, flt admin.PortfolioFilter) (*admin.Page[admin.Portfolio], error) {
	if err := f.called("ListPortfolios"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.Portfolio]{Page: flt.Page, PageSize: flt.PageSize}, nil
}

func (f *fakeAPI) ReviewPortfolio(_ context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	if err := f.called("ReviewPortfolio"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastReview = req
	f.mu.Unlock()
	return &admin.StatusResponse{ID: id, Status: req.Status}, nil
}

func (f *fakeAPI) ListAudits(_ context.Context, flt admin.AuditFilter) (*admin.Page[admin.AuditEntry], error) {
	if err := f.called("ListAudits"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.AuditEntry]{
		Items: []admin.AuditEntry{{ID: 1, Action: "freeze_order", AdminID: 1, CreatedAt: "2026-01-01"}},
		Page:  flt.Page, PageSize: flt.PageSize, Total: 1,
	}, nil
}

func (f *fakeAPI) CreateAudit(_ context.Context, req admin.CreateAuditRequest) error {
	if err := f.called("CreateAudit"); err != nil {
		return err
	}
	f.mu.Lock()
	f.lastAudit = req
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) GetConfig(_ context.Context, key string) (*admin.Config, error) {
	if err := f.called("GetConfig"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.configs[key]
	if !ok {
		return nil, &backend.RequestFailedError{Code: 404, Message: "not found", Status: 200}
	}
	return &admin.Config{Key: key, Value: v}, nil
}

func (f *fakeAPI) UpdateConfig(_ context.Context, key string, value []byte) (*admin.Config, error) {
	if err := f.called("UpdateConfig"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[key] = value
	return &admin.Config{Key: key, Value: value}, nil
}

func (f *fakeAPI) ListMerchantApprovals(_ context.Context, flt admin.StatusFilter) (*admin.Page[admin.MerchantApproval], error) {
	if err := f.called("ListMerchantApprovals"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.MerchantApproval]{
		Items: []admin.MerchantApproval{{ID: 3, MerchantName: "Acme", Status: "pending"}},
		Page:  flt.Page, PageSize: flt.PageSize, Total: 1,
	}, nil
}

func (f *fakeAPI) ReviewMerchantApproval(_ context.Context, id int64, req admin.ReviewRequest) (*admin.StatusResponse, error) {
	if err := f.called("ReviewMerchantApproval"); err != nil {
		return nil, err
	}
	return &admin.StatusResponse{ID: id, Status: req.Status}, nil
}

func (f *fakeAPI) ListMerchantTemplates(_ context.Context, flt admin.TemplateFilter) (*admin.Page[admin.MerchantTemplate], error) {
	if err := f.called("ListMerchantTemplates"); err != nil {
		return nil, err
	}
	return &admin.Page[admin.MerchantTemplate]{Page: flt.Page, PageSize: flt.PageSize}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testConsole struct {
	h     *Handler
	http  http.Handler
	api   *fakeAPI
	store *session.Store
}

func newTestConsole(t *testing.T, opts ...func(*Deps)) *testConsole {
	t.Helper()
	store := session.NewStore(memory.NewKVStore(), discardLogger())
	api := newFakeAPI(store)
	d := Deps{
		Store:   store,
		API:     api,
		Auth:    service.NewAuthService(api, store, discardLogger()),
		Logger:  discardLogger(),
		Version: "test",
	}
	for _, o := range opts {
		o(&d)
	}
	h, err := New(d)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return &testConsole{h: h, http: h.Handler(), api: api, store: store}
}

func (c *testConsole) signIn(t *testing.T, roles ...string) {
	t.Helper()
	err := c.store.Set(context.Background(), session.Session{
		Token: "tok-1",
		User:  &session.Principal{ID: 1, Phone: "13800000000"},
		Roles: roles,
	})
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}
}

func (c *testConsole) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.http.ServeHTTP(rec, req)
	return rec
}

// post submits a form carrying a valid CSRF token.
func (c *testConsole) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfField, testCSRF)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookie, Value: testCSRF})
	rec := httptest.NewRecorder()
	c.http.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) *Flash {
	t.Helper()
	ck := cookieNamed(rec, flashCookie)
	if ck == nil {
		return nil
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	return popFlash(httptest.NewRecorder(), req)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatal("New() with no deps should fail")
	}
}

func TestConsole_UnauthenticatedRedirectsToLogin(t *testing.T) {
	c := newTestConsole(t)

	rec := c.get("/orders?status=paid")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	want := "/login?next=" + url.QueryEscape("/orders?status=paid")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
	if c.api.count("ListOrders") != 0 {
		t.Error("backend must not be called without a session")
	}
}

func TestConsole_LoginReturnsToNext(t *testing.T) {
	c := newTestConsole(t)

	rec := c.post("/login", url.Values{"phone": {"13800000000"}, "code": {"123456"}, "next": {"/disputes"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/disputes" {
		t.Errorf("Location = %q, want /disputes", loc)
	}
	if f := flashOf(t, rec); f == nil || f.Kind != FlashSuccess {
		t.Errorf("flash = %+v, want success", f)
	}
	if !c.store.IsAuthenticated(context.Background()) {
		t.Fatal("session should be stored after login")
	}

	page := c.get("/disputes")
	if page.Code != http.StatusOK {
		t.Errorf("GET /disputes status = %d, want 200", page.Code)
	}
}

func TestConsole_LoginIgnoresUnsafeNext(t *testing.T) {
	c := newTestConsole(t)

	rec := c.post("/login", url.Values{"phone": {"13800000000"}, "code": {"123456"}, "next": {"//evil.example"}})
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestConsole_LoginRejected(t *testing.T) {
	c := newTestConsole(t)

	rec := c.post("/login", url.Values{"phone": {"13800000000"}, "code": {"000000"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Login failed") {
		t.Error("rejected login should explain the failure")
	}
	if c.store.IsAuthenticated(context.Background()) {
		t.Error("rejected login must not store a session")
	}
}

func TestConsole_LoginThrottled(t *testing.T) {
	c := newTestConsole(t, func(d *Deps) { d.Limiter = memory.NewLimiter() })

	form := url.Values{"phone": {"13800000000"}}
	if rec := c.post("/login/code", form); rec.Code != http.StatusOK {
		t.Fatalf("first code request status = %d, want 200", rec.Code)
	}
	rec := c.post("/login/code", form)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second code request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("throttled response should carry Retry-After")
	}
	if !strings.Contains(rec.Body.String(), "Too many attempts") {
		t.Error("throttled response should explain the wait")
	}
	if n := c.api.count("SendCode"); n != 1 {
		t.Errorf("SendCode calls = %d, want 1", n)
	}

	other := c.post("/login/code", url.Values{"phone": {"13900000000"}})
	if other.Code != http.StatusOK {
		t.Errorf("another phone status = %d, want 200", other.Code)
	}
}

func TestConsole_LoginInvalidInput(t *testing.T) {
	c := newTestConsole(t)

	rec := c.post("/login", url.Values{"phone": {"not-a-phone"}, "code": {"1"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if c.api.count("Login") != 0 {
		t.Error("invalid input must not reach the backend")
	}
}

func TestConsole_RequestCode(t *testing.T) {
	c := newTestConsole(t)

	rec := c.post("/login/code", url.Values{"phone": {"13800000000"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Verification code sent.") {
		t.Error("page should confirm the code was sent")
	}
	if !strings.Contains(body, `name="phone" value="13800000000"`) {
		t.Error("phone should be carried into the code form")
	}
}

func TestConsole_LoginPageRedirectsWhenSignedIn(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	rec := c.get("/login?next=/users")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/users" {
		t.Errorf("got %d %q, want 303 /users", rec.Code, rec.Header().Get("Location"))
	}
}

func TestConsole_RoleGates(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		path  string
		want  int
	}{
		{"admin sees audit", []string{session.RoleAdmin}, "/audit", http.StatusOK},
		{"admin sees ops", []string{session.RoleAdmin}, "/ops", http.StatusOK},
		{"ops denied audit", []string{session.RoleOps}, "/audit", http.StatusForbidden},
		{"ops denied ops", []string{session.RoleOps}, "/ops", http.StatusForbidden},
		{"ops sees disputes", []string{session.RoleOps}, "/disputes", http.StatusOK},
		{"ops sees content", []string{session.RoleOps}, "/content", http.StatusOK},
		{"manager sees orders", []string{session.RoleManager}, "/orders", http.StatusOK},
		{"manager denied disputes", []string{session.RoleManager}, "/disputes", http.StatusForbidden},
		{"no roles denied dashboard", nil, "/", http.StatusForbidden},
		{"foreign role denied users", []string{"photographer"}, "/users", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConsole(t)
			c.signIn(t, tt.roles...)

			rec := c.get(tt.path)
			if rec.Code != tt.want {
				t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
			}
			if tt.want == http.StatusForbidden && !strings.Contains(rec.Body.String(), "Access denied") {
				t.Error("denied response should render the access-denied view")
			}
		})
	}
}

func TestConsole_DeniedMakesNoBackendCall(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleOps)

	c.get("/audit")
	if c.api.count("ListAudits") != 0 {
		t.Error("denied screen must not load data")
	}
}

func TestConsole_NavFollowsRoles(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleOps)

	body := c.get("/").Body.String()
	if !strings.Contains(body, `href="/disputes"`) {
		t.Error("ops nav should link disputes")
	}
	if strings.Contains(body, `href="/audit"`) {
		t.Error("ops nav must not link the audit log")
	}
}

func TestConsole_UnauthorizedClearsAndRedirects(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	c.api.unauthorized = true

	rec := c.get("/users?status=active")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	want := LoginURL("/users?status=active")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
	if f := flashOf(t, rec); f == nil || f.Kind != FlashWarning {
		t.Errorf("flash = %+v, want warning", f)
	}
	if c.store.IsAuthenticated(context.Background()) {
		t.Error("session should be cleared")
	}
}

func TestConsole_BackendErrorKeepsPriorData(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	if rec := c.get("/users"); !strings.Contains(rec.Body.String(), "13800000001") {
		t.Fatal("first load should render the user")
	}

	c.api.failWith = &backend.RequestFailedError{Code: 500, Message: "database busy", Status: 200}
	rec := c.get("/users?page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "database busy") {
		t.Error("error should be flashed")
	}
	if !strings.Contains(body, "13800000001") {
		t.Error("prior data should still be shown")
	}
}

func TestConsole_LogoutResetsViews(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	c.get("/users?status=active")

	if _, ok, _ := c.h.views.users.Snapshot(); !ok {
		t.Fatal("users view should hold data after a load")
	}

	rec := c.post("/logout", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if c.store.IsAuthenticated(context.Background()) {
		t.Error("session should be cleared")
	}
	if _, ok, _ := c.h.views.users.Snapshot(); ok {
		t.Error("views should be reset on logout")
	}
}

func TestConsole_ReviewRedirectsWithFilters(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	c.get("/users?status=active&page=2")

	rec := c.post("/users/7/review", url.Values{"status": {"approved"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/users?page=2&status=active" {
		t.Errorf("Location = %q, want filters kept", loc)
	}
	if c.api.lastReview.Status != "approved" {
		t.Errorf("review status = %q, want approved", c.api.lastReview.Status)
	}
	if f := flashOf(t, rec); f == nil || f.Kind != FlashSuccess {
		t.Errorf("flash = %+v, want success", f)
	}
}

func TestConsole_ReviewRejectsUnknownStatus(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	rec := c.post("/users/7/review", url.Values{"status": {"maybe"}})
	if f := flashOf(t, rec); f == nil || f.Kind != FlashError {
		t.Errorf("flash = %+v, want error", f)
	}
	if c.api.count("ReviewPhotographer") != 0 {
		t.Error("invalid form must not reach the backend")
	}
}

func TestConsole_FreezeFromDetail(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleManager)

	rec := c.post("/orders/11/freeze", url.Values{"from": {"detail"}})
	if loc := rec.Header().Get("Location"); loc != "/orders/11" {
		t.Errorf("Location = %q, want /orders/11", loc)
	}
	if len(c.api.frozen) != 1 || c.api.frozen[0] != 11 {
		t.Errorf("frozen = %v, want [11]", c.api.frozen)
	}
}

func TestConsole_ExportOrders(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	csv := "id,status\n11,paid\n"
	c.api.reportCSV = &csv

	rec := c.get("/orders/export?status=paid&start_date=2026-01-01&end_date=2026-01-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "orders_report_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != csv {
		t.Errorf("body = %q, want %q", rec.Body.String(), csv)
	}
	if c.api.lastReport.Limit != exportLimit || c.api.lastReport.Status != "paid" || c.api.lastReport.Format != "csv" {
		t.Errorf("report filter = %+v", c.api.lastReport)
	}
}

func TestConsole_ExportNothing(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	rec := c.get("/orders/export")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if f := flashOf(t, rec); f == nil || f.Message != "Nothing to export." {
		t.Errorf("flash = %+v", f)
	}
}

func TestConsole_ExportBadDates(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	c.get("/orders/export?start_date=2026-02-01&end_date=2026-01-01")
	if c.api.count("OrdersReport") != 0 {
		t.Error("reversed range must not reach the backend")
	}
}

func TestConsole_ResolveDisputeRequiresResolution(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleOps)

	c.post("/disputes/5/resolve", url.Values{"resolution": {"  "}})
	if c.api.count("ResolveDispute") != 0 {
		t.Error("blank resolution must not reach the backend")
	}

	rec := c.post("/disputes/5/resolve", url.Values{"resolution": {"refund half"}, "from": {"detail"}})
	if loc := rec.Header().Get("Location"); loc != "/disputes/5" {
		t.Errorf("Location = %q, want /disputes/5", loc)
	}
	if c.api.lastResolve.Resolution != "refund half" {
		t.Errorf("resolution = %q", c.api.lastResolve.Resolution)
	}
}

func TestConsole_CreateAudit(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	rec := c.post("/audit", url.Values{"action": {"note"}, "detail": {"not json"}})
	if f := flashOf(t, rec); f == nil || f.Kind != FlashError {
		t.Errorf("invalid detail flash = %+v, want error", f)
	}

	c.post("/audit", url.Values{"action": {"note"}, "target_type": {"order"}, "target_id": {"11"}, "detail": {`{"a":1}`}})
	got := c.api.lastAudit
	if got.Action != "note" || got.TargetID == nil || *got.TargetID != 11 || string(got.Detail) != `{"a":1}` {
		t.Errorf("audit request = %+v", got)
	}
}

func TestConsole_SaveSettings(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	rec := c.post("/ops/settings", url.Values{
		"auto_cancel_hours": {"24"},
		"demand_tags":       {"wedding, portrait"},
		"recommend_slots":   {"[]"},
		"activity_banners":  {"[]"},
	})
	if f := flashOf(t, rec); f == nil || f.Kind != FlashSuccess {
		t.Fatalf("flash = %+v, want success", f)
	}
	if got := string(c.api.configs["order_auto_cancel_hours"]); got != "24" {
		t.Errorf("auto cancel = %q, want 24", got)
	}

	page := c.get("/ops")
	if page.Code != http.StatusOK {
		t.Fatalf("GET /ops status = %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "wedding,portrait") {
		t.Error("saved tags should be shown")
	}
}

func TestConsole_OpsPageUnauthorized(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	c.api.unauthorized = true

	rec := c.get("/ops")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestConsole_NotFound(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)

	if rec := c.get("/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := c.get("/orders/abc"); rec.Code != http.StatusNotFound {
		t.Errorf("bad id status = %d, want 404", rec.Code)
	}
}

func TestConsole_DetailError(t *testing.T) {
	c := newTestConsole(t)
	c.signIn(t, session.RoleAdmin)
	c.api.failWith = &backend.TransportError{Err: errors.New("dial tcp: refused")}

	rec := c.get("/orders/11")
	if !strings.Contains(rec.Body.String(), "The backend could not be reached.") {
		t.Error("transport failure should be flashed")
	}
}

func TestConsole_StaticServedWithoutSession(t *testing.T) {
	c := newTestConsole(t)

	rec := c.get("/static/console.css")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
