package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"negocio/internal/reports"
	"negocio/internal/storage"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// newTestServer wires the server against the in-memory store with a
// pinned clock (2025-06-10).
func newTestServer(t *testing.T) (*Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := fixedClock{now: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)}
	svc := reports.NewService(store, clock, nil)
	srv := NewServer(":0", store, svc, nil, time.Minute, nil)
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.rateLimiter.stop()
	})
	return srv, store
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestCreateExpenseAndReport(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-06-03","category":"supplies","amount":"150.00","description":"napkins","payment_method":"cash"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/expenses = %d, body %s", rec.Code, rec.Body.String())
	}
	var created createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create response has empty id")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/reports/financial?start=2025-06-01&end=2025-06-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET financial report = %d, body %s", rec.Code, rec.Body.String())
	}
	var report reports.FinancialReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalExpenses.Cents != 15000 {
		t.Errorf("TotalExpenses = %d, want 15000", report.TotalExpenses.Cents)
	}
	if len(report.Daily) != 10 {
		t.Errorf("Daily has %d rows, want 10", len(report.Daily))
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown field", `{"date":"2025-06-03","amount":"10","oops":1}`, http.StatusBadRequest},
		{"bad date", `{"date":"June 3rd","category":"supplies","amount":"10.00","description":"x","payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"date":"2025-06-03","category":"supplies","amount":"-10","description":"x","payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"date":"2025-06-03","category":"snacks","amount":"10.00","description":"x","payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"blank description", `{"date":"2025-06-03","category":"supplies","amount":"10.00","description":" ","payment_method":"cash"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != tt.want {
				t.Errorf("POST /api/expenses = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-06-03","category":"supplies","amount":"10.00","description":"x","payment_method":"cash"}`)
	var created createdResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	if rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE existing = %d, want 204", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("DELETE missing = %d, want 404", rec.Code)
	}
}

func TestCreateSaleAndPartnerReport(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/sales",
		`{"date":"2025-06-02","status":"completed","items":[{"description":"haircut","quantity":2,"unit_price":"400.00"}],"payments":[{"method":"transfer","bank_account":"partner_b","amount":"800.00"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/sales = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/withdrawals",
		`{"date":"2025-06-05","bank_account":"partner_a","amount":"150.00","description":"draw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/withdrawals = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/reports/partners?start=2025-06-01&end=2025-06-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET partner report = %d, body %s", rec.Code, rec.Body.String())
	}
	var report reports.PartnerBalanceReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.CombinedRevenue.Cents != 80000 {
		t.Errorf("CombinedRevenue = %d, want 80000", report.CombinedRevenue.Cents)
	}
	a := report.Accounts[0]
	if a.TotalIncome.Cents != 40000 || a.AvailableBalance.Cents != 25000 {
		t.Errorf("partner A = income %d balance %d, want 40000 / 25000", a.TotalIncome.Cents, a.AvailableBalance.Cents)
	}
	if report.Accounts[1].TransfersReceived.Cents != 80000 {
		t.Errorf("partner B transfers = %d, want 80000", report.Accounts[1].TransfersReceived.Cents)
	}
}

func TestListEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-06-03","category":"supplies","amount":"25.00","description":"napkins","payment_method":"cash"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/expenses = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-06-04","category":"rent","amount":"500.00","description":"rent","payment_method":"transfer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/expenses = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodPost, "/api/sales",
		`{"date":"2025-06-03","status":"completed","items":[{"description":"haircut","quantity":1,"unit_price":"30.00"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/sales = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodPost, "/api/withdrawals",
		`{"date":"2025-06-05","bank_account":"partner_a","amount":"50.00","description":"draw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/withdrawals = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?start=2025-06-01&end=2025-06-10&category=rent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/expenses = %d", rec.Code)
	}
	var expenses []expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount != 50000 || expenses[0].Date != "2025-06-04" {
		t.Errorf("category-filtered expenses = %+v, want one rent row of 50000", expenses)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/sales?start=2025-06-01&end=2025-06-10", "")
	var sales []saleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sales); err != nil {
		t.Fatalf("decode sales: %v", err)
	}
	if len(sales) != 1 || sales[0].Total != 3000 {
		t.Errorf("sales list = %+v, want one sale of 3000", sales)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/withdrawals?start=2025-06-01&end=2025-06-10&account=partner_b", "")
	var withdrawals []withdrawalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &withdrawals); err != nil {
		t.Fatalf("decode withdrawals: %v", err)
	}
	if len(withdrawals) != 0 {
		t.Errorf("partner_b withdrawals = %+v, want none", withdrawals)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/expenses?category=snacks", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("GET with bad category = %d, want 400", rec.Code)
	}
}

func TestReportBadRangeParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/reports/financial?start=yesterday", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET with bad start = %d, want 400", rec.Code)
	}
}

func TestReportCacheInvalidatedByWrites(t *testing.T) {
	srv, _ := newTestServer(t)

	first := doRequest(t, srv, http.MethodGet, "/api/reports/financial?start=2025-06-01&end=2025-06-10", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first report = %d", first.Code)
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses",
		`{"date":"2025-06-03","category":"rent","amount":"99.00","description":"late rent","payment_method":"transfer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/expenses = %d", rec.Code)
	}

	second := doRequest(t, srv, http.MethodGet, "/api/reports/financial?start=2025-06-01&end=2025-06-10", "")
	var report reports.FinancialReport
	if err := json.Unmarshal(second.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalExpenses.Cents != 9900 {
		t.Errorf("TotalExpenses after write = %d, want 9900 (stale cache?)", report.TotalExpenses.Cents)
	}
}

func TestIncidentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/incidents",
		`{"service_name":"card-terminal","description":"terminal offline"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/incidents = %d, body %s", rec.Code, rec.Body.String())
	}
	var created incidentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode incident: %v", err)
	}
	if created.Status != "open" {
		t.Errorf("new incident status = %s, want open", created.Status)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/incidents", "")
	var open []incidentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &open); err != nil {
		t.Fatalf("decode open incidents: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open incidents = %d, want 1", len(open))
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/incidents/"+created.ID+"/close",
		`{"resolution":"rebooted router"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("close incident = %d, body %s", rec.Code, rec.Body.String())
	}
	var closed incidentResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &closed)
	if closed.Status != "closed" || closed.Resolution != "rebooted router" {
		t.Errorf("closed incident = %+v", closed)
	}

	// Closing twice conflicts.
	rec = doRequest(t, srv, http.MethodPost, "/api/incidents/"+created.ID+"/close", `{"resolution":"again"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second close = %d, want 409", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/incidents", "")
	open = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &open)
	if len(open) != 0 {
		t.Errorf("open incidents after close = %d, want 0", len(open))
	}
}

func TestExportWithoutQueue(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/reports/export", `{"report":"financial"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("POST /api/reports/export = %d, want 503 without a queue", rec.Code)
	}
}
