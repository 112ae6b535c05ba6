package http

import (
	"net/http"
	"time"

	"negocio/internal/core"
	"negocio/internal/log"
	"negocio/internal/reports"
)

// List responses carry dates as YYYY-MM-DD and amounts as integer cents.

type saleItemResponse struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price_cents"`
}

type salePaymentResponse struct {
	Method      string `json:"method"`
	BankAccount string `json:"bank_account,omitempty"`
	Amount      int64  `json:"amount_cents"`
}

type saleResponse struct {
	ID       string                `json:"id"`
	Date     string                `json:"date"`
	Status   string                `json:"status"`
	Total    int64                 `json:"total_cents"`
	Items    []saleItemResponse    `json:"items"`
	Payments []salePaymentResponse `json:"payments,omitempty"`
}

type expenseResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	Amount        int64  `json:"amount_cents"`
	Description   string `json:"description"`
	RecordedBy    string `json:"recorded_by,omitempty"`
	PaymentMethod string `json:"payment_method"`
}

type withdrawalResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	BankAccount string `json:"bank_account"`
	Amount      int64  `json:"amount_cents"`
	Description string `json:"description"`
}

// listRange resolves the optional start/end query to a concrete full-day
// range, defaulting absent bounds to today like the report endpoints do.
func listRange(r *http.Request) (time.Time, time.Time, error) {
	start, end, err := parseRangeQuery(r)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := time.Now()
	if start.IsZero() {
		start = now
	}
	if end.IsZero() {
		end = now
	}
	start, end = reports.NormalizeRange(start, end)
	return start, end, nil
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	start, end, err := listRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := s.store.SalesByDateRange(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List sales failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load sales")
		return
	}

	out := make([]saleResponse, 0, len(sales))
	for _, sale := range sales {
		resp := saleResponse{
			ID:     sale.ID,
			Date:   reports.DayKey(sale.Date),
			Status: string(sale.Status),
			Total:  sale.Total().Cents,
			Items:  make([]saleItemResponse, 0, len(sale.Items)),
		}
		for _, it := range sale.Items {
			resp.Items = append(resp.Items, saleItemResponse{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice.Cents,
			})
		}
		for _, p := range sale.Payments {
			resp.Payments = append(resp.Payments, salePaymentResponse{
				Method:      string(p.Method),
				BankAccount: string(p.BankAccount),
				Amount:      p.Amount.Cents,
			})
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	start, end, err := listRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := reports.ExpenseFilter{Start: start, End: end}
	if v := r.URL.Query().Get("category"); v != "" {
		category := core.ExpenseCategory(v)
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		filter.Category = category
	}

	expenses, err := s.store.Expenses(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List expenses failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseResponse{
			ID:            e.ID,
			Date:          reports.DayKey(e.Date),
			Category:      string(e.Category),
			Amount:        e.Amount.Cents,
			Description:   e.Description,
			RecordedBy:    e.RecordedBy,
			PaymentMethod: string(e.PaymentMethod),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	start, end, err := listRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := reports.WithdrawalFilter{Start: start, End: end}
	if v := r.URL.Query().Get("account"); v != "" {
		account := core.Account(v)
		if !account.Valid() {
			writeError(w, http.StatusBadRequest, "invalid account filter")
			return
		}
		filter.Account = account
	}

	withdrawals, err := s.store.Withdrawals(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List withdrawals failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load withdrawals")
		return
	}

	out := make([]withdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		out = append(out, withdrawalResponse{
			ID:          wd.ID,
			Date:        reports.DayKey(wd.Date),
			BankAccount: string(wd.BankAccount),
			Amount:      wd.Amount.Cents,
			Description: wd.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
