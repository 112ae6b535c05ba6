package http

import (
	"errors"
	"net/http"

	"negocio/internal/core"
	"negocio/internal/log"
	"negocio/internal/storage"
)

// Amounts arrive as decimal strings ("12.34" or "12,34") and are parsed
// to integer cents at the edge. Dates are YYYY-MM-DD local days.

type saleItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type salePaymentRequest struct {
	Method      string `json:"method"`
	BankAccount string `json:"bank_account,omitempty"`
	Amount      string `json:"amount"`
}

type createSaleRequest struct {
	Date     string               `json:"date"`
	Status   string               `json:"status"`
	Items    []saleItemRequest    `json:"items"`
	Payments []salePaymentRequest `json:"payments,omitempty"`
}

type createdResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	sale := core.Sale{
		Date:   date,
		Status: core.SaleStatus(req.Status),
	}
	for _, it := range req.Items {
		cents, err := core.ParseDecimalToCents(it.UnitPrice)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid unit price")
			return
		}
		sale.Items = append(sale.Items, core.SaleItem{
			Description: sanitizeInput(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   core.Money{Cents: cents},
		})
	}
	for _, p := range req.Payments {
		cents, err := core.ParseDecimalToCents(p.Amount)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid payment amount")
			return
		}
		sale.Payments = append(sale.Payments, core.PaymentEntry{
			Method:      core.PaymentMethod(p.Method),
			BankAccount: core.Account(p.BankAccount),
			Amount:      core.Money{Cents: cents},
		})
	}

	if err := sale.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateSale(r.Context(), sale)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create sale failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to store sale")
		return
	}

	s.invalidateReportCaches()
	s.logger.InfoContext(r.Context(), "Sale recorded",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, id,
		log.FieldAmount, sale.Total().Cents)
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

type createExpenseRequest struct {
	Date          string `json:"date"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	RecordedBy    string `json:"recorded_by,omitempty"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	expense := core.Expense{
		Date:          date,
		Category:      core.ExpenseCategory(req.Category),
		Amount:        core.Money{Cents: cents},
		Description:   sanitizeInput(req.Description),
		RecordedBy:    sanitizeInput(req.RecordedBy),
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
	}
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateExpense(r.Context(), expense)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create expense failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to store expense")
		return
	}

	s.invalidateReportCaches()
	s.logger.InfoContext(r.Context(), "Expense recorded",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, id,
		log.FieldCategory, req.Category,
		log.FieldAmount, cents)
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense id")
		return
	}

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Delete expense failed",
			log.FieldRecordID, id,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	s.invalidateReportCaches()
	s.logger.InfoContext(r.Context(), "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldRecordID, id)
	w.WriteHeader(http.StatusNoContent)
}

type createWithdrawalRequest struct {
	Date        string `json:"date"`
	BankAccount string `json:"bank_account"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) handleCreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req createWithdrawalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	withdrawal := core.Withdrawal{
		Date:        date,
		BankAccount: core.Account(req.BankAccount),
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
	}
	if err := withdrawal.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateWithdrawal(r.Context(), withdrawal)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create withdrawal failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to store withdrawal")
		return
	}

	s.invalidateReportCaches()
	s.logger.InfoContext(r.Context(), "Withdrawal recorded",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, id,
		log.FieldAccount, req.BankAccount,
		log.FieldAmount, cents)
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
