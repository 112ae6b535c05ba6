package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
)

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// The business has exactly two partner bank accounts. Revenue attribution
// between them is a fixed business rule, not derived from payment routing.
const (
	AccountPartnerA Account = "partner_a"
	AccountPartnerB Account = "partner_b"
)

const (
	CategorySupplies    ExpenseCategory = "supplies"
	CategoryPayroll     ExpenseCategory = "payroll"
	CategoryRent        ExpenseCategory = "rent"
	CategoryServices    ExpenseCategory = "services"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

type (
	SaleStatus      string
	PaymentMethod   string
	Account         string
	ExpenseCategory string

	// SaleItem is one line of a sale.
	SaleItem struct {
		Description string
		Quantity    int64
		UnitPrice   Money
	}

	// PaymentEntry records how part of a sale was paid. BankAccount is set
	// only for transfers and is informational: it never allocates revenue
	// to a partner.
	PaymentEntry struct {
		Method      PaymentMethod
		BankAccount Account
		Amount      Money
	}

	Sale struct {
		ID       string
		Date     time.Time
		Status   SaleStatus
		Items    []SaleItem
		Payments []PaymentEntry
	}

	Expense struct {
		ID            string
		Date          time.Time
		Category      ExpenseCategory
		Amount        Money
		Description   string
		RecordedBy    string // optional
		PaymentMethod PaymentMethod
	}

	Withdrawal struct {
		ID          string
		Date        time.Time
		BankAccount Account
		Amount      Money
		Description string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidStatus    = errors.New("invalid sale status")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrInvalidAccount   = errors.New("invalid partner account")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrEmptyItems       = errors.New("sale has no items")
)

// PartnerAccounts returns the two canonical partner accounts in fixed order.
func PartnerAccounts() [2]Account {
	return [2]Account{AccountPartnerA, AccountPartnerB}
}

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleCompleted, SalePending, SaleCancelled:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

func (a Account) Valid() bool {
	return a == AccountPartnerA || a == AccountPartnerB
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategorySupplies, CategoryPayroll, CategoryRent,
		CategoryServices, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

// Total computes the sale's monetary total from its line items. It is a
// pure function of the sale and always non-negative for valid sales.
func (s Sale) Total() Money {
	var cents int64
	for _, it := range s.Items {
		cents += it.Quantity * it.UnitPrice.Cents
	}
	return Money{Cents: cents}
}

// TransfersTo sums transfer-type payment entries routed to the given
// account. Reported separately on partner balances, never folded into
// revenue attribution.
func (s Sale) TransfersTo(account Account) Money {
	var cents int64
	for _, p := range s.Payments {
		if p.Method == PaymentTransfer && p.BankAccount == account {
			cents += p.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

func (s Sale) Validate() error {
	if s.Date.IsZero() {
		return ErrInvalidDate
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(s.Items) == 0 {
		return ErrEmptyItems
	}
	for _, it := range s.Items {
		if strings.TrimSpace(it.Description) == "" {
			return ErrEmptyDescription
		}
		if it.Quantity <= 0 || it.UnitPrice.Cents <= 0 {
			return ErrInvalidAmount
		}
	}
	for _, p := range s.Payments {
		if !p.Method.Valid() {
			return ErrInvalidMethod
		}
		if p.Method == PaymentTransfer && !p.BankAccount.Valid() {
			return ErrInvalidAccount
		}
		if p.Amount.Cents <= 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

func (w Withdrawal) Validate() error {
	if w.Date.IsZero() {
		return ErrInvalidDate
	}
	if !w.BankAccount.Valid() {
		return ErrInvalidAccount
	}
	if err := w.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(w.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
