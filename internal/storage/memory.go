package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"negocio/internal/core"
	"negocio/internal/reports"
)

// MemoryStore keeps all records in memory behind a mutex. It backs the
// memory backend and the test suites; no data survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	sales       []core.Sale
	expenses    []core.Expense
	withdrawals []core.Withdrawal
	incidents   map[string]core.Incident
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{incidents: make(map[string]core.Incident)}
}

func (s *MemoryStore) SalesByDateRange(_ context.Context, start, end time.Time) ([]core.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Sale
	for _, sale := range s.sales {
		if inRange(sale.Date, start, end) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Expenses(_ context.Context, f reports.ExpenseFilter) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if !f.Start.IsZero() && e.Date.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && e.Date.After(f.End) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Withdrawals(_ context.Context, f reports.WithdrawalFilter) ([]core.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Withdrawal
	for _, w := range s.withdrawals {
		if f.Account != "" && w.BankAccount != f.Account {
			continue
		}
		if !f.Start.IsZero() && w.Date.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && w.Date.After(f.End) {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) CreateSale(_ context.Context, sale core.Sale) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	s.sales = append(s.sales, sale)
	return sale.ID, nil
}

func (s *MemoryStore) CreateExpense(_ context.Context, expense core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	s.expenses = append(s.expenses, expense)
	return expense.ID, nil
}

func (s *MemoryStore) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateWithdrawal(_ context.Context, withdrawal core.Withdrawal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if withdrawal.ID == "" {
		withdrawal.ID = uuid.NewString()
	}
	s.withdrawals = append(s.withdrawals, withdrawal)
	return withdrawal.ID, nil
}

func (s *MemoryStore) CreateIncident(_ context.Context, incident core.Incident) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	s.incidents[incident.ID] = incident
	return incident.ID, nil
}

func (s *MemoryStore) Incident(_ context.Context, id string) (core.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incident, ok := s.incidents[id]
	if !ok {
		return core.Incident{}, ErrNotFound
	}
	return incident, nil
}

func (s *MemoryStore) UpdateIncident(_ context.Context, incident core.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incidents[incident.ID]; !ok {
		return ErrNotFound
	}
	s.incidents[incident.ID] = incident
	return nil
}

func (s *MemoryStore) OpenIncidents(_ context.Context) ([]core.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Incident
	for _, incident := range s.incidents {
		if incident.Status == core.IncidentOpen {
			out = append(out, incident)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
