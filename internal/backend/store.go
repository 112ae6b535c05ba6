package backend

import (
	"context"

	"negocio/internal/core"
	"negocio/internal/reports"
)

// Store is the unified persistence interface the application is wired
// against: the reporting engine's read-only queries plus the thin write
// operations of the record endpoints.
type Store interface {
	reports.Store

	CreateSale(ctx context.Context, sale core.Sale) (string, error)
	CreateExpense(ctx context.Context, expense core.Expense) (string, error)
	DeleteExpense(ctx context.Context, id string) error
	CreateWithdrawal(ctx context.Context, withdrawal core.Withdrawal) (string, error)

	CreateIncident(ctx context.Context, incident core.Incident) (string, error)
	Incident(ctx context.Context, id string) (core.Incident, error)
	UpdateIncident(ctx context.Context, incident core.Incident) error
	OpenIncidents(ctx context.Context) ([]core.Incident, error)
}

// CleanupFunc releases a store's resources.
type CleanupFunc func() error

// Result pairs a store with its cleanup.
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

// Type selects the storage backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	return t == SQLiteBackend || t == MemoryBackend
}

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}
