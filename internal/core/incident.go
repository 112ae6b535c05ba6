package core

import (
	"errors"
	"strings"
	"time"
)

const (
	IncidentOpen   IncidentStatus = "open"
	IncidentClosed IncidentStatus = "closed"
)

type (
	IncidentStatus string

	// Incident is an uptime incident for a monitored service. Incidents
	// are immutable snapshots: state changes produce a new value instead
	// of mutating a shared reference, so the record history stays
	// auditable.
	Incident struct {
		ID          string
		ServiceName string
		Status      IncidentStatus
		Description string
		OpenedAt    time.Time
		ClosedAt    time.Time // zero while open
		Resolution  string
	}
)

var (
	ErrEmptyServiceName   = errors.New("empty service name")
	ErrIncidentClosed     = errors.New("incident already closed")
	ErrCloseBeforeOpen    = errors.New("close time precedes open time")
	ErrInvalidIncidentRef = errors.New("invalid incident status")
)

func (s IncidentStatus) Valid() bool {
	return s == IncidentOpen || s == IncidentClosed
}

func (i Incident) Validate() error {
	if strings.TrimSpace(i.ServiceName) == "" {
		return ErrEmptyServiceName
	}
	if strings.TrimSpace(i.Description) == "" {
		return ErrEmptyDescription
	}
	if i.OpenedAt.IsZero() {
		return ErrInvalidDate
	}
	if !i.Status.Valid() {
		return ErrInvalidIncidentRef
	}
	if i.Status == IncidentClosed && i.ClosedAt.Before(i.OpenedAt) {
		return ErrCloseBeforeOpen
	}
	return nil
}

// Close returns a closed copy of the incident. The receiver is left
// untouched; callers persist the returned value.
func (i Incident) Close(at time.Time, resolution string) (Incident, error) {
	if i.Status == IncidentClosed {
		return Incident{}, ErrIncidentClosed
	}
	if at.Before(i.OpenedAt) {
		return Incident{}, ErrCloseBeforeOpen
	}
	closed := i
	closed.Status = IncidentClosed
	closed.ClosedAt = at
	closed.Resolution = strings.TrimSpace(resolution)
	return closed, nil
}
