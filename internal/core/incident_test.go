package core

import (
	"errors"
	"testing"
	"time"
)

func openIncident() Incident {
	return Incident{
		ID:          "inc-1",
		ServiceName: "card-terminal",
		Status:      IncidentOpen,
		Description: "terminal offline",
		OpenedAt:    time.Date(2025, time.June, 10, 9, 0, 0, 0, time.Local),
	}
}

func TestIncidentClose(t *testing.T) {
	incident := openIncident()
	closeAt := incident.OpenedAt.Add(2 * time.Hour)

	closed, err := incident.Close(closeAt, "  rebooted router  ")
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if closed.Status != IncidentClosed {
		t.Errorf("closed status = %s, want closed", closed.Status)
	}
	if !closed.ClosedAt.Equal(closeAt) {
		t.Errorf("ClosedAt = %v, want %v", closed.ClosedAt, closeAt)
	}
	if closed.Resolution != "rebooted router" {
		t.Errorf("Resolution = %q, want trimmed %q", closed.Resolution, "rebooted router")
	}

	// The original value stays untouched.
	if incident.Status != IncidentOpen || !incident.ClosedAt.IsZero() {
		t.Errorf("Close() mutated the receiver: %+v", incident)
	}
}

func TestIncidentCloseAlreadyClosed(t *testing.T) {
	incident := openIncident()
	closed, err := incident.Close(incident.OpenedAt.Add(time.Hour), "fixed")
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := closed.Close(closed.ClosedAt.Add(time.Hour), "again"); !errors.Is(err, ErrIncidentClosed) {
		t.Errorf("second Close() = %v, want ErrIncidentClosed", err)
	}
}

func TestIncidentCloseBeforeOpen(t *testing.T) {
	incident := openIncident()
	if _, err := incident.Close(incident.OpenedAt.Add(-time.Minute), "typo"); !errors.Is(err, ErrCloseBeforeOpen) {
		t.Errorf("Close() = %v, want ErrCloseBeforeOpen", err)
	}
}

func TestIncidentValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Incident)
		wantErr error
	}{
		{"valid open", func(*Incident) {}, nil},
		{"blank service", func(i *Incident) { i.ServiceName = " " }, ErrEmptyServiceName},
		{"blank description", func(i *Incident) { i.Description = "" }, ErrEmptyDescription},
		{"zero opened at", func(i *Incident) { i.OpenedAt = time.Time{} }, ErrInvalidDate},
		{"bad status", func(i *Incident) { i.Status = "paused" }, ErrInvalidIncidentRef},
		{"closed before open", func(i *Incident) {
			i.Status = IncidentClosed
			i.ClosedAt = i.OpenedAt.Add(-time.Hour)
		}, ErrCloseBeforeOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incident := openIncident()
			tt.mutate(&incident)
			err := incident.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
