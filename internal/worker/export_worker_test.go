package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"negocio/internal/amqp"
	"negocio/internal/core"
	"negocio/internal/reports"
	"negocio/internal/storage"
)

type fakeExporter struct {
	financial []*reports.FinancialReport
	expenses  []*reports.AdvancedExpenseReport
	partners  []*reports.PartnerBalanceReport
	err       error
}

func (f *fakeExporter) AppendFinancial(_ context.Context, r *reports.FinancialReport) error {
	f.financial = append(f.financial, r)
	return f.err
}

func (f *fakeExporter) AppendExpenses(_ context.Context, r *reports.AdvancedExpenseReport) error {
	f.expenses = append(f.expenses, r)
	return f.err
}

func (f *fakeExporter) AppendPartners(_ context.Context, r *reports.PartnerBalanceReport) error {
	f.partners = append(f.partners, r)
	return f.err
}

// fakeQueue delivers canned messages straight to the handler.
type fakeQueue struct {
	messages []*amqp.ReportExportMessage
	errs     []error
}

func (f *fakeQueue) ConsumeReportExports(_ context.Context, handler func(*amqp.ReportExportMessage) error) error {
	for _, msg := range f.messages {
		f.errs = append(f.errs, handler(msg))
	}
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestWorker(t *testing.T) (*ExportWorker, *fakeExporter, *fakeQueue) {
	t.Helper()
	store := storage.NewMemoryStore()
	_, err := store.CreateSale(context.Background(), core.Sale{
		Date:   time.Date(2025, time.June, 5, 0, 0, 0, 0, time.Local),
		Status: core.SaleCompleted,
		Items:  []core.SaleItem{{Description: "cut", Quantity: 1, UnitPrice: core.Money{Cents: 5000}}},
	})
	if err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	clock := fixedClock{now: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)}
	svc := reports.NewService(store, clock, nil)
	exporter := &fakeExporter{}
	queue := &fakeQueue{}
	return NewExportWorker(svc, exporter, queue, nil), exporter, queue
}

func TestExportWorkerHandlesEachReportKind(t *testing.T) {
	w, exporter, queue := newTestWorker(t)
	queue.messages = []*amqp.ReportExportMessage{
		amqp.NewReportExportMessage(amqp.ReportFinancial, "2025-06-01", "2025-06-10"),
		amqp.NewReportExportMessage(amqp.ReportExpenses, "2025-06-01", "2025-06-10"),
		amqp.NewReportExportMessage(amqp.ReportPartners, "2025-06-01", "2025-06-10"),
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, err := range queue.errs {
		if err != nil {
			t.Errorf("message %d handler error = %v", i, err)
		}
	}
	if len(exporter.financial) != 1 || len(exporter.expenses) != 1 || len(exporter.partners) != 1 {
		t.Fatalf("exports = %d/%d/%d, want one of each",
			len(exporter.financial), len(exporter.expenses), len(exporter.partners))
	}
	if exporter.financial[0].TotalRevenue.Cents != 5000 {
		t.Errorf("exported revenue = %d, want 5000", exporter.financial[0].TotalRevenue.Cents)
	}
}

func TestExportWorkerDefaultsEmptyRangeToToday(t *testing.T) {
	w, exporter, queue := newTestWorker(t)
	queue.messages = []*amqp.ReportExportMessage{
		amqp.NewReportExportMessage(amqp.ReportFinancial, "", ""),
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(exporter.financial) != 1 {
		t.Fatalf("exports = %d, want 1", len(exporter.financial))
	}
	report := exporter.financial[0]
	if reports.DayKey(report.Start) != "2025-06-10" || reports.DayKey(report.End) != "2025-06-10" {
		t.Errorf("default range = %s..%s, want today only",
			reports.DayKey(report.Start), reports.DayKey(report.End))
	}
}

func TestExportWorkerDropsInvalidRange(t *testing.T) {
	w, exporter, queue := newTestWorker(t)
	queue.messages = []*amqp.ReportExportMessage{
		amqp.NewReportExportMessage(amqp.ReportFinancial, "June 1st", ""),
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// A bad range is dropped without error so it never requeues.
	if queue.errs[0] != nil {
		t.Errorf("handler error = %v, want nil", queue.errs[0])
	}
	if len(exporter.financial) != 0 {
		t.Errorf("exports = %d, want 0", len(exporter.financial))
	}
}

func TestExportWorkerPropagatesExporterFailure(t *testing.T) {
	w, exporter, queue := newTestWorker(t)
	exporter.err = errors.New("sheet unavailable")
	queue.messages = []*amqp.ReportExportMessage{
		amqp.NewReportExportMessage(amqp.ReportPartners, "2025-06-01", "2025-06-10"),
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !errors.Is(queue.errs[0], exporter.err) {
		t.Errorf("handler error = %v, want exporter failure so the message requeues", queue.errs[0])
	}
}
