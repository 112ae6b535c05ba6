// Package worker runs the report export loop: consume export requests
// from the queue, assemble the requested report and append it to the
// spreadsheet.
package worker

import (
	"context"
	"fmt"
	"time"

	"negocio/internal/amqp"
	"negocio/internal/log"
	"negocio/internal/reports"
)

// Exporter is the sink the worker writes assembled reports to.
type Exporter interface {
	AppendFinancial(ctx context.Context, report *reports.FinancialReport) error
	AppendExpenses(ctx context.Context, report *reports.AdvancedExpenseReport) error
	AppendPartners(ctx context.Context, report *reports.PartnerBalanceReport) error
}

// Queue is the subset of the AMQP client the worker consumes from.
type Queue interface {
	ConsumeReportExports(ctx context.Context, handler func(*amqp.ReportExportMessage) error) error
}

type ExportWorker struct {
	reports  *reports.Service
	exporter Exporter
	queue    Queue
	logger   *log.Logger
}

func NewExportWorker(svc *reports.Service, exporter Exporter, queue Queue, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		reports:  svc,
		exporter: exporter,
		queue:    queue,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run consumes export requests until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context) error {
	return w.queue.ConsumeReportExports(ctx, func(msg *amqp.ReportExportMessage) error {
		return w.handle(ctx, msg)
	})
}

func (w *ExportWorker) handle(ctx context.Context, msg *amqp.ReportExportMessage) error {
	start, end, err := parseRange(msg.Start, msg.End)
	if err != nil {
		// A bad range never becomes processable; drop it by succeeding.
		w.logger.WarnContext(ctx, "Skipping export with invalid range",
			log.FieldReport, msg.Report,
			log.FieldError, err.Error())
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	switch msg.Report {
	case amqp.ReportFinancial:
		report, err := w.reports.FinancialReport(ctx, start, end)
		if err != nil {
			return fmt.Errorf("assemble financial report: %w", err)
		}
		return w.exporter.AppendFinancial(ctx, report)
	case amqp.ReportExpenses:
		report, err := w.reports.AdvancedExpenseReport(ctx, start, end)
		if err != nil {
			return fmt.Errorf("assemble expense report: %w", err)
		}
		return w.exporter.AppendExpenses(ctx, report)
	case amqp.ReportPartners:
		report, err := w.reports.PartnerBalanceReport(ctx, start, end)
		if err != nil {
			return fmt.Errorf("assemble partner report: %w", err)
		}
		return w.exporter.AppendPartners(ctx, report)
	}
	return fmt.Errorf("unknown report kind: %s", msg.Report)
}

// parseRange decodes the optional YYYY-MM-DD bounds. Zero times stand
// for "default", resolved by the report assemblers.
func parseRange(start, end string) (time.Time, time.Time, error) {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.ParseInLocation("2006-01-02", start, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
		}
	}
	if end != "" {
		if e, err = time.ParseInLocation("2006-01-02", end, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse end: %w", err)
		}
	}
	return s, e, nil
}
