// Package export appends assembled reports to a Google Sheets
// spreadsheet. One row per export keeps the sheet a running log the
// owners can chart from.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"negocio/internal/core"
	"negocio/internal/log"
	"negocio/internal/reports"
)

// Config selects the target spreadsheet and the credentials source.
// Exactly one of CredentialsJSON or CredentialsFile must be set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

func NewSheetsExporter(ctx context.Context, cfg Config, logger *log.Logger) (*SheetsExporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if logger == nil {
		logger = log.New(log.Config{})
	}

	var credentials []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentials = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentials = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Reports"
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// AppendFinancial appends one summary row for a financial report.
func (e *SheetsExporter) AppendFinancial(ctx context.Context, report *reports.FinancialReport) error {
	row := []any{
		time.Now().Format(time.RFC3339),
		"financial",
		reports.DayKey(report.Start),
		reports.DayKey(report.End),
		centsToCell(report.TotalRevenue),
		centsToCell(report.TotalExpenses),
		centsToCell(report.TotalWithdrawals),
		centsToCell(report.NetProfit),
		centsToCell(report.GeneralBalance),
		strconv.FormatFloat(report.ProfitMarginPct, 'f', 2, 64),
	}
	return e.appendRow(ctx, "financial", row)
}

// AppendExpenses appends one summary row for an advanced expense report.
func (e *SheetsExporter) AppendExpenses(ctx context.Context, report *reports.AdvancedExpenseReport) error {
	topCategory := ""
	if len(report.ByCategory) > 0 {
		topCategory = string(report.ByCategory[0].Category)
	}
	row := []any{
		time.Now().Format(time.RFC3339),
		"expenses",
		reports.DayKey(report.Start),
		reports.DayKey(report.End),
		centsToCell(report.TotalExpenses),
		centsToCell(report.TotalRevenue),
		strconv.FormatFloat(report.ExpensePct, 'f', 2, 64),
		topCategory,
	}
	return e.appendRow(ctx, "expenses", row)
}

// AppendPartners appends one summary row per partner account.
func (e *SheetsExporter) AppendPartners(ctx context.Context, report *reports.PartnerBalanceReport) error {
	for _, balance := range report.Accounts {
		row := []any{
			time.Now().Format(time.RFC3339),
			"partners",
			reports.DayKey(report.Start),
			reports.DayKey(report.End),
			string(balance.Account),
			centsToCell(balance.TotalIncome),
			centsToCell(balance.TotalWithdrawals),
			centsToCell(balance.AvailableBalance),
		}
		if err := e.appendRow(ctx, "partners", row); err != nil {
			return err
		}
	}
	return nil
}

func (e *SheetsExporter) appendRow(ctx context.Context, report string, row []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.sheetName+"!A:Z", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	e.logger.InfoContext(ctx, "Appended report row",
		log.FieldReport, report,
		"sheet", e.sheetName)
	return nil
}

// centsToCell renders money as a decimal string so the sheet can treat
// it as a number.
func centsToCell(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
