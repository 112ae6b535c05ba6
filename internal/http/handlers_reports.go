package http

import (
	"net/http"
	"strings"
	"time"

	"negocio/internal/amqp"
	"negocio/internal/log"
	"negocio/internal/reports"
)

// reportCacheKey identifies one report range. Day resolution matches
// the normalization applied by the assemblers.
func reportCacheKey(start, end time.Time) string {
	s, e := "", ""
	if !start.IsZero() {
		s = reports.DayKey(start)
	}
	if !end.IsZero() {
		e = reports.DayKey(end)
	}
	return s + ".." + e
}

func (s *Server) handleFinancialReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := reportCacheKey(start, end)
	if report, ok := s.financialCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.reports.FinancialReport(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Financial report failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report assembly failed")
		return
	}

	s.financialCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAdvancedExpenseReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := reportCacheKey(start, end)
	if report, ok := s.expenseCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.reports.AdvancedExpenseReport(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Advanced expense report failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report assembly failed")
		return
	}

	s.expenseCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePartnerBalanceReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := reportCacheKey(start, end)
	if report, ok := s.partnerCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.reports.PartnerBalanceReport(r.Context(), start, end)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Partner balance report failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report assembly failed")
		return
	}

	s.partnerCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

type exportRequest struct {
	Report string `json:"report"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// handleExportReport enqueues an export for the worker. Returns 202:
// the append to the spreadsheet happens asynchronously.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "export queue not configured")
		return
	}

	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, day := range []string{req.Start, req.End} {
		if strings.TrimSpace(day) == "" {
			continue
		}
		if _, err := parseDate(day); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date "+day)
			return
		}
	}

	msg := amqp.NewReportExportMessage(req.Report, strings.TrimSpace(req.Start), strings.TrimSpace(req.End))
	if err := msg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.publisher.PublishReportExport(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Export publish failed",
			log.FieldReport, req.Report,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to enqueue export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "report": req.Report})
}
