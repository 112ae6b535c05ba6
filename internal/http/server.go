// Package http exposes the JSON API: the three report endpoints, the
// record CRUD endpoints and the incident log.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"negocio/internal/amqp"
	"negocio/internal/backend"
	"negocio/internal/cache"
	"negocio/internal/log"
	"negocio/internal/reports"
)

// ExportPublisher enqueues report export requests. Nil disables the
// export endpoint.
type ExportPublisher interface {
	PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error
}

type Server struct {
	http.Server

	store     backend.Store
	reports   *reports.Service
	publisher ExportPublisher

	rateLimiter *rateLimiter

	// Assembled reports are cached per range; any write purges all
	// three so responses never show stale totals.
	financialCache *cache.LRUCache[*reports.FinancialReport]
	expenseCache   *cache.LRUCache[*reports.AdvancedExpenseReport]
	partnerCache   *cache.LRUCache[*reports.PartnerBalanceReport]
	cacheManager   *cache.Manager

	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer wires routes and caches, returning a ready-to-run server.
// publisher may be nil when no queue is configured.
func NewServer(addr string, store backend.Store, reportSvc *reports.Service, publisher ExportPublisher, cacheTTL time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:          store,
		reports:        reportSvc,
		publisher:      publisher,
		rateLimiter:    newRateLimiter(),
		financialCache: cache.NewLRUCache[*reports.FinancialReport](100, cacheTTL),
		expenseCache:   cache.NewLRUCache[*reports.AdvancedExpenseReport](100, cacheTTL),
		partnerCache:   cache.NewLRUCache[*reports.PartnerBalanceReport](100, cacheTTL),
		cacheManager:   cache.NewManager(),
		logger:         logger.WithComponent(log.ComponentHTTP),
	}

	s.cacheManager.Register(s.financialCache)
	s.cacheManager.Register(s.expenseCache)
	s.cacheManager.Register(s.partnerCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/reports/financial", s.withMiddleware(s.handleFinancialReport))
	mux.HandleFunc("GET /api/reports/expenses/advanced", s.withMiddleware(s.handleAdvancedExpenseReport))
	mux.HandleFunc("GET /api/reports/partners", s.withMiddleware(s.handlePartnerBalanceReport))
	mux.HandleFunc("POST /api/reports/export", s.withMiddleware(s.handleExportReport))

	mux.HandleFunc("POST /api/sales", s.withMiddleware(s.handleCreateSale))
	mux.HandleFunc("GET /api/sales", s.withMiddleware(s.handleListSales))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/withdrawals", s.withMiddleware(s.handleCreateWithdrawal))
	mux.HandleFunc("GET /api/withdrawals", s.withMiddleware(s.handleListWithdrawals))

	mux.HandleFunc("POST /api/incidents", s.withMiddleware(s.handleCreateIncident))
	mux.HandleFunc("GET /api/incidents", s.withMiddleware(s.handleOpenIncidents))
	mux.HandleFunc("POST /api/incidents/{id}/close", s.withMiddleware(s.handleCloseIncident))

	return s
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateReportCaches drops every cached report. Called after any
// write; reports join all three series, so a single-series key scheme
// would not be worth it.
func (s *Server) invalidateReportCaches() {
	s.financialCache.Purge()
	s.expenseCache.Purge()
	s.partnerCache.Purge()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
