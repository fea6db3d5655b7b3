package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/services"
	appweb "budget/web"
)

type Server struct {
	http.Server
	templates *template.Template

	bills     *services.BillService
	payments  *services.PaymentService
	paychecks ledger.PaycheckStore

	rateLimiter *rateLimiter

	// Overview totals are cheap to recompute but rendered on every tab
	// switch, so they sit behind a small TTL cache invalidated on writes.
	overviewCache *cache.LRUCache[core.MonthlyOverview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, bills *services.BillService, payments *services.PaymentService, paychecks ledger.PaycheckStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		bills:         bills,
		payments:      payments,
		paychecks:     paychecks,
		rateLimiter:   newRateLimiter(),
		overviewCache: cache.NewLRUCache[core.MonthlyOverview](16, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Embedded templates either parse or the binary is unusable; fail at
	// construction rather than on the first render.
	s.templates = template.Must(template.ParseFS(appweb.TemplatesFS, "templates/*.html"))

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/bills", s.withSecurityHeaders(s.handleBills))
	mux.HandleFunc("/bills/update", s.withSecurityHeaders(s.handleUpdateBill))
	mux.HandleFunc("/bills/delete", s.withSecurityHeaders(s.handleDeleteBill))
	mux.HandleFunc("/paychecks", s.withSecurityHeaders(s.handlePaychecks))
	mux.HandleFunc("/payments", s.withSecurityHeaders(s.handlePayments))
	// UI partials
	mux.HandleFunc("/ui/overview", s.withSecurityHeaders(s.handleOverview))
	mux.HandleFunc("/ui/scheduled", s.withSecurityHeaders(s.handleScheduledPayments))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		Today string
	}{
		Today: time.Now().Format("2006-01-02"),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// invalidateOverview drops the cached totals after any write that can move
// them.
func (s *Server) invalidateOverview() {
	s.overviewCache.Delete(overviewCacheKey)
}
