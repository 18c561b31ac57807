// Package http exposes the JSON API consumed by the admin dashboard.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/cache"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyUser      ctxKey = "user"

	dashboardCacheKey = "dashboard_summary"
)

type Server struct {
	http.Server
	repo      Repository
	transaksi TransaksiWriter
	auth      Authenticator
	dashboard SummaryProvider
	generator SaldoBackfiller
	exporter  LaporanExporter

	uploadDir   string
	rateLimiter *rateLimiter

	// Dashboard summaries are cheap to cache and expensive to compute;
	// transaction mutations invalidate the entry.
	summaryCache *cache.LRUCache[services.DashboardSummary]

	stopJanitor  context.CancelFunc
	shutdownOnce sync.Once
}

// Deps bundles the collaborators NewServer wires into the route table.
type Deps struct {
	Repo      Repository
	Transaksi TransaksiWriter
	Auth      Authenticator
	Dashboard SummaryProvider
	Generator SaldoBackfiller
	Exporter  LaporanExporter
	UploadDir string
}

// NewServer configures the route table and middleware chain, returning
// a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:       http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		repo:         deps.Repo,
		transaksi:    deps.Transaksi,
		auth:         deps.Auth,
		dashboard:    deps.Dashboard,
		generator:    deps.Generator,
		exporter:     deps.Exporter,
		uploadDir:    deps.UploadDir,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[services.DashboardSummary](8, 2*time.Minute),
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.summaryCache.StartJanitor(janitorCtx, time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /login", s.public(s.handleLogin))
	mux.HandleFunc("POST /logout", s.protected(s.handleLogout))

	mux.HandleFunc("GET /dashboard/summary", s.protected(s.handleDashboardSummary))

	mux.HandleFunc("GET /pendapatan", s.protected(s.handleListPendapatan))
	mux.HandleFunc("POST /pendapatan", s.protected(s.handleCreatePendapatan))
	mux.HandleFunc("GET /pendapatan/{id}", s.protected(s.handleGetPendapatan))
	mux.HandleFunc("PUT /pendapatan/{id}", s.protected(s.handleUpdatePendapatan))
	mux.HandleFunc("DELETE /pendapatan/{id}", s.protected(s.handleDeletePendapatan))

	mux.HandleFunc("GET /pengeluaran", s.protected(s.handleListPengeluaran))
	mux.HandleFunc("POST /pengeluaran", s.protected(s.handleCreatePengeluaran))
	mux.HandleFunc("GET /pengeluaran/{id}", s.protected(s.handleGetPengeluaran))
	mux.HandleFunc("PUT /pengeluaran/{id}", s.protected(s.handleUpdatePengeluaran))
	mux.HandleFunc("DELETE /pengeluaran/{id}", s.protected(s.handleDeletePengeluaran))

	mux.HandleFunc("GET /kategori_pengeluaran", s.protected(s.handleListKategori))
	mux.HandleFunc("POST /kategori_pengeluaran", s.protected(s.handleCreateKategori))
	mux.HandleFunc("GET /kategori_pengeluaran/{id}", s.protected(s.handleGetKategori))
	mux.HandleFunc("PUT /kategori_pengeluaran/{id}", s.protected(s.handleUpdateKategori))
	mux.HandleFunc("DELETE /kategori_pengeluaran/{id}", s.protected(s.handleDeleteKategori))

	mux.HandleFunc("GET /saldo", s.protected(s.handleListSaldo))
	mux.HandleFunc("POST /saldo", s.protected(s.handleCreateSaldo))
	mux.HandleFunc("POST /saldo/generate", s.protected(s.handleGenerateSaldo))
	mux.HandleFunc("GET /saldo/{id}", s.protected(s.handleGetSaldo))
	mux.HandleFunc("PUT /saldo/{id}", s.protected(s.handleUpdateSaldo))
	mux.HandleFunc("DELETE /saldo/{id}", s.protected(s.handleDeleteSaldo))

	mux.HandleFunc("GET /laporan_bulanan", s.protected(s.handleListLaporan))
	mux.HandleFunc("POST /laporan_bulanan", s.protected(s.handleCreateLaporan))
	mux.HandleFunc("POST /laporan_bulanan/export", s.protected(s.handleExportLaporan))
	mux.HandleFunc("GET /laporan_bulanan/{id}", s.protected(s.handleGetLaporan))
	mux.HandleFunc("PUT /laporan_bulanan/{id}", s.protected(s.handleUpdateLaporan))
	mux.HandleFunc("DELETE /laporan_bulanan/{id}", s.protected(s.handleDeleteLaporan))

	mux.HandleFunc("GET /users", s.adminOnly(s.handleListUsers))
	mux.HandleFunc("POST /users", s.adminOnly(s.handleCreateUser))
	mux.HandleFunc("GET /users/{id}", s.adminOnly(s.handleGetUser))
	mux.HandleFunc("PUT /users/{id}", s.adminOnly(s.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{id}", s.adminOnly(s.handleDeleteUser))

	mux.HandleFunc("GET /settings", s.protected(s.handleListSettings))
	mux.HandleFunc("POST /settings", s.adminOnly(s.handleCreateSetting))
	mux.HandleFunc("GET /settings/{id}", s.protected(s.handleGetSetting))
	mux.HandleFunc("PUT /settings/{id}", s.adminOnly(s.handleUpdateSetting))
	mux.HandleFunc("DELETE /settings/{id}", s.adminOnly(s.handleDeleteSetting))

	return s
}

// public applies logging, security headers, and rate limiting but no
// authentication.
func (s *Server) public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate-limit mutating methods only; reads are cache-friendly.
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(ctx, w, http.StatusTooManyRequests, "terlalu banyak permintaan, coba lagi nanti")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// protected additionally requires a valid bearer token.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.public(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next(w, r.WithContext(ctx))
	})
}

// adminOnly restricts the route to the admin role.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return s.public(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		if user.Role != core.RoleAdmin {
			writeError(r.Context(), w, http.StatusForbidden, "akses ditolak")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next(w, r.WithContext(ctx))
	})
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	user, err := s.auth.Authenticate(r.Context(), bearerToken(r))
	if err != nil {
		writeError(r.Context(), w, http.StatusUnauthorized, "sesi tidak valid")
		return core.User{}, false
	}
	return user, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// invalidateSummary drops the cached dashboard payload after a mutation.
func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(dashboardCacheKey)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the background loops before draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopJanitor()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
