package http

import (
	"errors"
	"net/http"

	"github.com/lantanajayadigital/sistem-keuangan/internal/auth"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}

	token, user, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(ctx, w, http.StatusUnauthorized, "username atau password salah")
			return
		}
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "login berhasil", loginResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.auth.Logout(ctx, bearerToken(r)); err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "logout berhasil", nil)
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := s.summaryCache.Get(dashboardCacheKey); ok {
		writeSuccess(ctx, w, http.StatusOK, "ringkasan dashboard", cached)
		return
	}

	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	s.summaryCache.Set(dashboardCacheKey, summary)
	writeSuccess(ctx, w, http.StatusOK, "ringkasan dashboard", summary)
}

// statusForError maps repository and validation failures to HTTP codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidTanggal),
		errors.Is(err, core.ErrInvalidJumlah),
		errors.Is(err, core.ErrInvalidMetode),
		errors.Is(err, core.ErrInvalidBulan),
		errors.Is(err, core.ErrInvalidTahun),
		errors.Is(err, core.ErrEmptySumber),
		errors.Is(err, core.ErrEmptyPenerima),
		errors.Is(err, core.ErrEmptyNama),
		errors.Is(err, core.ErrEmptyUsername),
		errors.Is(err, core.ErrInvalidRole),
		errors.Is(err, core.ErrMissingKategori),
		errors.Is(err, core.ErrSaldoIdentity),
		errors.Is(err, core.ErrNegativeSaldoAwal),
		errors.Is(err, core.ErrKeteranganTooLong):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
