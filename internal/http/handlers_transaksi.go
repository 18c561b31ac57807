package http

import (
	"net/http"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

func (s *Server) handleListPendapatan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListPendapatan(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar pendapatan", items, total, page, limit)
}

func (s *Server) handleGetPendapatan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetPendapatan(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail pendapatan", item)
}

func (s *Server) handleCreatePendapatan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req core.Pendapatan
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if user, ok := ctx.Value(ctxKeyUser).(core.User); ok {
		req.UserID = user.ID
	}

	saved, err := s.transaksi.CreatePendapatan(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusCreated, "pendapatan berhasil dibuat", saved)
}

func (s *Server) handleUpdatePendapatan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req core.Pendapatan
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	req.ID = id

	saved, err := s.transaksi.UpdatePendapatan(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "pendapatan berhasil diperbarui", saved)
}

func (s *Server) handleDeletePendapatan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transaksi.DeletePendapatan(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "pendapatan berhasil dihapus", nil)
}

func (s *Server) handleListPengeluaran(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListPengeluaran(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar pengeluaran", items, total, page, limit)
}

func (s *Server) handleGetPengeluaran(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetPengeluaran(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail pengeluaran", item)
}

func (s *Server) handleCreatePengeluaran(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req core.Pengeluaran
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if user, ok := ctx.Value(ctxKeyUser).(core.User); ok {
		req.UserID = user.ID
	}

	saved, err := s.transaksi.CreatePengeluaran(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusCreated, "pengeluaran berhasil dibuat", saved)
}

func (s *Server) handleUpdatePengeluaran(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req core.Pengeluaran
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	req.ID = id

	saved, err := s.transaksi.UpdatePengeluaran(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "pengeluaran berhasil diperbarui", saved)
}

func (s *Server) handleDeletePengeluaran(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transaksi.DeletePengeluaran(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "pengeluaran berhasil dihapus", nil)
}
