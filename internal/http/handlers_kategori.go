package http

import (
	"net/http"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

func (s *Server) handleListKategori(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListKategori(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar kategori pengeluaran", items, total, page, limit)
}

func (s *Server) handleGetKategori(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetKategori(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail kategori", item)
}

func (s *Server) handleCreateKategori(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req core.KategoriPengeluaran
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.CreateKategori(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, "kategori berhasil dibuat", saved)
}

func (s *Server) handleUpdateKategori(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req core.KategoriPengeluaran
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.UpdateKategori(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "kategori berhasil diperbarui", saved)
}

func (s *Server) handleDeleteKategori(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteKategori(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "kategori berhasil dihapus", nil)
}
