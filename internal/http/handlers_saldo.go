package http

import (
	"fmt"
	"net/http"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

func (s *Server) handleListSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListSaldo(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar saldo", items, total, page, limit)
}

func (s *Server) handleGetSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetSaldo(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail saldo", item)
}

func (s *Server) handleCreateSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req core.Saldo
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.CreateSaldo(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusCreated, "saldo berhasil dibuat", saved)
}

func (s *Server) handleUpdateSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req core.Saldo
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.UpdateSaldo(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "saldo berhasil diperbarui", saved)
}

func (s *Server) handleDeleteSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteSaldo(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	s.invalidateSummary()
	writeSuccess(ctx, w, http.StatusOK, "saldo berhasil dihapus", nil)
}

type generateSaldoResult struct {
	Created int `json:"created"`
}

// handleGenerateSaldo backfills missing per-day snapshots. A failure
// midway still reports the rows created before the abort.
func (s *Server) handleGenerateSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	created, err := s.generator.Generate(ctx)
	if created > 0 {
		// Rows created before an abort still change saldo_terakhir.
		s.invalidateSummary()
	}
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError,
			fmt.Sprintf("%s (%d saldo dibuat sebelum gagal)", err.Error(), created))
		return
	}

	message := fmt.Sprintf("%d saldo berhasil dibuat", created)
	if created == 0 {
		message = "tidak ada saldo baru yang perlu dibuat"
	}
	writeSuccess(ctx, w, http.StatusOK, message, generateSaldoResult{Created: created})
}
