package http

import (
	"net/http"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

func (s *Server) handleListLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListLaporan(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar laporan bulanan", items, total, page, limit)
}

func (s *Server) handleGetLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetLaporan(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail laporan bulanan", item)
}

func (s *Server) handleCreateLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req core.LaporanBulanan
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.CreateLaporan(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, "laporan bulanan berhasil dibuat", saved)
}

func (s *Server) handleUpdateLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req core.LaporanBulanan
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.UpdateLaporan(ctx, req)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "laporan bulanan berhasil diperbarui", saved)
}

func (s *Server) handleDeleteLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteLaporan(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "laporan bulanan berhasil dihapus", nil)
}

type exportLaporanResult struct {
	SpreadsheetURL string `json:"spreadsheet_url"`
	Rows           int    `json:"rows"`
}

func (s *Server) handleExportLaporan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.exporter == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "ekspor spreadsheet tidak dikonfigurasi")
		return
	}

	laporan, err := s.repo.ListAllLaporan(ctx)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	if len(laporan) == 0 {
		writeSuccess(ctx, w, http.StatusOK, "tidak ada laporan untuk diekspor", exportLaporanResult{})
		return
	}

	url, err := s.exporter.ExportLaporan(ctx, laporan)
	if err != nil {
		writeError(ctx, w, http.StatusBadGateway, err.Error())
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "laporan berhasil diekspor",
		exportLaporanResult{SpreadsheetURL: url, Rows: len(laporan)})
}
