package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/auth"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

type userRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListUsers(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar pengguna", items, total, page, limit)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetUser(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail pengguna", item)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		writeError(ctx, w, http.StatusBadRequest, "password wajib diisi")
		return
	}

	user := core.User{Name: req.Name, Username: req.Username, Email: req.Email, Role: req.Role}
	if err := user.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	user.PasswordHash = hash

	saved, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, "pengguna berhasil dibuat", saved)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "format permintaan tidak valid")
		return
	}

	existing, err := s.repo.GetUser(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	user := core.User{
		ID:           id,
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: existing.PasswordHash,
	}
	if err := user.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	// An empty password keeps the current one.
	if strings.TrimSpace(req.Password) != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(ctx, w, http.StatusInternalServerError, err.Error())
			return
		}
		user.PasswordHash = hash
	}

	saved, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "pengguna berhasil diperbarui", saved)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if user, ok := ctx.Value(ctxKeyUser).(core.User); ok && user.ID == id {
		writeError(ctx, w, http.StatusBadRequest, "tidak dapat menghapus akun sendiri")
		return
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "pengguna berhasil dihapus", nil)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r.URL.Query())

	items, total, err := s.repo.ListSettings(ctx, page, limit)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeList(ctx, w, "daftar pengaturan", items, total, page, limit)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.GetSetting(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "detail pengaturan", item)
}

func (s *Server) handleCreateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	setting, err := s.parseSettingRequest(r, core.Setting{})
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := setting.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.CreateSetting(ctx, setting)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, "pengaturan berhasil dibuat", saved)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.repo.GetSetting(ctx, id)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	setting, err := s.parseSettingRequest(r, existing)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	setting.ID = id
	if err := setting.Validate(); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}

	saved, err := s.repo.UpdateSetting(ctx, setting)
	if err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "pengaturan berhasil diperbarui", saved)
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteSetting(ctx, id); err != nil {
		writeError(ctx, w, statusForError(err), err.Error())
		return
	}
	writeSuccess(ctx, w, http.StatusOK, "pengaturan berhasil dihapus", nil)
}

// parseSettingRequest accepts either JSON or multipart form data. The
// multipart form may carry an optional logo file saved under the
// upload directory; base supplies existing values for partial updates.
func (s *Server) parseSettingRequest(r *http.Request, base core.Setting) (core.Setting, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		setting := base
		if err := decodeBody(r, &setting); err != nil {
			return core.Setting{}, fmt.Errorf("format permintaan tidak valid")
		}
		return setting, nil
	}

	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		return core.Setting{}, fmt.Errorf("format multipart tidak valid")
	}

	setting := base
	if v := r.FormValue("nama_perusahaan"); v != "" {
		setting.NamaPerusahaan = v
	}
	if v := r.FormValue("alamat"); v != "" {
		setting.Alamat = v
	}
	if v := r.FormValue("kontak"); v != "" {
		setting.Kontak = v
	}
	if v := r.FormValue("email_perusahaan"); v != "" {
		setting.EmailPerusahaan = v
	}

	file, header, err := r.FormFile("logo")
	if err == http.ErrMissingFile {
		return setting, nil
	}
	if err != nil {
		return core.Setting{}, fmt.Errorf("logo tidak dapat dibaca")
	}
	defer file.Close()

	path, err := s.saveLogo(file, header.Filename)
	if err != nil {
		return core.Setting{}, err
	}
	setting.LogoPath = path
	return setting, nil
}

func (s *Server) saveLogo(file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".svg":
	default:
		return "", fmt.Errorf("format logo %s tidak didukung", ext)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("buat direktori upload: %w", err)
	}

	name := fmt.Sprintf("logo_%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(s.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("simpan logo: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxBodySize)); err != nil {
		return "", fmt.Errorf("simpan logo: %w", err)
	}
	return path, nil
}
