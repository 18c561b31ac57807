package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

// Kategori pengeluaran.

func (r *SQLiteRepository) CreateKategori(ctx context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO kategori_pengeluaran (nama, deskripsi) VALUES (?, ?)", k.Nama, k.Deskripsi)
	if err != nil {
		return core.KategoriPengeluaran{}, fmt.Errorf("insert kategori: %w", err)
	}
	k.ID, err = res.LastInsertId()
	if err != nil {
		return core.KategoriPengeluaran{}, fmt.Errorf("kategori id: %w", err)
	}
	return k, nil
}

func (r *SQLiteRepository) GetKategori(ctx context.Context, id int64) (core.KategoriPengeluaran, error) {
	var k core.KategoriPengeluaran
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nama, deskripsi FROM kategori_pengeluaran WHERE id = ?", id).
		Scan(&k.ID, &k.Nama, &k.Deskripsi)
	if err != nil {
		return core.KategoriPengeluaran{}, notFoundOr("get kategori", err)
	}
	return k, nil
}

func (r *SQLiteRepository) ListKategori(ctx context.Context, page, limit int) ([]core.KategoriPengeluaran, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kategori_pengeluaran").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count kategori: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nama, deskripsi FROM kategori_pengeluaran ORDER BY id LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list kategori: %w", err)
	}
	defer rows.Close()

	items := []core.KategoriPengeluaran{}
	for rows.Next() {
		var k core.KategoriPengeluaran
		if err := rows.Scan(&k.ID, &k.Nama, &k.Deskripsi); err != nil {
			return nil, 0, fmt.Errorf("scan kategori: %w", err)
		}
		items = append(items, k)
	}
	return items, total, rows.Err()
}

func (r *SQLiteRepository) UpdateKategori(ctx context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE kategori_pengeluaran SET nama = ?, deskripsi = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		k.Nama, k.Deskripsi, k.ID)
	if err != nil {
		return core.KategoriPengeluaran{}, fmt.Errorf("update kategori: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.KategoriPengeluaran{}, ErrNotFound
	}
	return k, nil
}

func (r *SQLiteRepository) DeleteKategori(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM kategori_pengeluaran WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete kategori: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Users.

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, username, email, role, password_hash) VALUES (?, ?, ?, ?, ?)",
		u.Name, u.Username, u.Email, u.Role, u.PasswordHash)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, username, email, role, password_hash FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.PasswordHash)
	if err != nil {
		return core.User{}, notFoundOr("get user", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, username, email, role, password_hash FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.PasswordHash)
	if err != nil {
		return core.User{}, notFoundOr("get user by username", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context, page, limit int) ([]core.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, username, email, role, password_hash FROM users ORDER BY id LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := []core.User{}
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.PasswordHash); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, username = ?, email = ?, role = ?, password_hash = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		u.Name, u.Username, u.Email, u.Role, u.PasswordHash, u.ID)
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.User{}, ErrNotFound
	}
	return u, nil
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Sessions.

func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a token to its user, ignoring expired sessions.
func (r *SQLiteRepository) GetSessionUser(ctx context.Context, token string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.username, u.email, u.role, u.password_hash
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ? AND s.expires_at > ?`, token, time.Now().UTC()).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.PasswordHash)
	if err != nil {
		return core.User{}, notFoundOr("get session user", err)
	}
	return u, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Settings.

func (r *SQLiteRepository) CreateSetting(ctx context.Context, s core.Setting) (core.Setting, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (nama_perusahaan, alamat, logo_path, kontak, email_perusahaan)
		 VALUES (?, ?, ?, ?, ?)`,
		s.NamaPerusahaan, s.Alamat, s.LogoPath, s.Kontak, s.EmailPerusahaan)
	if err != nil {
		return core.Setting{}, fmt.Errorf("insert setting: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return core.Setting{}, fmt.Errorf("setting id: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, id int64) (core.Setting, error) {
	var s core.Setting
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nama_perusahaan, alamat, logo_path, kontak, email_perusahaan FROM settings WHERE id = ?", id).
		Scan(&s.ID, &s.NamaPerusahaan, &s.Alamat, &s.LogoPath, &s.Kontak, &s.EmailPerusahaan)
	if err != nil {
		return core.Setting{}, notFoundOr("get setting", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSettings(ctx context.Context, page, limit int) ([]core.Setting, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count settings: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nama_perusahaan, alamat, logo_path, kontak, email_perusahaan FROM settings ORDER BY id LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	items := []core.Setting{}
	for rows.Next() {
		var s core.Setting
		if err := rows.Scan(&s.ID, &s.NamaPerusahaan, &s.Alamat, &s.LogoPath, &s.Kontak, &s.EmailPerusahaan); err != nil {
			return nil, 0, fmt.Errorf("scan setting: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *SQLiteRepository) UpdateSetting(ctx context.Context, s core.Setting) (core.Setting, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settings SET nama_perusahaan = ?, alamat = ?, logo_path = ?, kontak = ?, email_perusahaan = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		s.NamaPerusahaan, s.Alamat, s.LogoPath, s.Kontak, s.EmailPerusahaan, s.ID)
	if err != nil {
		return core.Setting{}, fmt.Errorf("update setting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Setting{}, ErrNotFound
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSetting(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM settings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
