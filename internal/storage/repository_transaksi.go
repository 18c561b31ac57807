package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

const pendapatanColumns = "id, user_id, tanggal, sumber, jumlah, metode_pembayaran, keterangan"

func scanPendapatan(row interface{ Scan(...any) error }) (core.Pendapatan, error) {
	var p core.Pendapatan
	var jumlah string
	if err := row.Scan(&p.ID, &p.UserID, &p.Tanggal, &p.Sumber, &jumlah, &p.MetodePembayaran, &p.Keterangan); err != nil {
		return core.Pendapatan{}, err
	}
	d, err := scanDecimal(jumlah)
	if err != nil {
		return core.Pendapatan{}, err
	}
	p.Jumlah = d
	return p, nil
}

func (r *SQLiteRepository) CreatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pendapatan (user_id, tanggal, sumber, jumlah, metode_pembayaran, keterangan)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Tanggal, p.Sumber, p.Jumlah.String(), string(p.MetodePembayaran), p.Keterangan)
	if err != nil {
		return core.Pendapatan{}, fmt.Errorf("insert pendapatan: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Pendapatan{}, fmt.Errorf("pendapatan id: %w", err)
	}

	slog.InfoContext(ctx, "Pendapatan saved",
		"id", p.ID,
		"tanggal", p.Tanggal,
		"sumber", p.Sumber,
		"jumlah", p.Jumlah.String())
	return p, nil
}

func (r *SQLiteRepository) GetPendapatan(ctx context.Context, id int64) (core.Pendapatan, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+pendapatanColumns+" FROM pendapatan WHERE id = ?", id)
	p, err := scanPendapatan(row)
	if err != nil {
		return core.Pendapatan{}, notFoundOr("get pendapatan", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPendapatan(ctx context.Context, page, limit int) ([]core.Pendapatan, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pendapatan").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pendapatan: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pendapatanColumns+" FROM pendapatan ORDER BY id LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list pendapatan: %w", err)
	}
	defer rows.Close()

	items := []core.Pendapatan{}
	for rows.Next() {
		p, err := scanPendapatan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pendapatan: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// ListAllPendapatan returns every income row, oldest id first. Used by the
// aggregator and the saldo generator, which need the full history.
func (r *SQLiteRepository) ListAllPendapatan(ctx context.Context) ([]core.Pendapatan, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pendapatanColumns+" FROM pendapatan ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list all pendapatan: %w", err)
	}
	defer rows.Close()

	items := []core.Pendapatan{}
	for rows.Next() {
		p, err := scanPendapatan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pendapatan: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) UpdatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pendapatan
		 SET user_id = ?, tanggal = ?, sumber = ?, jumlah = ?, metode_pembayaran = ?, keterangan = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.UserID, p.Tanggal, p.Sumber, p.Jumlah.String(), string(p.MetodePembayaran), p.Keterangan, p.ID)
	if err != nil {
		return core.Pendapatan{}, fmt.Errorf("update pendapatan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Pendapatan{}, ErrNotFound
	}
	return p, nil
}

func (r *SQLiteRepository) DeletePendapatan(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pendapatan WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete pendapatan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const pengeluaranColumns = "id, user_id, kategori_id, tanggal, penerima, jumlah, metode_pembayaran, keterangan"

func scanPengeluaran(row interface{ Scan(...any) error }) (core.Pengeluaran, error) {
	var p core.Pengeluaran
	var jumlah string
	if err := row.Scan(&p.ID, &p.UserID, &p.KategoriID, &p.Tanggal, &p.Penerima, &jumlah, &p.MetodePembayaran, &p.Keterangan); err != nil {
		return core.Pengeluaran{}, err
	}
	d, err := scanDecimal(jumlah)
	if err != nil {
		return core.Pengeluaran{}, err
	}
	p.Jumlah = d
	return p, nil
}

func (r *SQLiteRepository) CreatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pengeluaran (user_id, kategori_id, tanggal, penerima, jumlah, metode_pembayaran, keterangan)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.KategoriID, p.Tanggal, p.Penerima, p.Jumlah.String(), string(p.MetodePembayaran), p.Keterangan)
	if err != nil {
		return core.Pengeluaran{}, fmt.Errorf("insert pengeluaran: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Pengeluaran{}, fmt.Errorf("pengeluaran id: %w", err)
	}

	slog.InfoContext(ctx, "Pengeluaran saved",
		"id", p.ID,
		"tanggal", p.Tanggal,
		"penerima", p.Penerima,
		"jumlah", p.Jumlah.String())
	return p, nil
}

func (r *SQLiteRepository) GetPengeluaran(ctx context.Context, id int64) (core.Pengeluaran, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+pengeluaranColumns+" FROM pengeluaran WHERE id = ?", id)
	p, err := scanPengeluaran(row)
	if err != nil {
		return core.Pengeluaran{}, notFoundOr("get pengeluaran", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPengeluaran(ctx context.Context, page, limit int) ([]core.Pengeluaran, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pengeluaran").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pengeluaran: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pengeluaranColumns+" FROM pengeluaran ORDER BY id LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list pengeluaran: %w", err)
	}
	defer rows.Close()

	items := []core.Pengeluaran{}
	for rows.Next() {
		p, err := scanPengeluaran(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pengeluaran: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// ListAllPengeluaran returns every expense row, oldest id first.
func (r *SQLiteRepository) ListAllPengeluaran(ctx context.Context) ([]core.Pengeluaran, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pengeluaranColumns+" FROM pengeluaran ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list all pengeluaran: %w", err)
	}
	defer rows.Close()

	items := []core.Pengeluaran{}
	for rows.Next() {
		p, err := scanPengeluaran(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pengeluaran: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) UpdatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pengeluaran
		 SET user_id = ?, kategori_id = ?, tanggal = ?, penerima = ?, jumlah = ?, metode_pembayaran = ?, keterangan = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.UserID, p.KategoriID, p.Tanggal, p.Penerima, p.Jumlah.String(), string(p.MetodePembayaran), p.Keterangan, p.ID)
	if err != nil {
		return core.Pengeluaran{}, fmt.Errorf("update pengeluaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Pengeluaran{}, ErrNotFound
	}
	return p, nil
}

func (r *SQLiteRepository) DeletePengeluaran(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pengeluaran WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete pengeluaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
