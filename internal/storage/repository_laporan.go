package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

const laporanColumns = "id, bulan, tahun, total_pendapatan, total_pengeluaran, saldo_akhir, catatan"

func scanLaporan(row interface{ Scan(...any) error }) (core.LaporanBulanan, error) {
	var l core.LaporanBulanan
	var masuk, keluar, akhir string
	if err := row.Scan(&l.ID, &l.Bulan, &l.Tahun, &masuk, &keluar, &akhir, &l.Catatan); err != nil {
		return core.LaporanBulanan{}, err
	}
	var err error
	if l.TotalPendapatan, err = scanDecimal(masuk); err != nil {
		return core.LaporanBulanan{}, err
	}
	if l.TotalPengeluaran, err = scanDecimal(keluar); err != nil {
		return core.LaporanBulanan{}, err
	}
	if l.SaldoAkhir, err = scanDecimal(akhir); err != nil {
		return core.LaporanBulanan{}, err
	}
	return l, nil
}

func (r *SQLiteRepository) CreateLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO laporan_bulanan (bulan, tahun, total_pendapatan, total_pengeluaran, saldo_akhir, catatan)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.Bulan, l.Tahun, l.TotalPendapatan.String(), l.TotalPengeluaran.String(), l.SaldoAkhir.String(), l.Catatan)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("insert laporan: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("laporan id: %w", err)
	}
	return l, nil
}

// UpsertLaporan writes the computed totals for a month, preserving any
// operator-entered catatan on an existing row. The worker calls this after
// every transaction event.
func (r *SQLiteRepository) UpsertLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO laporan_bulanan (bulan, tahun, total_pendapatan, total_pengeluaran, saldo_akhir, catatan)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tahun, bulan) DO UPDATE SET
		   total_pendapatan = excluded.total_pendapatan,
		   total_pengeluaran = excluded.total_pengeluaran,
		   saldo_akhir = excluded.saldo_akhir,
		   updated_at = CURRENT_TIMESTAMP
		 RETURNING id, catatan`,
		l.Bulan, l.Tahun, l.TotalPendapatan.String(), l.TotalPengeluaran.String(), l.SaldoAkhir.String(), l.Catatan).
		Scan(&l.ID, &l.Catatan)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("upsert laporan: %w", err)
	}

	slog.InfoContext(ctx, "Laporan bulanan upserted",
		"tahun", l.Tahun,
		"bulan", l.Bulan,
		"total_pendapatan", l.TotalPendapatan.String(),
		"total_pengeluaran", l.TotalPengeluaran.String())
	return l, nil
}

func (r *SQLiteRepository) GetLaporan(ctx context.Context, id int64) (core.LaporanBulanan, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+laporanColumns+" FROM laporan_bulanan WHERE id = ?", id)
	l, err := scanLaporan(row)
	if err != nil {
		return core.LaporanBulanan{}, notFoundOr("get laporan", err)
	}
	return l, nil
}

func (r *SQLiteRepository) ListLaporan(ctx context.Context, page, limit int) ([]core.LaporanBulanan, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM laporan_bulanan").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count laporan: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+laporanColumns+" FROM laporan_bulanan ORDER BY tahun, bulan LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list laporan: %w", err)
	}
	defer rows.Close()

	items := []core.LaporanBulanan{}
	for rows.Next() {
		l, err := scanLaporan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan laporan: %w", err)
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

// ListAllLaporan returns every report row in chronological order, for the
// spreadsheet export.
func (r *SQLiteRepository) ListAllLaporan(ctx context.Context) ([]core.LaporanBulanan, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+laporanColumns+" FROM laporan_bulanan ORDER BY tahun, bulan")
	if err != nil {
		return nil, fmt.Errorf("list all laporan: %w", err)
	}
	defer rows.Close()

	items := []core.LaporanBulanan{}
	for rows.Next() {
		l, err := scanLaporan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan laporan: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) UpdateLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE laporan_bulanan
		 SET bulan = ?, tahun = ?, total_pendapatan = ?, total_pengeluaran = ?, saldo_akhir = ?, catatan = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		l.Bulan, l.Tahun, l.TotalPendapatan.String(), l.TotalPengeluaran.String(), l.SaldoAkhir.String(), l.Catatan, l.ID)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("update laporan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.LaporanBulanan{}, ErrNotFound
	}
	return l, nil
}

func (r *SQLiteRepository) DeleteLaporan(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM laporan_bulanan WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete laporan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
