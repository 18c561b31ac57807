package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

const saldoColumns = "id, tanggal, saldo_awal, total_pendapatan, total_pengeluaran, saldo_akhir"

func scanSaldo(row interface{ Scan(...any) error }) (core.Saldo, error) {
	var s core.Saldo
	var awal, masuk, keluar, akhir string
	if err := row.Scan(&s.ID, &s.Tanggal, &awal, &masuk, &keluar, &akhir); err != nil {
		return core.Saldo{}, err
	}
	var err error
	if s.SaldoAwal, err = scanDecimal(awal); err != nil {
		return core.Saldo{}, err
	}
	if s.TotalPendapatan, err = scanDecimal(masuk); err != nil {
		return core.Saldo{}, err
	}
	if s.TotalPengeluaran, err = scanDecimal(keluar); err != nil {
		return core.Saldo{}, err
	}
	if s.SaldoAkhir, err = scanDecimal(akhir); err != nil {
		return core.Saldo{}, err
	}
	return s, nil
}

func (r *SQLiteRepository) CreateSaldo(ctx context.Context, s core.Saldo) (core.Saldo, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO saldo (tanggal, saldo_awal, total_pendapatan, total_pengeluaran, saldo_akhir)
		 VALUES (?, ?, ?, ?, ?)`,
		s.Tanggal, s.SaldoAwal.String(), s.TotalPendapatan.String(), s.TotalPengeluaran.String(), s.SaldoAkhir.String())
	if err != nil {
		return core.Saldo{}, fmt.Errorf("insert saldo: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return core.Saldo{}, fmt.Errorf("saldo id: %w", err)
	}

	slog.InfoContext(ctx, "Saldo snapshot saved",
		"id", s.ID,
		"tanggal", s.Tanggal,
		"saldo_awal", s.SaldoAwal.String(),
		"saldo_akhir", s.SaldoAkhir.String())
	return s, nil
}

func (r *SQLiteRepository) GetSaldo(ctx context.Context, id int64) (core.Saldo, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+saldoColumns+" FROM saldo WHERE id = ?", id)
	s, err := scanSaldo(row)
	if err != nil {
		return core.Saldo{}, notFoundOr("get saldo", err)
	}
	return s, nil
}

// SaldoExistsByTanggal reports whether a snapshot already exists for the
// given YYYY-MM-DD day. The generator checks this before every creation.
func (r *SQLiteRepository) SaldoExistsByTanggal(ctx context.Context, tanggal string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM saldo WHERE tanggal = ?", tanggal).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("saldo exists: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) ListSaldo(ctx context.Context, page, limit int) ([]core.Saldo, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM saldo").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count saldo: %w", err)
	}

	lim, off := pageOffset(page, limit)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+saldoColumns+" FROM saldo ORDER BY tanggal LIMIT ? OFFSET ?", lim, off)
	if err != nil {
		return nil, 0, fmt.Errorf("list saldo: %w", err)
	}
	defer rows.Close()

	items := []core.Saldo{}
	for rows.Next() {
		s, err := scanSaldo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan saldo: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// LatestSaldo returns the most recent snapshot by calendar day. The
// dashboard's "total saldo aktif" card reads its saldo_akhir.
func (r *SQLiteRepository) LatestSaldo(ctx context.Context) (core.Saldo, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+saldoColumns+" FROM saldo ORDER BY tanggal DESC LIMIT 1")
	s, err := scanSaldo(row)
	if err != nil {
		return core.Saldo{}, notFoundOr("latest saldo", err)
	}
	return s, nil
}

// LastSaldoInMonth returns the last snapshot on or before the final day
// of the given month. ErrNotFound when the month has no snapshots yet.
func (r *SQLiteRepository) LastSaldoInMonth(ctx context.Context, tahun, bulan int) (core.Saldo, error) {
	prefix := fmt.Sprintf("%04d-%02d-", tahun, bulan)
	row := r.db.QueryRowContext(ctx,
		"SELECT "+saldoColumns+" FROM saldo WHERE tanggal LIKE ? || '%' ORDER BY tanggal DESC LIMIT 1", prefix)
	s, err := scanSaldo(row)
	if err != nil {
		return core.Saldo{}, notFoundOr("last saldo in month", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateSaldo(ctx context.Context, s core.Saldo) (core.Saldo, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE saldo
		 SET tanggal = ?, saldo_awal = ?, total_pendapatan = ?, total_pengeluaran = ?, saldo_akhir = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Tanggal, s.SaldoAwal.String(), s.TotalPendapatan.String(), s.TotalPengeluaran.String(), s.SaldoAkhir.String(), s.ID)
	if err != nil {
		return core.Saldo{}, fmt.Errorf("update saldo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Saldo{}, ErrNotFound
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSaldo(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM saldo WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete saldo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
