package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

// LaporanStore is the slice of the repository the processor writes through.
type LaporanStore interface {
	UpsertLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error)
	LastSaldoInMonth(ctx context.Context, tahun, bulan int) (core.Saldo, error)
}

// LaporanProcessor recomputes monthly report rows from the transaction
// history. The worker runs it on every transaction event and on a timer.
type LaporanProcessor struct {
	transaksi TransaksiLister
	laporan   LaporanStore
}

func NewLaporanProcessor(transaksi TransaksiLister, laporan LaporanStore) *LaporanProcessor {
	return &LaporanProcessor{transaksi: transaksi, laporan: laporan}
}

// RebuildForMonth recomputes the totals for one (tahun, bulan) pair and
// upserts the laporan row. The saldo_akhir column takes the closing
// balance of the month's last saldo snapshot; when the month has no
// snapshot it falls back to pendapatan minus pengeluaran.
func (p *LaporanProcessor) RebuildForMonth(ctx context.Context, tahun, bulan int) (core.LaporanBulanan, error) {
	if bulan < 1 || bulan > 12 {
		return core.LaporanBulanan{}, core.ErrInvalidBulan
	}

	pendapatan, err := p.transaksi.ListAllPendapatan(ctx)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("list pendapatan: %w", err)
	}
	pengeluaran, err := p.transaksi.ListAllPengeluaran(ctx)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("list pengeluaran: %w", err)
	}

	masuk := make([]core.Transaction, 0, len(pendapatan))
	for _, p := range pendapatan {
		masuk = append(masuk, p.Transaction())
	}
	keluar := make([]core.Transaction, 0, len(pengeluaran))
	for _, p := range pengeluaran {
		keluar = append(keluar, p.Transaction())
	}

	totalMasuk, totalKeluar := core.MonthTotals(masuk, keluar, tahun, time.Month(bulan))

	laporan := core.LaporanBulanan{
		Tahun:            tahun,
		Bulan:            bulan,
		TotalPendapatan:  totalMasuk,
		TotalPengeluaran: totalKeluar,
		SaldoAkhir:       totalMasuk.Sub(totalKeluar),
	}

	lastSaldo, err := p.laporan.LastSaldoInMonth(ctx, tahun, bulan)
	switch {
	case err == nil:
		laporan.SaldoAkhir = lastSaldo.SaldoAkhir
	case errors.Is(err, storage.ErrNotFound):
		// No snapshot this month, keep the totals-based fallback.
	default:
		return core.LaporanBulanan{}, fmt.Errorf("last saldo for %04d-%02d: %w", tahun, bulan, err)
	}

	saved, err := p.laporan.UpsertLaporan(ctx, laporan)
	if err != nil {
		return core.LaporanBulanan{}, fmt.Errorf("upsert laporan %04d-%02d: %w", tahun, bulan, err)
	}

	slog.InfoContext(ctx, "Rebuilt laporan bulanan",
		"tahun", tahun,
		"bulan", bulan,
		"total_pendapatan", saved.TotalPendapatan,
		"total_pengeluaran", saved.TotalPengeluaran)
	return saved, nil
}

// RebuildAll rebuilds every month that has at least one transaction,
// oldest month first. Returns how many months were rebuilt; stops at the
// first failure.
func (p *LaporanProcessor) RebuildAll(ctx context.Context) (int, error) {
	pendapatan, err := p.transaksi.ListAllPendapatan(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pendapatan: %w", err)
	}
	pengeluaran, err := p.transaksi.ListAllPengeluaran(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pengeluaran: %w", err)
	}

	type month struct{ tahun, bulan int }
	seen := make(map[month]bool)
	months := []month{}
	collect := func(tanggal string) {
		t, ok := core.ParseTanggal(tanggal)
		if !ok {
			return
		}
		m := month{t.Year(), int(t.Month())}
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	for _, p := range pendapatan {
		collect(p.Tanggal)
	}
	for _, p := range pengeluaran {
		collect(p.Tanggal)
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].tahun != months[j].tahun {
			return months[i].tahun < months[j].tahun
		}
		return months[i].bulan < months[j].bulan
	})

	for i, m := range months {
		if _, err := p.RebuildForMonth(ctx, m.tahun, m.bulan); err != nil {
			return i, err
		}
	}
	return len(months), nil
}

// RebuildForTanggal rebuilds the month containing tanggal, which may be
// any format ParseTanggal accepts. Unparseable dates rebuild the current
// month, since a transaction with a broken date still changes totals
// somewhere and the current month is the most likely place.
func (p *LaporanProcessor) RebuildForTanggal(ctx context.Context, tanggal string) (core.LaporanBulanan, error) {
	t, ok := core.ParseTanggal(tanggal)
	if !ok {
		t = time.Now()
		slog.WarnContext(ctx, "Rebuilding current month for unparseable tanggal", "tanggal", tanggal)
	}
	return p.RebuildForMonth(ctx, t.Year(), int(t.Month()))
}
