// Package services orchestrates business operations across storage,
// messaging, and the dashboard aggregation in core.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

// TransaksiLister supplies the full transaction history to the generator.
type TransaksiLister interface {
	ListAllPendapatan(ctx context.Context) ([]core.Pendapatan, error)
	ListAllPengeluaran(ctx context.Context) ([]core.Pengeluaran, error)
}

// SaldoStore is the slice of the repository the generator writes through.
type SaldoStore interface {
	SaldoExistsByTanggal(ctx context.Context, tanggal string) (bool, error)
	CreateSaldo(ctx context.Context, s core.Saldo) (core.Saldo, error)
}

// SaldoGenerator backfills one saldo snapshot per calendar day that has
// at least one transaction and no snapshot yet. Each day's saldo_awal is
// the previous day's saldo_akhir floored at zero.
type SaldoGenerator struct {
	transaksi TransaksiLister
	saldo     SaldoStore
}

func NewSaldoGenerator(transaksi TransaksiLister, saldo SaldoStore) *SaldoGenerator {
	return &SaldoGenerator{transaksi: transaksi, saldo: saldo}
}

type dayTotals struct {
	pendapatan  decimal.Decimal
	pengeluaran decimal.Decimal
}

// Generate walks every transaction day in ascending order and creates
// the missing snapshots. It returns how many were created. On the first
// storage failure it stops and returns the count created so far along
// with the error; already-created snapshots stay in place.
func (g *SaldoGenerator) Generate(ctx context.Context) (int, error) {
	pendapatan, err := g.transaksi.ListAllPendapatan(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pendapatan: %w", err)
	}
	pengeluaran, err := g.transaksi.ListAllPengeluaran(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pengeluaran: %w", err)
	}

	totals := make(map[string]*dayTotals)
	bucket := func(tanggal string) *dayTotals {
		t, ok := core.ParseTanggal(tanggal)
		if !ok {
			return nil
		}
		day := core.DayKey(t)
		d, ok := totals[day]
		if !ok {
			d = &dayTotals{}
			totals[day] = d
		}
		return d
	}

	for _, p := range pendapatan {
		if d := bucket(p.Tanggal); d != nil {
			d.pendapatan = d.pendapatan.Add(p.Jumlah)
		}
	}
	for _, p := range pengeluaran {
		if d := bucket(p.Tanggal); d != nil {
			d.pengeluaran = d.pengeluaran.Add(p.Jumlah)
		}
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	// Order matters: each day's opening depends on the previous day's
	// closing, so the fold is strictly sequential.
	running := decimal.Zero
	created := 0
	for _, day := range days {
		d := totals[day]
		closing := running.Add(d.pendapatan).Sub(d.pengeluaran)

		exists, err := g.saldo.SaldoExistsByTanggal(ctx, day)
		if err != nil {
			return created, fmt.Errorf("check saldo for %s: %w", day, err)
		}

		if !exists {
			snapshot := core.Saldo{
				Tanggal:          day,
				SaldoAwal:        running,
				TotalPendapatan:  d.pendapatan,
				TotalPengeluaran: d.pengeluaran,
				SaldoAkhir:       closing,
			}
			if err := snapshot.Validate(); err != nil {
				slog.WarnContext(ctx, "Skipping invalid saldo snapshot",
					"tanggal", day, "error", err)
			} else {
				if _, err := g.saldo.CreateSaldo(ctx, snapshot); err != nil {
					return created, fmt.Errorf("create saldo for %s: %w", day, err)
				}
				created++
			}
		}

		// Negative closings never carry forward.
		running = closing
		if running.IsNegative() {
			running = decimal.Zero
		}
	}

	slog.InfoContext(ctx, "Saldo backfill finished", "created", created, "days", len(days))
	return created, nil
}
