package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

// DashboardStore is the read surface the dashboard summary needs.
type DashboardStore interface {
	TransaksiLister
	LatestSaldo(ctx context.Context) (core.Saldo, error)
}

// DashboardSummary is the payload behind GET /dashboard/summary.
type DashboardSummary struct {
	Bulanan          core.MonthlySeries `json:"bulanan"`
	PendapatanHari   decimal.Decimal    `json:"pendapatan_hari_ini"`
	PengeluaranHari  decimal.Decimal    `json:"pengeluaran_hari_ini"`
	PendapatanBulan  decimal.Decimal    `json:"pendapatan_bulan_ini"`
	PengeluaranBulan decimal.Decimal    `json:"pengeluaran_bulan_ini"`
	SaldoTerakhir    decimal.Decimal    `json:"saldo_terakhir"`
	Transaksi        []core.Transaction `json:"transaksi_terbaru"`
}

// DashboardService assembles chart series and the recent-transaction
// feed from the full transaction history.
type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Summary fetches both transaction lists concurrently and folds them
// into the dashboard payload.
func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	var (
		pendapatan  []core.Pendapatan
		pengeluaran []core.Pengeluaran
		latest      core.Saldo
		haveSaldo   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pendapatan, err = s.store.ListAllPendapatan(gctx)
		if err != nil {
			return fmt.Errorf("list pendapatan: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pengeluaran, err = s.store.ListAllPengeluaran(gctx)
		if err != nil {
			return fmt.Errorf("list pengeluaran: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		saldo, err := s.store.LatestSaldo(gctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("latest saldo: %w", err)
		}
		latest, haveSaldo = saldo, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}

	masuk := make([]core.Transaction, 0, len(pendapatan))
	for _, p := range pendapatan {
		masuk = append(masuk, p.Transaction())
	}
	keluar := make([]core.Transaction, 0, len(pengeluaran))
	for _, p := range pengeluaran {
		keluar = append(keluar, p.Transaction())
	}

	now := s.now()
	hariMasuk, hariKeluar := core.TodayComposition(masuk, keluar, now)
	bulanMasuk, bulanKeluar := core.MonthTotals(masuk, keluar, now.Year(), now.Month())

	summary := DashboardSummary{
		Bulanan:          core.BucketByMonth(masuk, keluar),
		PendapatanHari:   hariMasuk,
		PengeluaranHari:  hariKeluar,
		PendapatanBulan:  bulanMasuk,
		PengeluaranBulan: bulanKeluar,
		Transaksi:        core.RecentFeed(masuk, keluar, core.DefaultRecentFeedSize),
	}
	if haveSaldo {
		summary.SaldoTerakhir = latest.SaldoAkhir
	} else {
		summary.SaldoTerakhir = decimal.Zero
	}
	return summary, nil
}
