package services

import (
	"context"
	"testing"
	"time"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

type fakeDashboardStore struct {
	*fakeLedger
	latest    core.Saldo
	haveSaldo bool
}

func (f *fakeDashboardStore) LatestSaldo(context.Context) (core.Saldo, error) {
	if !f.haveSaldo {
		return core.Saldo{}, storage.ErrNotFound
	}
	return f.latest, nil
}

func TestDashboardSummary(t *testing.T) {
	ledger := newFakeLedger()
	ledger.pendapatan = []core.Pendapatan{
		income("2025-07-02", "150000"),
		income("2025-06-10", "80000"),
	}
	ledger.pengeluaran = []core.Pengeluaran{expense("2025-07-02", "45000")}

	store := &fakeDashboardStore{
		fakeLedger: ledger,
		latest:     core.Saldo{Tanggal: "2025-07-01", SaldoAkhir: amt("500000")},
		haveSaldo:  true,
	}

	svc := NewDashboardService(store)
	svc.now = func() time.Time { return time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC) }

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if !summary.PendapatanHari.Equal(amt("150000")) {
		t.Errorf("pendapatan_hari_ini = %s, want 150000", summary.PendapatanHari)
	}
	if !summary.PengeluaranHari.Equal(amt("45000")) {
		t.Errorf("pengeluaran_hari_ini = %s, want 45000", summary.PengeluaranHari)
	}
	if !summary.SaldoTerakhir.Equal(amt("500000")) {
		t.Errorf("saldo_terakhir = %s, want 500000", summary.SaldoTerakhir)
	}

	wantLabels := []string{"Jun 2025", "Jul 2025"}
	if len(summary.Bulanan.Labels) != len(wantLabels) {
		t.Fatalf("labels = %v, want %v", summary.Bulanan.Labels, wantLabels)
	}
	for i, label := range wantLabels {
		if summary.Bulanan.Labels[i] != label {
			t.Errorf("label[%d] = %q, want %q", i, summary.Bulanan.Labels[i], label)
		}
	}

	if len(summary.Transaksi) != 3 {
		t.Errorf("recent feed length = %d, want 3", len(summary.Transaksi))
	}
	// Newest first. The two July 2 entries tie on date, so the higher
	// kind-independent recency wins by ID order within the feed.
	if summary.Transaksi[len(summary.Transaksi)-1].Tanggal != "2025-06-10" {
		t.Errorf("oldest feed entry tanggal = %q, want 2025-06-10", summary.Transaksi[len(summary.Transaksi)-1].Tanggal)
	}
}

func TestDashboardSummaryNoSaldo(t *testing.T) {
	store := &fakeDashboardStore{fakeLedger: newFakeLedger()}

	summary, err := NewDashboardService(store).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !summary.SaldoTerakhir.IsZero() {
		t.Errorf("saldo_terakhir = %s, want 0", summary.SaldoTerakhir)
	}
	if len(summary.Transaksi) != 0 {
		t.Errorf("recent feed length = %d, want 0", len(summary.Transaksi))
	}
}
