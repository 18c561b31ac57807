package http

import (
	"context"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
)

// TransaksiWriter mutates income and expense records. Mutations go
// through the service so transaction events reach the report worker.
type TransaksiWriter interface {
	CreatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error)
	UpdatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error)
	DeletePendapatan(ctx context.Context, id int64) error

	CreatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error)
	UpdatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error)
	DeletePengeluaran(ctx context.Context, id int64) error
}

// Repository is the read/write surface the handlers use directly.
type Repository interface {
	GetPendapatan(ctx context.Context, id int64) (core.Pendapatan, error)
	ListPendapatan(ctx context.Context, page, limit int) ([]core.Pendapatan, int, error)
	GetPengeluaran(ctx context.Context, id int64) (core.Pengeluaran, error)
	ListPengeluaran(ctx context.Context, page, limit int) ([]core.Pengeluaran, int, error)

	CreateKategori(ctx context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error)
	GetKategori(ctx context.Context, id int64) (core.KategoriPengeluaran, error)
	ListKategori(ctx context.Context, page, limit int) ([]core.KategoriPengeluaran, int, error)
	UpdateKategori(ctx context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error)
	DeleteKategori(ctx context.Context, id int64) error

	CreateSaldo(ctx context.Context, s core.Saldo) (core.Saldo, error)
	GetSaldo(ctx context.Context, id int64) (core.Saldo, error)
	ListSaldo(ctx context.Context, page, limit int) ([]core.Saldo, int, error)
	UpdateSaldo(ctx context.Context, s core.Saldo) (core.Saldo, error)
	DeleteSaldo(ctx context.Context, id int64) error

	CreateLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error)
	GetLaporan(ctx context.Context, id int64) (core.LaporanBulanan, error)
	ListLaporan(ctx context.Context, page, limit int) ([]core.LaporanBulanan, int, error)
	ListAllLaporan(ctx context.Context) ([]core.LaporanBulanan, error)
	UpdateLaporan(ctx context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error)
	DeleteLaporan(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, u core.User) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]core.User, int, error)
	UpdateUser(ctx context.Context, u core.User) (core.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateSetting(ctx context.Context, s core.Setting) (core.Setting, error)
	GetSetting(ctx context.Context, id int64) (core.Setting, error)
	ListSettings(ctx context.Context, page, limit int) ([]core.Setting, int, error)
	UpdateSetting(ctx context.Context, s core.Setting) (core.Setting, error)
	DeleteSetting(ctx context.Context, id int64) error
}

// Authenticator resolves credentials and bearer tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, core.User, error)
	Authenticate(ctx context.Context, token string) (core.User, error)
	Logout(ctx context.Context, token string) error
}

// SummaryProvider computes the dashboard payload.
type SummaryProvider interface {
	Summary(ctx context.Context) (services.DashboardSummary, error)
}

// SaldoBackfiller runs the carry-forward generator.
type SaldoBackfiller interface {
	Generate(ctx context.Context) (int, error)
}

// LaporanExporter pushes report rows to an external spreadsheet.
type LaporanExporter interface {
	ExportLaporan(ctx context.Context, laporan []core.LaporanBulanan) (string, error)
}
