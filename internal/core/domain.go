package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Tunai    MetodePembayaran = "tunai"
	Transfer MetodePembayaran = "transfer"
	QRIS     MetodePembayaran = "qris"
)

const (
	KindPendapatan  TransactionKind = "pendapatan"
	KindPengeluaran TransactionKind = "pengeluaran"
)

const (
	RoleAdmin    = "admin"
	RoleDirektur = "direktur"
	RoleUser     = "user"
)

type (
	MetodePembayaran string

	TransactionKind string

	// Pendapatan is a single income record.
	Pendapatan struct {
		ID               int64            `json:"id"`
		UserID           int64            `json:"user_id"`
		Tanggal          string           `json:"tanggal"`
		Sumber           string           `json:"sumber"`
		Jumlah           decimal.Decimal  `json:"jumlah"`
		MetodePembayaran MetodePembayaran `json:"metode_pembayaran"`
		Keterangan       string           `json:"keterangan,omitempty"`
	}

	// Pengeluaran is a single expense record.
	Pengeluaran struct {
		ID               int64            `json:"id"`
		UserID           int64            `json:"user_id"`
		KategoriID       int64            `json:"kategori_id"`
		Tanggal          string           `json:"tanggal"`
		Penerima         string           `json:"penerima"`
		Jumlah           decimal.Decimal  `json:"jumlah"`
		MetodePembayaran MetodePembayaran `json:"metode_pembayaran"`
		Keterangan       string           `json:"keterangan,omitempty"`
	}

	KategoriPengeluaran struct {
		ID        int64  `json:"id"`
		Nama      string `json:"nama"`
		Deskripsi string `json:"deskripsi,omitempty"`
	}

	// Saldo is the balance snapshot for one calendar day. Tanggal is
	// always normalized to YYYY-MM-DD and unique per day.
	Saldo struct {
		ID               int64           `json:"id"`
		Tanggal          string          `json:"tanggal"`
		SaldoAwal        decimal.Decimal `json:"saldo_awal"`
		TotalPendapatan  decimal.Decimal `json:"total_pendapatan"`
		TotalPengeluaran decimal.Decimal `json:"total_pengeluaran"`
		SaldoAkhir       decimal.Decimal `json:"saldo_akhir"`
	}

	LaporanBulanan struct {
		ID               int64           `json:"id"`
		Bulan            int             `json:"bulan"` // 1-12
		Tahun            int             `json:"tahun"`
		TotalPendapatan  decimal.Decimal `json:"total_pendapatan"`
		TotalPengeluaran decimal.Decimal `json:"total_pengeluaran"`
		SaldoAkhir       decimal.Decimal `json:"saldo_akhir"`
		Catatan          string          `json:"catatan,omitempty"`
	}

	User struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Username     string `json:"username"`
		Email        string `json:"email"`
		Role         string `json:"role"`
		PasswordHash string `json:"-"`
	}

	// Setting holds the company profile shown on reports.
	Setting struct {
		ID              int64  `json:"id"`
		NamaPerusahaan  string `json:"nama_perusahaan"`
		Alamat          string `json:"alamat"`
		LogoPath        string `json:"logo_path,omitempty"`
		Kontak          string `json:"kontak"`
		EmailPerusahaan string `json:"email_perusahaan"`
	}

	// Transaction is the tagged union over Pendapatan and Pengeluaran
	// consumed by the dashboard aggregator. Pihak carries the income
	// source or the expense recipient depending on Kind.
	Transaction struct {
		ID               int64            `json:"id"`
		Kind             TransactionKind  `json:"jenis"`
		Tanggal          string           `json:"tanggal"`
		Jumlah           decimal.Decimal  `json:"jumlah"`
		Pihak            string           `json:"pihak"`
		MetodePembayaran MetodePembayaran `json:"metode_pembayaran"`
		Keterangan       string           `json:"keterangan,omitempty"`
	}
)

var (
	ErrInvalidTanggal     = errors.New("invalid tanggal")
	ErrInvalidJumlah      = errors.New("invalid jumlah")
	ErrInvalidMetode      = errors.New("invalid metode pembayaran")
	ErrInvalidBulan       = errors.New("invalid bulan")
	ErrInvalidTahun       = errors.New("invalid tahun")
	ErrEmptySumber        = errors.New("empty sumber")
	ErrEmptyPenerima      = errors.New("empty penerima")
	ErrEmptyNama          = errors.New("empty nama")
	ErrMissingKategori    = errors.New("missing kategori")
	ErrSaldoIdentity      = errors.New("saldo_akhir does not equal saldo_awal + pendapatan - pengeluaran")
	ErrNegativeSaldoAwal  = errors.New("saldo_awal cannot be negative")
	ErrEmptyUsername      = errors.New("empty username")
	ErrInvalidRole        = errors.New("invalid role")
	ErrKeteranganTooLong  = errors.New("keterangan too long (max 200 characters)")
)

func (m MetodePembayaran) Valid() bool {
	switch m {
	case Tunai, Transfer, QRIS:
		return true
	}
	return false
}

func (p Pendapatan) Validate() error {
	if _, ok := ParseTanggal(p.Tanggal); !ok {
		return ErrInvalidTanggal
	}
	if strings.TrimSpace(p.Sumber) == "" {
		return ErrEmptySumber
	}
	if p.Jumlah.Sign() <= 0 {
		return ErrInvalidJumlah
	}
	if !p.MetodePembayaran.Valid() {
		return ErrInvalidMetode
	}
	if len(p.Keterangan) > 200 {
		return ErrKeteranganTooLong
	}
	return nil
}

func (p Pengeluaran) Validate() error {
	if _, ok := ParseTanggal(p.Tanggal); !ok {
		return ErrInvalidTanggal
	}
	if p.KategoriID <= 0 {
		return ErrMissingKategori
	}
	if strings.TrimSpace(p.Penerima) == "" {
		return ErrEmptyPenerima
	}
	if p.Jumlah.Sign() <= 0 {
		return ErrInvalidJumlah
	}
	if !p.MetodePembayaran.Valid() {
		return ErrInvalidMetode
	}
	if len(p.Keterangan) > 200 {
		return ErrKeteranganTooLong
	}
	return nil
}

func (k KategoriPengeluaran) Validate() error {
	if strings.TrimSpace(k.Nama) == "" {
		return ErrEmptyNama
	}
	return nil
}

// Validate checks the per-day snapshot invariants: a real calendar day,
// non-negative components, and the closing-balance identity.
func (s Saldo) Validate() error {
	if _, err := ParseDayKey(s.Tanggal); err != nil {
		return ErrInvalidTanggal
	}
	if s.SaldoAwal.Sign() < 0 {
		return ErrNegativeSaldoAwal
	}
	if s.TotalPendapatan.Sign() < 0 || s.TotalPengeluaran.Sign() < 0 {
		return ErrInvalidJumlah
	}
	want := s.SaldoAwal.Add(s.TotalPendapatan).Sub(s.TotalPengeluaran)
	if !s.SaldoAkhir.Equal(want) {
		return ErrSaldoIdentity
	}
	return nil
}

func (l LaporanBulanan) Validate() error {
	if l.Bulan < 1 || l.Bulan > 12 {
		return ErrInvalidBulan
	}
	if l.Tahun < 2000 || l.Tahun > 2200 {
		return ErrInvalidTahun
	}
	if l.TotalPendapatan.Sign() < 0 || l.TotalPengeluaran.Sign() < 0 {
		return ErrInvalidJumlah
	}
	return nil
}

func (s Setting) Validate() error {
	if strings.TrimSpace(s.NamaPerusahaan) == "" {
		return ErrEmptyNama
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyNama
	}
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	switch u.Role {
	case RoleAdmin, RoleDirektur, RoleUser:
	default:
		return ErrInvalidRole
	}
	return nil
}

// Transaction converts an income record to its tagged-union form.
func (p Pendapatan) Transaction() Transaction {
	return Transaction{
		ID:               p.ID,
		Kind:             KindPendapatan,
		Tanggal:          p.Tanggal,
		Jumlah:           p.Jumlah,
		Pihak:            p.Sumber,
		MetodePembayaran: p.MetodePembayaran,
		Keterangan:       p.Keterangan,
	}
}

// Transaction converts an expense record to its tagged-union form.
func (p Pengeluaran) Transaction() Transaction {
	return Transaction{
		ID:               p.ID,
		Kind:             KindPengeluaran,
		Tanggal:          p.Tanggal,
		Jumlah:           p.Jumlah,
		Pihak:            p.Penerima,
		MetodePembayaran: p.MetodePembayaran,
		Keterangan:       p.Keterangan,
	}
}
