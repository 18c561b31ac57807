package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

// fakeRepo keeps every resource in maps, mimicking repository behavior
// closely enough for handler tests.
type fakeRepo struct {
	pendapatan  map[int64]core.Pendapatan
	pengeluaran map[int64]core.Pengeluaran
	kategori    map[int64]core.KategoriPengeluaran
	saldo       map[int64]core.Saldo
	laporan     map[int64]core.LaporanBulanan
	users       map[int64]core.User
	settings    map[int64]core.Setting
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pendapatan:  make(map[int64]core.Pendapatan),
		pengeluaran: make(map[int64]core.Pengeluaran),
		kategori:    make(map[int64]core.KategoriPengeluaran),
		saldo:       make(map[int64]core.Saldo),
		laporan:     make(map[int64]core.LaporanBulanan),
		users:       make(map[int64]core.User),
		settings:    make(map[int64]core.Setting),
	}
}

func (f *fakeRepo) id() int64 { f.nextID++; return f.nextID }

func (f *fakeRepo) GetPendapatan(_ context.Context, id int64) (core.Pendapatan, error) {
	p, ok := f.pendapatan[id]
	if !ok {
		return core.Pendapatan{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListPendapatan(_ context.Context, page, limit int) ([]core.Pendapatan, int, error) {
	out := make([]core.Pendapatan, 0, len(f.pendapatan))
	for _, p := range f.pendapatan {
		out = append(out, p)
	}
	return out, len(f.pendapatan), nil
}

func (f *fakeRepo) GetPengeluaran(_ context.Context, id int64) (core.Pengeluaran, error) {
	p, ok := f.pengeluaran[id]
	if !ok {
		return core.Pengeluaran{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListPengeluaran(_ context.Context, page, limit int) ([]core.Pengeluaran, int, error) {
	out := make([]core.Pengeluaran, 0, len(f.pengeluaran))
	for _, p := range f.pengeluaran {
		out = append(out, p)
	}
	return out, len(f.pengeluaran), nil
}

func (f *fakeRepo) CreateKategori(_ context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error) {
	k.ID = f.id()
	f.kategori[k.ID] = k
	return k, nil
}

func (f *fakeRepo) GetKategori(_ context.Context, id int64) (core.KategoriPengeluaran, error) {
	k, ok := f.kategori[id]
	if !ok {
		return core.KategoriPengeluaran{}, storage.ErrNotFound
	}
	return k, nil
}

func (f *fakeRepo) ListKategori(_ context.Context, page, limit int) ([]core.KategoriPengeluaran, int, error) {
	out := make([]core.KategoriPengeluaran, 0, len(f.kategori))
	for _, k := range f.kategori {
		out = append(out, k)
	}
	return out, len(f.kategori), nil
}

func (f *fakeRepo) UpdateKategori(_ context.Context, k core.KategoriPengeluaran) (core.KategoriPengeluaran, error) {
	if _, ok := f.kategori[k.ID]; !ok {
		return core.KategoriPengeluaran{}, storage.ErrNotFound
	}
	f.kategori[k.ID] = k
	return k, nil
}

func (f *fakeRepo) DeleteKategori(_ context.Context, id int64) error {
	if _, ok := f.kategori[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.kategori, id)
	return nil
}

func (f *fakeRepo) CreateSaldo(_ context.Context, s core.Saldo) (core.Saldo, error) {
	s.ID = f.id()
	f.saldo[s.ID] = s
	return s, nil
}

func (f *fakeRepo) GetSaldo(_ context.Context, id int64) (core.Saldo, error) {
	s, ok := f.saldo[id]
	if !ok {
		return core.Saldo{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListSaldo(_ context.Context, page, limit int) ([]core.Saldo, int, error) {
	out := make([]core.Saldo, 0, len(f.saldo))
	for _, s := range f.saldo {
		out = append(out, s)
	}
	return out, len(f.saldo), nil
}

func (f *fakeRepo) UpdateSaldo(_ context.Context, s core.Saldo) (core.Saldo, error) {
	if _, ok := f.saldo[s.ID]; !ok {
		return core.Saldo{}, storage.ErrNotFound
	}
	f.saldo[s.ID] = s
	return s, nil
}

func (f *fakeRepo) DeleteSaldo(_ context.Context, id int64) error {
	if _, ok := f.saldo[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.saldo, id)
	return nil
}

func (f *fakeRepo) CreateLaporan(_ context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error) {
	l.ID = f.id()
	f.laporan[l.ID] = l
	return l, nil
}

func (f *fakeRepo) GetLaporan(_ context.Context, id int64) (core.LaporanBulanan, error) {
	l, ok := f.laporan[id]
	if !ok {
		return core.LaporanBulanan{}, storage.ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) ListLaporan(_ context.Context, page, limit int) ([]core.LaporanBulanan, int, error) {
	out := make([]core.LaporanBulanan, 0, len(f.laporan))
	for _, l := range f.laporan {
		out = append(out, l)
	}
	return out, len(f.laporan), nil
}

func (f *fakeRepo) ListAllLaporan(_ context.Context) ([]core.LaporanBulanan, error) {
	out := make([]core.LaporanBulanan, 0, len(f.laporan))
	for _, l := range f.laporan {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeRepo) UpdateLaporan(_ context.Context, l core.LaporanBulanan) (core.LaporanBulanan, error) {
	if _, ok := f.laporan[l.ID]; !ok {
		return core.LaporanBulanan{}, storage.ErrNotFound
	}
	f.laporan[l.ID] = l
	return l, nil
}

func (f *fakeRepo) DeleteLaporan(_ context.Context, id int64) error {
	if _, ok := f.laporan[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.laporan, id)
	return nil
}

func (f *fakeRepo) CreateUser(_ context.Context, u core.User) (core.User, error) {
	u.ID = f.id()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) ListUsers(_ context.Context, page, limit int) ([]core.User, int, error) {
	out := make([]core.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(f.users), nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, u core.User) (core.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return core.User{}, storage.ErrNotFound
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) CreateSetting(_ context.Context, s core.Setting) (core.Setting, error) {
	s.ID = f.id()
	f.settings[s.ID] = s
	return s, nil
}

func (f *fakeRepo) GetSetting(_ context.Context, id int64) (core.Setting, error) {
	s, ok := f.settings[id]
	if !ok {
		return core.Setting{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListSettings(_ context.Context, page, limit int) ([]core.Setting, int, error) {
	out := make([]core.Setting, 0, len(f.settings))
	for _, s := range f.settings {
		out = append(out, s)
	}
	return out, len(f.settings), nil
}

func (f *fakeRepo) UpdateSetting(_ context.Context, s core.Setting) (core.Setting, error) {
	if _, ok := f.settings[s.ID]; !ok {
		return core.Setting{}, storage.ErrNotFound
	}
	f.settings[s.ID] = s
	return s, nil
}

func (f *fakeRepo) DeleteSetting(_ context.Context, id int64) error {
	if _, ok := f.settings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.settings, id)
	return nil
}

// fakeAuth accepts the token "valid-token" as the admin user.
type fakeAuth struct {
	user core.User
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, core.User, error) {
	if username == "admin" && password == "rahasia123" {
		return "valid-token", f.user, nil
	}
	return "", core.User{}, fmt.Errorf("username atau password salah")
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (core.User, error) {
	if token != "valid-token" {
		return core.User{}, storage.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeAuth) Logout(context.Context, string) error { return nil }

type fakeTransaksi struct {
	repo *fakeRepo
}

func (f *fakeTransaksi) CreatePendapatan(_ context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	if err := p.Validate(); err != nil {
		return core.Pendapatan{}, err
	}
	p.ID = f.repo.id()
	f.repo.pendapatan[p.ID] = p
	return p, nil
}

func (f *fakeTransaksi) UpdatePendapatan(_ context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	if err := p.Validate(); err != nil {
		return core.Pendapatan{}, err
	}
	if _, ok := f.repo.pendapatan[p.ID]; !ok {
		return core.Pendapatan{}, storage.ErrNotFound
	}
	f.repo.pendapatan[p.ID] = p
	return p, nil
}

func (f *fakeTransaksi) DeletePendapatan(_ context.Context, id int64) error {
	if _, ok := f.repo.pendapatan[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.repo.pendapatan, id)
	return nil
}

func (f *fakeTransaksi) CreatePengeluaran(_ context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	if err := p.Validate(); err != nil {
		return core.Pengeluaran{}, err
	}
	p.ID = f.repo.id()
	f.repo.pengeluaran[p.ID] = p
	return p, nil
}

func (f *fakeTransaksi) UpdatePengeluaran(_ context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	if err := p.Validate(); err != nil {
		return core.Pengeluaran{}, err
	}
	if _, ok := f.repo.pengeluaran[p.ID]; !ok {
		return core.Pengeluaran{}, storage.ErrNotFound
	}
	f.repo.pengeluaran[p.ID] = p
	return p, nil
}

func (f *fakeTransaksi) DeletePengeluaran(_ context.Context, id int64) error {
	if _, ok := f.repo.pengeluaran[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.repo.pengeluaran, id)
	return nil
}

type fakeDashboard struct {
	calls int
}

func (f *fakeDashboard) Summary(context.Context) (services.DashboardSummary, error) {
	f.calls++
	return services.DashboardSummary{SaldoTerakhir: decimal.NewFromInt(int64(f.calls))}, nil
}

type fakeGenerator struct {
	created int
	err     error
}

func (f *fakeGenerator) Generate(context.Context) (int, error) {
	return f.created, f.err
}

func newTestServer(t *testing.T) (*Server, *fakeRepo, *fakeDashboard) {
	t.Helper()
	repo := newFakeRepo()
	dashboard := &fakeDashboard{}
	s := NewServer(":0", Deps{
		Repo:      repo,
		Transaksi: &fakeTransaksi{repo: repo},
		Auth:      &fakeAuth{user: core.User{ID: 1, Name: "Admin", Username: "admin", Role: core.RoleAdmin}},
		Dashboard: dashboard,
		Generator: &fakeGenerator{created: 3},
		UploadDir: t.TempDir(),
	})
	t.Cleanup(func() {
		s.stopJanitor()
		s.rateLimiter.stop()
	})
	return s, repo, dashboard
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer valid-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestLoginSuccess(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/login", map[string]string{
		"username": "admin",
		"password": "rahasia123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("expected success envelope")
	}
}

func TestMissingTokenRejected(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/pendapatan", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestCreatePendapatan(t *testing.T) {
	s, repo, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/pendapatan", map[string]any{
		"tanggal":           "2025-07-02",
		"sumber":            "Penjualan produk",
		"jumlah":            "150000",
		"metode_pembayaran": "tunai",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %q)", rec.Code, rec.Body.String())
	}
	if len(repo.pendapatan) != 1 {
		t.Errorf("stored %d pendapatan, want 1", len(repo.pendapatan))
	}
}

func TestCreatePendapatanValidationError(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/pendapatan", map[string]any{
		"tanggal":           "2025-07-02",
		"sumber":            "",
		"jumlah":            "150000",
		"metode_pembayaran": "tunai",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %q)", rec.Code, rec.Body.String())
	}
}

func TestListPendapatanMeta(t *testing.T) {
	s, repo, _ := newTestServer(t)
	repo.pendapatan[1] = core.Pendapatan{ID: 1, Tanggal: "2025-07-02", Sumber: "Penjualan", Jumlah: decimal.NewFromInt(1000), MetodePembayaran: core.Tunai}

	rec := doRequest(s, http.MethodGet, "/pendapatan?page=2&limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Meta == nil {
		t.Fatal("expected meta block")
	}
	if env.Meta.Total != 1 || env.Meta.Page != 2 || env.Meta.Limit != 5 {
		t.Errorf("meta = %+v, want total 1, page 2, limit 5", env.Meta)
	}
}

func TestGetPendapatanNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/pendapatan/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGenerateSaldoEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/saldo/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Message != "3 saldo berhasil dibuat" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestDashboardSummaryCached(t *testing.T) {
	s, _, dashboard := newTestServer(t)

	doRequest(s, http.MethodGet, "/dashboard/summary", nil)
	doRequest(s, http.MethodGet, "/dashboard/summary", nil)

	if dashboard.calls != 1 {
		t.Errorf("summary computed %d times, want 1 (second hit cached)", dashboard.calls)
	}

	// A mutation invalidates the cache, so the next read recomputes.
	doRequest(s, http.MethodPost, "/pendapatan", map[string]any{
		"tanggal":           "2025-07-02",
		"sumber":            "Penjualan",
		"jumlah":            "1000",
		"metode_pembayaran": "tunai",
	})
	doRequest(s, http.MethodGet, "/dashboard/summary", nil)

	if dashboard.calls != 2 {
		t.Errorf("summary computed %d times after mutation, want 2", dashboard.calls)
	}
}

func TestSaldoMutationInvalidatesSummary(t *testing.T) {
	s, _, dashboard := newTestServer(t)

	doRequest(s, http.MethodGet, "/dashboard/summary", nil)

	// Saldo snapshots feed saldo_terakhir, so writing one must drop the
	// cached summary just like a transaction does.
	rec := doRequest(s, http.MethodPost, "/saldo", map[string]any{
		"tanggal":           "2025-07-02",
		"saldo_awal":        "0",
		"total_pendapatan":  "100000",
		"total_pengeluaran": "40000",
		"saldo_akhir":       "60000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create saldo status = %d (body %q)", rec.Code, rec.Body.String())
	}

	doRequest(s, http.MethodGet, "/dashboard/summary", nil)
	if dashboard.calls != 2 {
		t.Errorf("summary computed %d times after saldo create, want 2", dashboard.calls)
	}

	doRequest(s, http.MethodPost, "/saldo/generate", nil)
	doRequest(s, http.MethodGet, "/dashboard/summary", nil)
	if dashboard.calls != 3 {
		t.Errorf("summary computed %d times after backfill, want 3", dashboard.calls)
	}
}

func TestUsersRouteRequiresAdmin(t *testing.T) {
	repo := newFakeRepo()
	s := NewServer(":0", Deps{
		Repo:      repo,
		Transaksi: &fakeTransaksi{repo: repo},
		Auth:      &fakeAuth{user: core.User{ID: 2, Name: "Staf", Username: "staf", Role: core.RoleUser}},
		Dashboard: &fakeDashboard{},
		Generator: &fakeGenerator{},
		UploadDir: t.TempDir(),
	})
	t.Cleanup(func() {
		s.stopJanitor()
		s.rateLimiter.stop()
	})

	rec := doRequest(s, http.MethodGet, "/users", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	s, repo, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/users", map[string]string{
		"name":     "Direktur Utama",
		"username": "direktur",
		"email":    "direktur@example.com",
		"role":     "direktur",
		"password": "kata-sandi",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %q)", rec.Code, rec.Body.String())
	}

	var created core.User
	for _, u := range repo.users {
		created = u
	}
	if created.PasswordHash == "" || created.PasswordHash == "kata-sandi" {
		t.Error("expected password to be stored hashed")
	}
}

func TestExportLaporanUnconfigured(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/laporan_bulanan/export", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
