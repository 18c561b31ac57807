package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lantanajayadigital/sistem-keuangan/internal/amqp"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
	"github.com/lantanajayadigital/sistem-keuangan/internal/storage"
)

type fakeTransaksiStore struct {
	pendapatan  map[int64]core.Pendapatan
	pengeluaran map[int64]core.Pengeluaran
	nextID      int64
}

func newFakeTransaksiStore() *fakeTransaksiStore {
	return &fakeTransaksiStore{
		pendapatan:  make(map[int64]core.Pendapatan),
		pengeluaran: make(map[int64]core.Pengeluaran),
	}
}

func (f *fakeTransaksiStore) CreatePendapatan(_ context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	f.nextID++
	p.ID = f.nextID
	f.pendapatan[p.ID] = p
	return p, nil
}

func (f *fakeTransaksiStore) UpdatePendapatan(_ context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	if _, ok := f.pendapatan[p.ID]; !ok {
		return core.Pendapatan{}, storage.ErrNotFound
	}
	f.pendapatan[p.ID] = p
	return p, nil
}

func (f *fakeTransaksiStore) DeletePendapatan(_ context.Context, id int64) error {
	if _, ok := f.pendapatan[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.pendapatan, id)
	return nil
}

func (f *fakeTransaksiStore) GetPendapatan(_ context.Context, id int64) (core.Pendapatan, error) {
	p, ok := f.pendapatan[id]
	if !ok {
		return core.Pendapatan{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeTransaksiStore) CreatePengeluaran(_ context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	f.nextID++
	p.ID = f.nextID
	f.pengeluaran[p.ID] = p
	return p, nil
}

func (f *fakeTransaksiStore) UpdatePengeluaran(_ context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	if _, ok := f.pengeluaran[p.ID]; !ok {
		return core.Pengeluaran{}, storage.ErrNotFound
	}
	f.pengeluaran[p.ID] = p
	return p, nil
}

func (f *fakeTransaksiStore) DeletePengeluaran(_ context.Context, id int64) error {
	if _, ok := f.pengeluaran[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.pengeluaran, id)
	return nil
}

func (f *fakeTransaksiStore) GetPengeluaran(_ context.Context, id int64) (core.Pengeluaran, error) {
	p, ok := f.pengeluaran[id]
	if !ok {
		return core.Pengeluaran{}, storage.ErrNotFound
	}
	return p, nil
}

type fakePublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, event *amqp.TransactionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestCreatePendapatanPublishesEvent(t *testing.T) {
	store := newFakeTransaksiStore()
	pub := &fakePublisher{}
	svc := NewTransaksiService(store, pub)

	saved, err := svc.CreatePendapatan(context.Background(), income("2025-07-02", "100000"))
	if err != nil {
		t.Fatalf("CreatePendapatan failed: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected assigned ID")
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	event := pub.events[0]
	if event.Kind != core.KindPendapatan || event.Action != amqp.ActionCreate || event.ID != saved.ID {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestCreatePendapatanRejectsInvalid(t *testing.T) {
	svc := NewTransaksiService(newFakeTransaksiStore(), &fakePublisher{})

	bad := income("2025-07-02", "100000")
	bad.Sumber = ""
	if _, err := svc.CreatePendapatan(context.Background(), bad); !errors.Is(err, core.ErrEmptySumber) {
		t.Errorf("error = %v, want ErrEmptySumber", err)
	}
}

func TestCreatePengeluaranSurvivesPublishFailure(t *testing.T) {
	store := newFakeTransaksiStore()
	svc := NewTransaksiService(store, &fakePublisher{err: errors.New("broker down")})

	saved, err := svc.CreatePengeluaran(context.Background(), expense("2025-07-02", "40000"))
	if err != nil {
		t.Fatalf("CreatePengeluaran failed: %v", err)
	}
	if _, ok := store.pengeluaran[saved.ID]; !ok {
		t.Error("expected record to be saved despite publish failure")
	}
}

func TestDeletePengeluaranPublishesTanggal(t *testing.T) {
	store := newFakeTransaksiStore()
	pub := &fakePublisher{}
	svc := NewTransaksiService(store, pub)

	saved, err := svc.CreatePengeluaran(context.Background(), expense("2025-07-02", "40000"))
	if err != nil {
		t.Fatalf("CreatePengeluaran failed: %v", err)
	}

	if err := svc.DeletePengeluaran(context.Background(), saved.ID); err != nil {
		t.Fatalf("DeletePengeluaran failed: %v", err)
	}

	last := pub.events[len(pub.events)-1]
	if last.Action != amqp.ActionDelete || last.Tanggal != "2025-07-02" {
		t.Errorf("unexpected delete event %+v", last)
	}
}

func TestDeletePendapatanMissing(t *testing.T) {
	svc := NewTransaksiService(newFakeTransaksiStore(), &fakePublisher{})

	if err := svc.DeletePendapatan(context.Background(), 404); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want storage.ErrNotFound", err)
	}
}
