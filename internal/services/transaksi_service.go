package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lantanajayadigital/sistem-keuangan/internal/amqp"
	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

// TransaksiStore is the repository surface the service mutates through.
type TransaksiStore interface {
	CreatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error)
	UpdatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error)
	DeletePendapatan(ctx context.Context, id int64) error
	GetPendapatan(ctx context.Context, id int64) (core.Pendapatan, error)

	CreatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error)
	UpdatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error)
	DeletePengeluaran(ctx context.Context, id int64) error
	GetPengeluaran(ctx context.Context, id int64) (core.Pengeluaran, error)
}

// EventPublisher publishes transaction-changed events for the worker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransaksiService persists income and expense records and notifies the
// report worker. Persistence failures fail the request; publish failures
// are logged and swallowed, since the record is already saved and the
// worker rebuilds on a timer anyway.
type TransaksiService struct {
	store     TransaksiStore
	publisher EventPublisher
}

func NewTransaksiService(store TransaksiStore, publisher EventPublisher) *TransaksiService {
	return &TransaksiService{store: store, publisher: publisher}
}

func (s *TransaksiService) CreatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	if err := p.Validate(); err != nil {
		return core.Pendapatan{}, err
	}
	saved, err := s.store.CreatePendapatan(ctx, p)
	if err != nil {
		return core.Pendapatan{}, fmt.Errorf("create pendapatan: %w", err)
	}
	s.publish(ctx, core.KindPendapatan, saved.ID, amqp.ActionCreate, saved.Tanggal)
	return saved, nil
}

func (s *TransaksiService) UpdatePendapatan(ctx context.Context, p core.Pendapatan) (core.Pendapatan, error) {
	if err := p.Validate(); err != nil {
		return core.Pendapatan{}, err
	}
	saved, err := s.store.UpdatePendapatan(ctx, p)
	if err != nil {
		return core.Pendapatan{}, fmt.Errorf("update pendapatan: %w", err)
	}
	s.publish(ctx, core.KindPendapatan, saved.ID, amqp.ActionUpdate, saved.Tanggal)
	return saved, nil
}

func (s *TransaksiService) DeletePendapatan(ctx context.Context, id int64) error {
	existing, err := s.store.GetPendapatan(ctx, id)
	if err != nil {
		return fmt.Errorf("get pendapatan: %w", err)
	}
	if err := s.store.DeletePendapatan(ctx, id); err != nil {
		return fmt.Errorf("delete pendapatan: %w", err)
	}
	s.publish(ctx, core.KindPendapatan, id, amqp.ActionDelete, existing.Tanggal)
	return nil
}

func (s *TransaksiService) CreatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	if err := p.Validate(); err != nil {
		return core.Pengeluaran{}, err
	}
	saved, err := s.store.CreatePengeluaran(ctx, p)
	if err != nil {
		return core.Pengeluaran{}, fmt.Errorf("create pengeluaran: %w", err)
	}
	s.publish(ctx, core.KindPengeluaran, saved.ID, amqp.ActionCreate, saved.Tanggal)
	return saved, nil
}

func (s *TransaksiService) UpdatePengeluaran(ctx context.Context, p core.Pengeluaran) (core.Pengeluaran, error) {
	if err := p.Validate(); err != nil {
		return core.Pengeluaran{}, err
	}
	saved, err := s.store.UpdatePengeluaran(ctx, p)
	if err != nil {
		return core.Pengeluaran{}, fmt.Errorf("update pengeluaran: %w", err)
	}
	s.publish(ctx, core.KindPengeluaran, saved.ID, amqp.ActionUpdate, saved.Tanggal)
	return saved, nil
}

func (s *TransaksiService) DeletePengeluaran(ctx context.Context, id int64) error {
	existing, err := s.store.GetPengeluaran(ctx, id)
	if err != nil {
		return fmt.Errorf("get pengeluaran: %w", err)
	}
	if err := s.store.DeletePengeluaran(ctx, id); err != nil {
		return fmt.Errorf("delete pengeluaran: %w", err)
	}
	s.publish(ctx, core.KindPengeluaran, id, amqp.ActionDelete, existing.Tanggal)
	return nil
}

func (s *TransaksiService) publish(ctx context.Context, kind core.TransactionKind, id int64, action, tanggal string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping transaction event")
		return
	}

	event := amqp.NewTransactionEvent(kind, id, action, tanggal)
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind, "id", id, "action", action, "error", err)
	}
}
