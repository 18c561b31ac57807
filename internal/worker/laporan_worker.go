// Package worker keeps laporan_bulanan rows in sync with the
// transaction history.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lantanajayadigital/sistem-keuangan/internal/amqp"
	"github.com/lantanajayadigital/sistem-keuangan/internal/services"
)

// EventConsumer delivers transaction events from the queue.
type EventConsumer interface {
	ConsumeTransactionEvents(ctx context.Context, handler func(*amqp.TransactionEvent) error) error
}

// LaporanWorker rebuilds monthly reports when transactions change, and
// periodically rebuilds every month that has transactions as a safety
// net for events lost while the broker or worker was down.
type LaporanWorker struct {
	consumer  EventConsumer
	processor *services.LaporanProcessor
	interval  time.Duration
}

func NewLaporanWorker(consumer EventConsumer, processor *services.LaporanProcessor, interval time.Duration) *LaporanWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &LaporanWorker{consumer: consumer, processor: processor, interval: interval}
}

// Run blocks until ctx is canceled, consuming events and running the
// periodic rebuild concurrently.
func (w *LaporanWorker) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumeEvents(gctx)
	})
	g.Go(func() error {
		return w.periodicRebuild(gctx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("laporan worker: %w", err)
	}
	return nil
}

func (w *LaporanWorker) consumeEvents(ctx context.Context) error {
	return w.consumer.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		slog.InfoContext(ctx, "Processing transaction event",
			"kind", event.Kind,
			"id", event.ID,
			"action", event.Action,
			"tanggal", event.Tanggal)

		if _, err := w.processor.RebuildForTanggal(ctx, event.Tanggal); err != nil {
			return fmt.Errorf("rebuild laporan for %q: %w", event.Tanggal, err)
		}
		return nil
	})
}

func (w *LaporanWorker) periodicRebuild(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := w.processor.RebuildAll(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Periodic laporan rebuild failed", "rebuilt", n, "error", err)
				continue
			}
			slog.InfoContext(ctx, "Periodic laporan rebuild done", "months", n)
		}
	}
}
