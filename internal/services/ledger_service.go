package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/analysis"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

// Publisher announces ledger changes to other systems.
type Publisher interface {
	Publish(ctx context.Context, event *amqp.TransactionEvent) error
}

// LedgerService orchestrates store operations and optional event publishing.
type LedgerService struct {
	store     ledger.Store
	publisher Publisher
}

// NewLedgerService wires a store with an optional publisher; pass nil to
// disable events.
func NewLedgerService(store ledger.Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

func (s *LedgerService) Exists(ctx context.Context) (bool, error) {
	return s.store.Exists(ctx)
}

// Record appends a transaction and publishes a recorded event.
func (s *LedgerService) Record(ctx context.Context, t core.Transaction) error {
	if err := s.store.Append(ctx, t); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded", log.NewFields().
		WithOperation(log.OpAppend).
		WithTransaction(t.Amount.String(), t.Type.String(), string(t.Category), string(t.Date)).
		ToSlice()...)

	s.publish(ctx, amqp.NewRecordedEvent(t.Amount.String(), t.Type.String(), string(t.Category), string(t.Date)))
	return nil
}

// Transactions returns a fresh snapshot of the store.
func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.LoadAll(ctx)
}

// Summary loads a snapshot and aggregates it.
func (s *LedgerService) Summary(ctx context.Context) (core.Summary, error) {
	txs, err := s.store.LoadAll(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return analysis.Summarize(txs), nil
}

func (s *LedgerService) Export(ctx context.Context, path string) error {
	if err := s.store.ExportTo(ctx, path); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transactions exported", log.FieldOperation, log.OpExport, log.FieldPath, path)
	return nil
}

// Import appends every transaction of path to the store and returns how
// many were appended.
func (s *LedgerService) Import(ctx context.Context, path string) (int, error) {
	n, err := s.store.ImportFrom(ctx, path)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Transactions imported",
		log.FieldOperation, log.OpImport,
		log.FieldPath, path,
		log.FieldCount, n)

	s.publish(ctx, amqp.NewImportedEvent(path, n))
	return n, nil
}

// publish never fails the caller: the write has already succeeded.
func (s *LedgerService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping", log.FieldEvent, event.Event)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			log.FieldEvent, event.Event, log.FieldError, err)
	}
}

// Close releases the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok && s.publisher != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
