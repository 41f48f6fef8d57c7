package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/ledger/memory"
)

type fakePublisher struct {
	events []*amqp.TransactionEvent
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, e *amqp.TransactionEvent) error {
	f.events = append(f.events, e)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

var salary = core.Transaction{Amount: decimal.RequireFromString("100.50"), Type: core.Income, Category: "Salary", Date: "2024-01-01"}

func TestLedgerService_Record(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	require.NoError(t, svc.Record(ctx, salary))
	require.Len(t, pub.events, 1)
	require.Equal(t, amqp.EventTransactionRecorded, pub.events[0].Event)
	require.Equal(t, "100.5", pub.events[0].Amount)

	txs, err := svc.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestLedgerService_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub)

	require.NoError(t, svc.Record(ctx, salary))
	ok, err := svc.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLedgerService_RecordInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	err := svc.Record(context.Background(), core.Transaction{Type: "Bogus"})
	require.ErrorIs(t, err, core.ErrInvalidType)
	require.Empty(t, pub.events)
}

func TestLedgerService_SummaryAndNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), nil)

	_, err := svc.Summary(ctx)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, svc.Record(ctx, salary))
	require.NoError(t, svc.Record(ctx, core.Transaction{Amount: decimal.NewFromInt(20), Type: core.Expense, Category: "Food", Date: "2024-01-02"}))

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "80.50", core.FormatAmount(sum.Balance))
	require.Len(t, sum.ByCategory, 1)
}

func TestLedgerService_ExportImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	require.NoError(t, svc.Record(ctx, salary))

	out := filepath.Join(dir, "backup.csv")
	require.NoError(t, svc.Export(ctx, out))
	n, err := svc.Import(ctx, out)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Len(t, pub.events, 2)
	require.Equal(t, amqp.EventTransactionsImported, pub.events[1].Event)
	require.Equal(t, 1, pub.events[1].Count)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Category,Date\nFood,2024-01-01\n"), 0o644))
	_, err = svc.Import(ctx, bad)
	require.ErrorIs(t, err, ledger.ErrParseFailure)
	require.Len(t, pub.events, 2)
}

func TestLedgerService_Close(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	require.NoError(t, svc.Close())
	require.True(t, pub.closed)

	require.NoError(t, NewLedgerService(memory.New(), nil).Close())
}
