package memory

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps transactions in process memory. It behaves like the file
// store: it does not exist until the first append or import.
type Store struct {
	mu      sync.Mutex
	created bool
	items   []core.Transaction
}

func New() *Store {
	return &Store{}
}

// NewFromFile seeds a store from a transaction file. A missing file yields
// an empty store that does not exist yet.
func NewFromFile(path string) (*Store, error) {
	s := New()
	txs, err := ledger.ReadFile(path)
	if err != nil {
		if ledger.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	s.created = true
	s.items = txs
	return s, nil
}

func (s *Store) Exists(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, nil
}

// Append stores the transaction after validating it.
func (s *Store) Append(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	s.items = append(s.items, t)
	return nil
}

// LoadAll returns a copy, so callers cannot change the stored sequence.
func (s *Store) LoadAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		return nil, ledger.NotFound("load", "memory")
	}
	return append([]core.Transaction{}, s.items...), nil
}

func (s *Store) ExportTo(ctx context.Context, path string) error {
	txs, err := s.LoadAll(ctx)
	if err != nil {
		return ledger.Annotate(err, "export", "memory")
	}
	if err := ledger.WriteFile(path, txs); err != nil {
		return ledger.Annotate(err, "export", path)
	}
	return nil
}

func (s *Store) ImportFrom(_ context.Context, path string) (int, error) {
	txs, err := ledger.ReadFile(path)
	if err != nil {
		return 0, ledger.Annotate(err, "import", path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	s.items = append(s.items, txs...)
	return len(txs), nil
}
