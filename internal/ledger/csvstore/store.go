// Package csvstore keeps transactions in a single append-only CSV file.
//
// The file is created with a header row on the first append and only ever
// grows afterwards. Every read parses the whole file again; nothing is
// cached between calls. Concurrent writers, in this or another process,
// are not supported.
package csvstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

var _ ledger.Store = (*Store)(nil)

type Store struct {
	path string
	// write is f.Write outside of tests.
	write func(f *os.File, data []byte) (int, error)
}

// New returns a store backed by the file at path. The file is not touched
// until the first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file name.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if ledger.IsNotExist(err) {
			return false, nil
		}
		return false, ledger.IOFailure("stat", s.path, err)
	}
	if info.IsDir() {
		return false, ledger.IOFailure("stat", s.path, fmt.Errorf("%s is a directory", s.path))
	}
	return true, nil
}

// Append writes one row, creating the file with its header when needed.
func (s *Store) Append(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if err := s.appendRows("append", []core.Transaction{t}); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Transaction appended", log.NewFields().
		WithComponent(log.ComponentStore).
		WithPath(s.path).
		WithTransaction(t.Amount.String(), t.Type.String(), string(t.Category), string(t.Date)).
		ToSlice()...)
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if ledger.IsNotExist(err) {
			return nil, ledger.NotFound("load", s.path)
		}
		return nil, ledger.IOFailure("load", s.path, err)
	}
	defer f.Close()

	txs, err := ledger.Decode(f)
	if err != nil {
		return nil, ledger.Annotate(err, "load", s.path)
	}
	return txs, nil
}

// ExportTo writes the current contents to dest. The store must exist.
func (s *Store) ExportTo(ctx context.Context, dest string) error {
	txs, err := s.LoadAll(ctx)
	if err != nil {
		return ledger.Annotate(err, "export", s.path)
	}
	if err := ledger.WriteFile(dest, txs); err != nil {
		return ledger.Annotate(err, "export", dest)
	}
	slog.DebugContext(ctx, "Transactions exported", log.FieldPath, s.path, "to", dest, log.FieldCount, len(txs))
	return nil
}

// ImportFrom appends every row of src. The whole file is validated first,
// so a malformed src leaves the store untouched.
func (s *Store) ImportFrom(ctx context.Context, src string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	txs, err := ledger.ReadFile(src)
	if err != nil {
		return 0, ledger.Annotate(err, "import", src)
	}
	if err := s.appendRows("import", txs); err != nil {
		return 0, err
	}
	slog.DebugContext(ctx, "Transactions imported", "from", src, log.FieldPath, s.path, log.FieldCount, len(txs))
	return len(txs), nil
}

// appendRows writes txs at the end of the file in a single write, in the
// column order of the existing header. If the write fails the file is
// truncated back to its previous size.
func (s *Store) appendRows(op string, txs []core.Transaction) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return ledger.IOFailure(op, s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return ledger.IOFailure(op, s.path, err)
	}
	size := info.Size()

	var (
		cols []int
		lead []byte
	)
	if size > 0 {
		cols, err = ledger.ReadHeader(io.NewSectionReader(f, 0, size))
		if err != nil {
			f.Close()
			return ledger.Annotate(err, op, s.path)
		}
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			f.Close()
			return ledger.IOFailure(op, s.path, err)
		}
		if last[0] != '\n' {
			lead = []byte{'\n'}
		}
	}

	var buf bytes.Buffer
	buf.Write(lead)
	if err := ledger.EncodeWithColumns(&buf, txs, cols, cols == nil); err != nil {
		f.Close()
		return ledger.IOFailure(op, s.path, err)
	}

	write := s.write
	if write == nil {
		write = (*os.File).Write
	}
	if _, err := write(f, buf.Bytes()); err != nil {
		return s.rollback(f, op, size, err)
	}
	if err := f.Sync(); err != nil {
		return s.rollback(f, op, size, err)
	}
	if err := f.Close(); err != nil {
		return ledger.IOFailure(op, s.path, err)
	}
	return nil
}

func (s *Store) rollback(f *os.File, op string, size int64, cause error) error {
	if err := f.Truncate(size); err != nil {
		slog.Error("Failed to restore transaction file after write error",
			log.FieldPath, s.path, "size", size, log.FieldError, err)
	}
	f.Close()
	return ledger.IOFailure(op, s.path, cause)
}
