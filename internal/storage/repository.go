package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

// SQLiteRepository stores transactions in a SQLite table, in insertion order.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Exists reports whether anything was ever appended or imported.
func (r *SQLiteRepository) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ledger_meta WHERE key = 'created_at')`).Scan(&exists)
	if err != nil {
		return false, ledger.IOFailure("stat", r.path, err)
	}
	return exists, nil
}

// Append implements ledger.Writer
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if err := r.insert(ctx, []core.Transaction{t}); err != nil {
		return ledger.IOFailure("append", r.path, err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite", log.NewFields().
		WithComponent(log.ComponentStorage).
		WithTransaction(t.Amount.String(), t.Type.String(), string(t.Category), string(t.Date)).
		ToSlice()...)
	return nil
}

func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	exists, err := r.Exists(ctx)
	if err != nil {
		return nil, ledger.Annotate(err, "load", r.path)
	}
	if !exists {
		return nil, ledger.NotFound("load", r.path)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, type, category, date FROM transactions ORDER BY id`)
	if err != nil {
		return nil, ledger.IOFailure("load", r.path, fmt.Errorf("query transactions: %w", err))
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			id                           int64
			amount, kind, category, date string
		)
		if err := rows.Scan(&id, &amount, &kind, &category, &date); err != nil {
			return nil, ledger.IOFailure("load", r.path, fmt.Errorf("scan transaction: %w", err))
		}
		t, err := fromRow(amount, kind, category, date)
		if err != nil {
			return nil, ledger.ParseFailure("load", r.path, 0, fmt.Errorf("row id %d: %w", id, err))
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.IOFailure("load", r.path, err)
	}
	return txs, nil
}

func (r *SQLiteRepository) ExportTo(ctx context.Context, path string) error {
	txs, err := r.LoadAll(ctx)
	if err != nil {
		return ledger.Annotate(err, "export", r.path)
	}
	if err := ledger.WriteFile(path, txs); err != nil {
		return ledger.Annotate(err, "export", path)
	}
	slog.DebugContext(ctx, "Transactions exported from SQLite", log.FieldPath, path, log.FieldCount, len(txs))
	return nil
}

// ImportFrom decodes the whole file before touching the database and
// inserts all rows in one SQL transaction.
func (r *SQLiteRepository) ImportFrom(ctx context.Context, path string) (int, error) {
	txs, err := ledger.ReadFile(path)
	if err != nil {
		return 0, ledger.Annotate(err, "import", path)
	}
	if err := r.insert(ctx, txs); err != nil {
		return 0, ledger.IOFailure("import", r.path, err)
	}
	slog.DebugContext(ctx, "Transactions imported into SQLite", log.FieldPath, path, log.FieldCount, len(txs))
	return len(txs), nil
}

func (r *SQLiteRepository) insert(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	stmt, err := dbtx.PrepareContext(ctx,
		`INSERT INTO transactions (amount, type, category, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx, t.Amount.String(), t.Type.String(), string(t.Category), string(t.Date)); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	if _, err := dbtx.ExecContext(ctx,
		`INSERT OR IGNORE INTO ledger_meta (key, value) VALUES ('created_at', CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("mark store created: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func fromRow(amount, kind, category, date string) (core.Transaction, error) {
	amt, err := core.ParseAmount(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	t, err := core.ParseType(kind)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", kind, err)
	}
	return core.Transaction{
		Amount:   amt,
		Type:     t,
		Category: core.Category(category),
		Date:     core.Date(date),
	}, nil
}
