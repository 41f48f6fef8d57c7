// Package ledger defines the transaction store port, its error taxonomy and
// the tabular file format shared by every store implementation.
package ledger

import (
	"context"

	"ledger/internal/core"
)

// Ports for transaction stores.
type (
	Reader interface {
		// Exists reports whether the backing resource has been created.
		Exists(ctx context.Context) (bool, error)
		// LoadAll returns every transaction in insertion order.
		LoadAll(ctx context.Context) ([]core.Transaction, error)
	}

	Writer interface {
		Append(ctx context.Context, t core.Transaction) error
	}

	// Transferer copies the store to and from files in the shared format.
	Transferer interface {
		ExportTo(ctx context.Context, path string) error
		// ImportFrom appends every row of path and returns how many it appended.
		ImportFrom(ctx context.Context, path string) (int, error)
	}

	Store interface {
		Reader
		Writer
		Transferer
	}
)
