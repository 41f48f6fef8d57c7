package ledger

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"ledger/internal/core"
)

// ReadFile decodes a transaction file. A missing file is an I/O failure.
func ReadFile(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IOFailure("read", path, err)
	}
	defer f.Close()

	txs, err := Decode(f)
	if err != nil {
		return nil, Annotate(err, "read", path)
	}
	return txs, nil
}

// WriteFile writes a complete transaction file (header plus rows) to path.
// The content goes to a temp file in the same directory first and is renamed
// into place, so path is either fully written or left as it was.
func WriteFile(path string, txs []core.Transaction) error {
	data, err := EncodeBytes(txs, true)
	if err != nil {
		return IOFailure("write", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ledger-*.tmp")
	if err != nil {
		return IOFailure("write", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return IOFailure("write", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return IOFailure("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return IOFailure("write", path, err)
	}
	return nil
}

// IsNotExist reports whether err means a file is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
