package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"ledger/internal/core"
)

// Field is one column of the transaction file.
type Field struct {
	Name   string
	Parse  func(raw string, t *core.Transaction) error
	Format func(t core.Transaction) string
}

// Schema lists the columns in the order they are written.
var Schema = []Field{
	{
		Name: "Amount",
		Parse: func(raw string, t *core.Transaction) error {
			amt, err := core.ParseAmount(raw)
			if err != nil {
				return err
			}
			t.Amount = amt
			return nil
		},
		Format: func(t core.Transaction) string { return t.Amount.String() },
	},
	{
		Name: "Type",
		Parse: func(raw string, t *core.Transaction) error {
			kind, err := core.ParseType(raw)
			if err != nil {
				return err
			}
			t.Type = kind
			return nil
		},
		Format: func(t core.Transaction) string { return t.Type.String() },
	},
	{
		Name: "Category",
		Parse: func(raw string, t *core.Transaction) error {
			if strings.TrimSpace(raw) == "" {
				return core.ErrEmptyCategory
			}
			t.Category = core.Category(raw)
			return nil
		},
		Format: func(t core.Transaction) string { return string(t.Category) },
	},
	{
		Name: "Date",
		Parse: func(raw string, t *core.Transaction) error {
			if strings.TrimSpace(raw) == "" {
				return core.ErrEmptyDate
			}
			t.Date = core.Date(raw)
			return nil
		},
		Format: func(t core.Transaction) string { return string(t.Date) },
	},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Header returns the column names in schema order.
func Header() []string {
	names := make([]string, len(Schema))
	for i, f := range Schema {
		names[i] = f.Name
	}
	return names
}

// resolveHeader maps each schema field to its column index in header.
// Columns may appear in any order but every schema field must be present
// and no other column is allowed.
func resolveHeader(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, string(utf8BOM))
		}
		if _, dup := pos[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		pos[name] = i
	}

	cols := make([]int, len(Schema))
	var missing []string
	for i, f := range Schema {
		idx, ok := pos[f.Name]
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		cols[i] = idx
		delete(pos, f.Name)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), header)
	}
	if len(pos) > 0 {
		extra := make([]string, 0, len(pos))
		for name := range pos {
			extra = append(extra, name)
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("unexpected header: unknown column %s", strings.Join(extra, ","))
	}
	return cols, nil
}

// Decode parses a full transaction file. An empty input is an empty
// sequence; any malformed record fails the whole decode.
func Decode(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, readError(err)
	}
	cols, err := resolveHeader(header)
	if err != nil {
		return nil, ParseFailure("decode", "", 1, err)
	}

	txs := []core.Transaction{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		line, _ := cr.FieldPos(0)

		var t core.Transaction
		for i, f := range Schema {
			raw := record[cols[i]]
			if err := f.Parse(raw, &t); err != nil {
				return nil, ParseFailure("decode", "", line, fmt.Errorf("%s %q: %w", f.Name, raw, err))
			}
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func readError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return ParseFailure("decode", "", perr.StartLine, perr.Err)
	}
	return IOFailure("decode", "", err)
}

// ReadHeader reads the first record of r and resolves it against Schema.
// The result maps each schema field to its column, as EncodeWithColumns
// expects. Input without any record yields nil columns and no error.
func ReadHeader(r io.Reader) ([]int, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, readError(err)
	}
	cols, err := resolveHeader(header)
	if err != nil {
		return nil, ParseFailure("decode", "", 1, err)
	}
	return cols, nil
}

// Encode writes txs in schema order, preceded by the header when withHeader is set.
func Encode(w io.Writer, txs []core.Transaction, withHeader bool) error {
	return EncodeWithColumns(w, txs, nil, withHeader)
}

// EncodeWithColumns writes field i of Schema into column cols[i], so rows
// line up with an existing header in any order. A nil cols means schema order.
func EncodeWithColumns(w io.Writer, txs []core.Transaction, cols []int, withHeader bool) error {
	if cols == nil {
		cols = make([]int, len(Schema))
		for i := range cols {
			cols[i] = i
		}
	}
	if len(cols) != len(Schema) {
		return fmt.Errorf("encode: %d columns for %d fields", len(cols), len(Schema))
	}

	cw := csv.NewWriter(w)
	row := make([]string, len(Schema))
	if withHeader {
		for i, name := range Header() {
			row[cols[i]] = name
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for _, t := range txs {
		for i, f := range Schema {
			row[cols[i]] = f.Format(t)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(txs []core.Transaction, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, txs, withHeader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
