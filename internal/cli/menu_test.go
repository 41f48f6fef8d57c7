package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/ledger/csvstore"
	"ledger/internal/services"
)

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func init() {
	color.NoColor = true
}

func runMenu(t *testing.T, svc *services.LedgerService, input string, reportDir string) string {
	t.Helper()
	var out bytes.Buffer
	m := NewMenu(svc, MenuConfig{
		In:        strings.NewReader(input),
		Out:       &out,
		ReportDir: reportDir,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, m.Run(context.Background()))
	return out.String()
}

func newService(t *testing.T) (*services.LedgerService, *csvstore.Store) {
	t.Helper()
	store := csvstore.New(filepath.Join(t.TempDir(), "transactions.csv"))
	return services.NewLedgerService(store, nil), store
}

func TestMenu_AddTransactionDefaultsDate(t *testing.T) {
	svc, store := newService(t)

	out := runMenu(t, svc, "1\n100.50\nincome\nSalary\n\n5\n", "")
	require.Contains(t, out, "Transaction added successfully!")
	require.Contains(t, out, "Goodbye!")

	txs, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, core.Income, txs[0].Type)
	require.Equal(t, core.Date("2024-05-17"), txs[0].Date)
	require.True(t, txs[0].Amount.Equal(decimal.RequireFromString("100.50")))
}

func TestMenu_AddTransactionRejectsInvalidInput(t *testing.T) {
	svc, store := newService(t)

	out := runMenu(t, svc, "1\nabc\n1\n10\nrefund\n1\n10\nExpense\n\n\n5\n", "")
	require.Contains(t, out, "Invalid amount! Please enter a valid number.")
	require.Contains(t, out, "Invalid type! Please enter 'Income' or 'Expense'.")
	require.Contains(t, out, "Invalid transaction:")

	ok, err := store.Exists(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMenu_ViewWithoutTransactions(t *testing.T) {
	svc, _ := newService(t)

	out := runMenu(t, svc, "2\n3\n5\n", "")
	require.Equal(t, 2, strings.Count(out, "No transactions found. Start adding some!"))
}

func TestMenu_ViewAndFilter(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, core.Transaction{Amount: decimal.NewFromInt(1000), Type: core.Income, Category: "Salary", Date: "2024-01-01"}))
	require.NoError(t, svc.Record(ctx, core.Transaction{Amount: decimal.NewFromInt(50), Type: core.Expense, Category: "Food", Date: "2024-01-02"}))

	out := runMenu(t, svc, "2\nType\nexpense\n2\ncategory\nSalary\n2\nnone\n5\n", "")
	require.Contains(t, out, "Amount")
	require.Contains(t, out, "Food")
	require.Contains(t, out, "Returning to the main menu.")

	_, typeSection, _ := strings.Cut(out, "Enter type (Income/Expense): ")
	typeTable, _, _ := strings.Cut(typeSection, "Personal Expense Tracker")
	require.Contains(t, typeTable, "Food")
	require.NotContains(t, typeTable, "Salary")
}

func TestMenu_AnalyzeAndReport(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, core.Transaction{Amount: decimal.NewFromInt(1234), Type: core.Income, Category: "Salary", Date: "2024-01-01"}))
	require.NoError(t, svc.Record(ctx, core.Transaction{Amount: decimal.RequireFromString("20.5"), Type: core.Expense, Category: "Food", Date: "2024-01-02"}))

	dir := t.TempDir()
	out := runMenu(t, svc, "3\ny\n5\n", dir)
	require.Contains(t, out, "Total Income: $1,234.00")
	require.Contains(t, out, "Total Expenses: $20.50")
	require.Contains(t, out, "Net Balance: $1,213.50")
	require.Contains(t, out, "100.0%")
	require.Contains(t, out, "Report saved to")

	_, err := os.Stat(filepath.Join(dir, "expense-report-20240517-093000.pdf"))
	require.NoError(t, err)
}

func TestMenu_AnalyzeWithoutExpenses(t *testing.T) {
	svc, _ := newService(t)
	require.NoError(t, svc.Record(context.Background(), core.Transaction{Amount: decimal.NewFromInt(5), Type: core.Income, Category: "Gift", Date: "2024-01-01"}))

	out := runMenu(t, svc, "3\n5\n", t.TempDir())
	require.Contains(t, out, "No expenses to visualize.")
	require.NotContains(t, out, "Save PDF report?")
}

func TestMenu_ReportWithOnlyRefunds(t *testing.T) {
	svc, _ := newService(t)
	require.NoError(t, svc.Record(context.Background(), core.Transaction{Amount: decimal.NewFromInt(-30), Type: core.Expense, Category: "Refund", Date: "2024-01-01"}))

	dir := t.TempDir()
	out := runMenu(t, svc, "3\ny\n5\n", dir)
	require.Contains(t, out, "No expenses to visualize.")
	require.NotContains(t, out, "Report saved to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMenu_ExportImport(t *testing.T) {
	svc, store := newService(t)
	dir := t.TempDir()
	backup := filepath.Join(dir, "backup.csv")

	out := runMenu(t, svc, "4\n1\n"+backup+"\n5\n", "")
	require.Contains(t, out, "No transactions to export. Start adding some!")

	require.NoError(t, svc.Record(context.Background(), core.Transaction{Amount: decimal.NewFromInt(7), Type: core.Expense, Category: "Bus", Date: "2024-02-02"}))

	out = runMenu(t, svc, "4\n1\n"+backup+"\n4\n2\n"+backup+"\n4\n2\n"+filepath.Join(dir, "missing.csv")+"\n4\n9\n5\n", "")
	require.Contains(t, out, "successfully exported")
	require.Contains(t, out, "successfully imported")
	require.Contains(t, out, "not found.")
	require.Contains(t, out, "Invalid option.")

	txs, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestMenu_InvalidOptionAndEOF(t *testing.T) {
	svc, _ := newService(t)

	out := runMenu(t, svc, "7\n", "")
	require.Contains(t, out, "Invalid option. Please try again.")
	require.NotContains(t, out, "Goodbye!")
}

func TestMenu_StopsOnCancelledContext(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMenu(svc, MenuConfig{In: strings.NewReader("1\n"), Out: &bytes.Buffer{}})
	require.ErrorIs(t, m.Run(ctx), context.Canceled)
}
