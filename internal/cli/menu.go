package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"ledger/internal/analysis"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/services"
)

const (
	msgNoTransactions = "No transactions found. Start adding some!"
	msgNothingToShow  = "No expenses to visualize."
	dateLayout        = "2006-01-02"
)

var (
	headerColor  = color.New(color.FgCyan)
	promptColor  = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	listColor    = color.New(color.FgBlue)
)

// MenuConfig wires the menu to its terminal and environment.
type MenuConfig struct {
	In        io.Reader
	Out       io.Writer
	ReportDir string
	Now       func() time.Time
	Logger    *log.Logger
}

// Menu is the interactive front end over a LedgerService.
type Menu struct {
	svc       *services.LedgerService
	in        *bufio.Scanner
	out       io.Writer
	reportDir string
	now       func() time.Time
	logger    *log.Logger
}

func NewMenu(svc *services.LedgerService, cfg MenuConfig) *Menu {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = log.FromSlog(nil, log.ComponentMenu)
	}
	return &Menu{
		svc:       svc,
		in:        bufio.NewScanner(cfg.In),
		out:       cfg.Out,
		reportDir: cfg.ReportDir,
		now:       cfg.Now,
		logger:    cfg.Logger.WithComponent(log.ComponentMenu),
	}
}

// Run loops until the user exits or input ends. Action errors are printed
// and never end the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.header("Personal Expense Tracker")
		fmt.Fprintln(m.out, "1. Add Transaction")
		fmt.Fprintln(m.out, "2. View Transactions")
		fmt.Fprintln(m.out, "3. Analyze Expenses")
		fmt.Fprintln(m.out, "4. Export/Import Data")
		fmt.Fprintln(m.out, "5. Exit")

		choice, ok := m.prompt("Choose an option (1-5): ")
		if !ok {
			return m.inputErr()
		}
		switch choice {
		case "1":
			m.AddTransaction(ctx)
		case "2":
			m.ViewTransactions(ctx)
		case "3":
			m.AnalyzeExpenses(ctx)
		case "4":
			m.transferMenu(ctx)
		case "5":
			headerColor.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			failColor.Fprintln(m.out, "Invalid option. Please try again.")
		}
	}
}

func (m *Menu) AddTransaction(ctx context.Context) {
	m.header("Add a Transaction")

	amount, ok := m.prompt("Enter amount (e.g., 100.50): ")
	if !ok {
		return
	}
	if _, err := core.ParseAmount(amount); err != nil {
		failColor.Fprintln(m.out, "Invalid amount! Please enter a valid number.")
		return
	}
	kind, ok := m.prompt("Type (Income/Expense): ")
	if !ok {
		return
	}
	if _, err := core.ParseType(kind); err != nil {
		failColor.Fprintln(m.out, "Invalid type! Please enter 'Income' or 'Expense'.")
		return
	}
	category, ok := m.prompt("Category (e.g., Food, Rent, Salary): ")
	if !ok {
		return
	}
	date, ok := m.prompt("Date (YYYY-MM-DD, blank for today): ")
	if !ok {
		return
	}
	if date == "" {
		date = m.now().Format(dateLayout)
	}

	t, err := core.NewTransaction(amount, kind, category, date)
	if err != nil {
		failColor.Fprintf(m.out, "Invalid transaction: %v\n", err)
		return
	}
	if err := m.svc.Record(ctx, t); err != nil {
		m.fail(ctx, log.OpAppend, "Error saving transaction", err)
		return
	}
	successColor.Fprintln(m.out, "Transaction added successfully!")
}

func (m *Menu) ViewTransactions(ctx context.Context) {
	m.header("View Transactions")

	txs, ok := m.load(ctx)
	if !ok {
		return
	}
	m.table(successColor, txs)

	option, ok := m.prompt("\nFilter by (Type/Category/None): ")
	if !ok {
		return
	}
	switch strings.ToLower(option) {
	case "type":
		kind, ok := m.prompt("Enter type (Income/Expense): ")
		if !ok {
			return
		}
		m.table(listColor, analysis.FilterByType(txs, core.TransactionType(kind)))
	case "category":
		category, ok := m.prompt("Enter category: ")
		if !ok {
			return
		}
		m.table(listColor, analysis.FilterByCategory(txs, core.Category(category)))
	default:
		promptColor.Fprintln(m.out, "Returning to the main menu.")
	}
}

func (m *Menu) AnalyzeExpenses(ctx context.Context) {
	m.header("Analyze Expenses")

	txs, ok := m.load(ctx)
	if !ok {
		return
	}
	sum := analysis.Summarize(txs)

	successColor.Fprintf(m.out, "Total Income: $%s\n", core.DisplayAmount(sum.Income))
	failColor.Fprintf(m.out, "Total Expenses: $%s\n", core.DisplayAmount(sum.Expense))
	balance := successColor
	if sum.Balance.IsNegative() {
		balance = failColor
	}
	balance.Fprintf(m.out, "Net Balance: $%s\n", core.DisplayAmount(sum.Balance))

	if len(sum.ByCategory) == 0 {
		promptColor.Fprintln(m.out, msgNothingToShow)
		return
	}

	fmt.Fprintln(m.out, "\nExpenses by Category:")
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, share := range sum.ByCategory {
		fmt.Fprintf(tw, "%s\t$%s\t%s%%\t\n", share.Category, core.DisplayAmount(share.Amount), share.Percent.StringFixed(1))
	}
	tw.Flush()

	answer, ok := m.prompt("Save PDF report? (y/N): ")
	if !ok || !strings.EqualFold(answer, "y") {
		return
	}
	path := filepath.Join(m.reportDir, "expense-report-"+m.now().Format("20060102-150405")+".pdf")
	if err := report.WriteFile(path, sum, m.now()); err != nil {
		if errors.Is(err, report.ErrNothingToVisualize) {
			promptColor.Fprintln(m.out, msgNothingToShow)
			return
		}
		m.fail(ctx, log.OpReport, "Error writing report", err)
		return
	}
	successColor.Fprintf(m.out, "Report saved to '%s'.\n", path)
}

func (m *Menu) transferMenu(ctx context.Context) {
	m.header("Export/Import Options")
	fmt.Fprintln(m.out, "1. Export Data")
	fmt.Fprintln(m.out, "2. Import Data")

	choice, ok := m.prompt("Choose an option (1-2): ")
	if !ok {
		return
	}
	switch choice {
	case "1":
		m.ExportData(ctx)
	case "2":
		m.ImportData(ctx)
	default:
		failColor.Fprintln(m.out, "Invalid option.")
	}
}

func (m *Menu) ExportData(ctx context.Context) {
	m.header("Export Data")

	path, ok := m.prompt("Enter the export file name (e.g., backup.csv): ")
	if !ok || path == "" {
		return
	}
	if err := m.svc.Export(ctx, path); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			failColor.Fprintln(m.out, "No transactions to export. Start adding some!")
			return
		}
		m.fail(ctx, log.OpExport, "Error exporting data", err)
		return
	}
	successColor.Fprintf(m.out, "Transactions successfully exported to '%s'.\n", path)
}

func (m *Menu) ImportData(ctx context.Context) {
	m.header("Import Data")

	path, ok := m.prompt("Enter the file name to import (e.g., backup.csv): ")
	if !ok || path == "" {
		return
	}
	n, err := m.svc.Import(ctx, path)
	if err != nil {
		if ledger.IsNotExist(err) {
			failColor.Fprintf(m.out, "File '%s' not found.\n", path)
			return
		}
		m.fail(ctx, log.OpImport, "Error importing data", err)
		return
	}
	successColor.Fprintf(m.out, "%d transactions successfully imported from '%s'.\n", n, path)
}

// load prints the empty-store message on NotFound.
func (m *Menu) load(ctx context.Context) ([]core.Transaction, bool) {
	txs, err := m.svc.Transactions(ctx)
	if errors.Is(err, ledger.ErrNotFound) {
		failColor.Fprintln(m.out, msgNoTransactions)
		return nil, false
	}
	if err != nil {
		m.fail(ctx, log.OpLoad, "Error reading transactions", err)
		return nil, false
	}
	return txs, true
}

// table aligns before coloring so escape codes do not skew the columns.
func (m *Menu) table(c *color.Color, txs []core.Transaction) {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Amount\tType\tCategory\tDate\t")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", t.Amount.String(), t.Type, t.Category, t.Date)
	}
	tw.Flush()
	c.Fprint(m.out, b.String())
}

func (m *Menu) header(title string) {
	line := strings.Repeat("=", 40)
	pad := (40 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	headerColor.Fprintf(m.out, "\n%s\n%s%s\n%s\n", line, strings.Repeat(" ", pad), title, line)
}

func (m *Menu) prompt(label string) (string, bool) {
	promptColor.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) inputErr() error {
	if err := m.in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (m *Menu) fail(ctx context.Context, op, msg string, err error) {
	m.logger.WarnContext(ctx, msg, log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
	failColor.Fprintf(m.out, "%s: %v\n", msg, err)
}
