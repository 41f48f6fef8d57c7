package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/services"
)

func main() {
	envErr := cli.LoadEnvFile()
	bootLogger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if envErr != nil {
		bootLogger.Warn("Ignoring malformed .env file", log.FieldError, envErr)
	}

	var (
		file       = flag.String("file", "", "CSV ledger file (default $LEDGER_FILE or transactions.csv)")
		backendArg = flag.String("backend", "", "data backend: "+strings.Join(backend.GetBackendTypeStrings(), ", ")+" (default $DATA_BACKEND or csv)")
		exportPath = flag.String("export", "", "export all transactions to `path` and exit")
		importPath = flag.String("import", "", "import transactions from `path` and exit")
		reportPath = flag.String("report", "", "write the PDF expense report to `path` and exit")
	)
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(bootLogger, func(c *config.Config) {
		if *file != "" {
			c.LedgerFile = *file
		}
		if *backendArg != "" {
			c.DataBackend = *backendArg
		}
	})
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldBackend, backendCfg.Type, log.FieldError, err)
		os.Exit(1)
	}

	code := run(ctx, cfg, result.Service, logger, batch{
		export: *exportPath,
		imp:    *importPath,
		report: *reportPath,
	})

	if result.Cleanup != nil {
		if err := result.Cleanup(); err != nil {
			logger.Error("Cleanup failed", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		}
	}
	os.Exit(code)
}

type batch struct {
	export, imp, report string
}

func (b batch) empty() bool {
	return b.export == "" && b.imp == "" && b.report == ""
}

// run starts the menu, or performs the requested one-shot actions in
// import, export, report order.
func run(ctx context.Context, cfg *config.Config, svc *services.LedgerService, logger *log.Logger, b batch) int {
	if b.empty() {
		menu := cli.NewMenu(svc, cli.MenuConfig{
			In:        os.Stdin,
			Out:       os.Stdout,
			ReportDir: cfg.ReportDir,
			Logger:    logger,
		})
		if err := menu.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Menu stopped", log.FieldError, err)
			return 1
		}
		return 0
	}

	if b.imp != "" {
		n, err := svc.Import(ctx, b.imp)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("%d transactions successfully imported from '%s'.\n", n, b.imp)
	}
	if b.export != "" {
		if err := svc.Export(ctx, b.export); err != nil {
			return fail(err)
		}
		fmt.Printf("Transactions successfully exported to '%s'.\n", b.export)
	}
	if b.report != "" {
		sum, err := svc.Summary(ctx)
		if err != nil {
			return fail(err)
		}
		if err := report.WriteFile(b.report, sum, time.Now()); err != nil {
			if errors.Is(err, report.ErrNothingToVisualize) {
				fmt.Println("No expenses to visualize.")
				return 0
			}
			return fail(err)
		}
		fmt.Printf("Report saved to '%s'.\n", b.report)
	}
	return 0
}

func fail(err error) int {
	if errors.Is(err, ledger.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "No transactions found. Start adding some!")
		return 1
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
