package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lthiery/helium/internal/accounting"
	"github.com/lthiery/helium/internal/config"
	"github.com/lthiery/helium/internal/database"
	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/earnings"
	"github.com/lthiery/helium/internal/ledger"
	"github.com/lthiery/helium/internal/oracle"
	"github.com/lthiery/helium/internal/report"
	"github.com/lthiery/helium/internal/wallet"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "helium-report",
		Usage: "account history effects and ownership-weighted earnings reports",
		Commands: []*cli.Command{
			earningsCommand(),
			txnsCommand(),
			rewardsCommand(),
			walletCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func ledgerClient(cfg config.Config) *ledger.Client {
	return ledger.NewClient(cfg.APIURL, cfg.UserAgent, ledger.Policy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	})
}

// priceService builds the oracle price chain: memory cache over the optional
// PostgreSQL repository over the ledger API. The returned closer releases the
// pool, if one was opened.
func priceService(ctx context.Context, cfg config.Config, client *ledger.Client) (*oracle.Service, func(), error) {
	if cfg.DatabaseURL == "" {
		return oracle.NewService(client, nil), func() {}, nil
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.Migrate(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return oracle.NewService(client, oracle.NewPgRepository(pool)), pool.Close, nil
}

func parseWindow(minStr, maxStr string) (domain.TimeRange, error) {
	min, err := time.Parse(time.RFC3339, minStr)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("parsing --min: %w", err)
	}
	max, err := time.Parse(time.RFC3339, maxStr)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("parsing --max: %w", err)
	}
	return domain.NewTimeRange(min, max)
}

func earningsCommand() *cli.Command {
	return &cli.Command{
		Name:  "earnings",
		Usage: "aggregate ownership-weighted reward earnings for the configured accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "accounts.toml", Usage: "account configuration file"},
			&cli.StringFlag{Name: "min", Required: true, Usage: "window start, RFC 3339"},
			&cli.StringFlag{Name: "max", Required: true, Usage: "window end, RFC 3339"},
			&cli.StringFlag{Name: "out", Usage: "output directory (overrides OUTPUT_DIR)"},
			&cli.BoolFlag{Name: "xlsx", Usage: "also write an XLSX workbook"},
		},
		Action: runEarnings,
	}
}

func runEarnings(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	accounts, err := config.LoadAccounts(c.String("config"))
	if err != nil {
		return err
	}
	window, err := parseWindow(c.String("min"), c.String("max"))
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if c.String("out") != "" {
		outDir = c.String("out")
	}
	writer, err := report.NewCSVWriter(outDir, window)
	if err != nil {
		return err
	}

	client := ledgerClient(cfg)
	prices, closePool, err := priceService(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer closePool()

	// Per-account files land on disk as soon as each account finishes.
	flush := func(result earnings.AccountResult) {
		if result.Failed() {
			return
		}
		path, err := writer.WriteAccount(result)
		if err != nil {
			slog.Error("writing account report", "label", result.Account.Label, "error", err)
			return
		}
		slog.Info("wrote account report", "label", result.Account.Label, "path", path)
	}

	svc := earnings.NewService(client, prices, accounts.Precision, flush)
	summary, err := svc.Run(ctx, accounts.Accounts, window)
	if err != nil {
		return err
	}

	if _, err := writer.WriteDetails(summary); err != nil {
		return err
	}
	summaryPath, err := writer.WriteSummary(summary)
	if err != nil {
		return err
	}

	if c.Bool("xlsx") {
		path := filepath.Join(outDir, "earnings_"+window.FileSuffix()+".xlsx")
		if err := report.WriteWorkbook(path, summary); err != nil {
			return err
		}
		slog.Info("wrote workbook", "path", path)
	}

	if cfg.SheetsSpreadsheetID != "" {
		sheets, err := report.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			return err
		}
		if err := sheets.Write(ctx, summary); err != nil {
			return err
		}
		slog.Info("pushed summary to spreadsheet", "spreadsheet", cfg.SheetsSpreadsheetID)
	}

	fmt.Printf("window %s\n", window.FileSuffix())
	fmt.Printf("accounts %d (failed %d), rewards skipped %d, duplicates %d\n",
		len(summary.Accounts), summary.FailedAccounts, summary.Skipped, summary.Duplicate)
	fmt.Printf("grand total %s HNT, %s USD\n", summary.GrandTotalHNT, summary.GrandTotalUSD)
	fmt.Printf("summary written to %s\n", summaryPath)

	if summary.FailedAccounts > 0 {
		return cli.Exit(fmt.Sprintf("%d account(s) failed, totals are partial", summary.FailedAccounts), 1)
	}
	return nil
}

func txnsCommand() *cli.Command {
	return &cli.Command{
		Name:      "txns",
		Usage:     "resolve the economic effect of an account's transaction history",
		ArgsUsage: "<address>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "include every transaction variant, not just rewards"},
			&cli.StringFlag{Name: "out", Usage: "output file (default OUTPUT_DIR/<address>_txns.csv)"},
		},
		Action: runTxns,
	}
}

func runTxns(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	if c.Args().Len() != 1 {
		return cli.Exit("expected exactly one address argument", 1)
	}
	account, err := domain.ParseAddress(c.Args().First())
	if err != nil {
		return err
	}

	client := ledgerClient(cfg)
	prices, closePool, err := priceService(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer closePool()

	txns, err := client.AccountTransactions(ctx, account.String())
	if err != nil {
		return err
	}

	var rows []accounting.Row
	for _, txn := range txns {
		if !c.Bool("all") && txn.Type != ledger.TxnRewardsV1 && txn.Type != ledger.TxnRewardsV2 {
			continue
		}
		effect, err := accounting.ResolveEffect(ctx, txn, account, prices)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", txn.Hash, err)
		}
		rows = append(rows, accounting.ProjectRow(txn, effect))
	}

	path := c.String("out")
	if path == "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path = filepath.Join(cfg.OutputDir, account.String()+"_txns.csv")
	}
	if err := report.WriteTransactions(path, rows); err != nil {
		return err
	}
	fmt.Printf("wrote %d rows to %s\n", len(rows), path)
	return nil
}

func rewardsCommand() *cli.Command {
	return &cli.Command{
		Name:      "rewards",
		Usage:     "price one account's rewards over a window at full ownership",
		ArgsUsage: "<address>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "min", Required: true, Usage: "window start, RFC 3339"},
			&cli.StringFlag{Name: "max", Required: true, Usage: "window end, RFC 3339"},
			&cli.StringFlag{Name: "out", Usage: "output directory (overrides OUTPUT_DIR)"},
		},
		Action: runRewards,
	}
}

func runRewards(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	if c.Args().Len() != 1 {
		return cli.Exit("expected exactly one address argument", 1)
	}
	address, err := domain.ParseAddress(c.Args().First())
	if err != nil {
		return err
	}
	window, err := parseWindow(c.String("min"), c.String("max"))
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if c.String("out") != "" {
		outDir = c.String("out")
	}
	writer, err := report.NewCSVWriter(outDir, window)
	if err != nil {
		return err
	}

	client := ledgerClient(cfg)
	prices, closePool, err := priceService(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer closePool()

	// A single synthetic full-ownership account reuses the whole pipeline.
	account := config.Account{Label: address.String(), Pubkey: address.String(), Ownership: 1}
	svc := earnings.NewService(client, prices, config.PrecisionExact, nil)
	summary, err := svc.Run(ctx, []config.Account{account}, window)
	if err != nil {
		return err
	}

	result := summary.Accounts[0]
	if result.Failed() {
		return result.Err
	}
	path, err := writer.WriteAccount(result)
	if err != nil {
		return err
	}
	fmt.Printf("%d rewards, %s HNT, %s USD, written to %s\n",
		len(result.Entries), result.TotalHNT, result.TotalUSD, path)
	return nil
}

func walletCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "talk to a local wallet daemon",
		Subcommands: []*cli.Command{
			{
				Name:  "height",
				Usage: "print the daemon's chain height",
				Action: func(c *cli.Context) error {
					height, err := walletClient().Height(c.Context)
					if err != nil {
						return err
					}
					fmt.Println(height)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list wallet addresses",
				Action: func(c *cli.Context) error {
					addresses, err := walletClient().List(c.Context)
					if err != nil {
						return err
					}
					for _, address := range addresses {
						fmt.Println(address)
					}
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "create a new password-protected wallet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					address, err := walletClient().Create(c.Context, c.String("password"))
					if err != nil {
						return err
					}
					fmt.Println(address)
					return nil
				},
			},
			{
				Name:      "unlock",
				Usage:     "unlock a wallet for signing",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit("expected exactly one address argument", 1)
					}
					ok, err := walletClient().Unlock(c.Context, c.Args().First(), c.String("password"))
					if err != nil {
						return err
					}
					fmt.Println(ok)
					return nil
				},
			},
			{
				Name:      "lock",
				Usage:     "lock a wallet",
				ArgsUsage: "<address>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit("expected exactly one address argument", 1)
					}
					ok, err := walletClient().Lock(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(ok)
					return nil
				},
			},
			{
				Name:  "pay",
				Usage: "send bones from an unlocked wallet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.StringFlag{Name: "payee", Required: true},
					&cli.Uint64Flag{Name: "bones", Required: true},
				},
				Action: func(c *cli.Context) error {
					hash, err := walletClient().Pay(c.Context, c.String("from"), c.String("payee"), c.Uint64("bones"))
					if err != nil {
						return err
					}
					fmt.Println(hash)
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "report the status of a pending transaction",
				ArgsUsage: "<hash>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit("expected exactly one hash argument", 1)
					}
					status, err := walletClient().PendingTransactionStatus(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(status)
					return nil
				},
			},
		},
	}
}

func walletClient() *wallet.Client {
	return wallet.NewClient(config.Load().WalletRPCURL)
}
