// Package report renders aggregated earnings and transaction histories into
// CSV, XLSX and Google Sheets artifacts.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lthiery/helium/internal/accounting"
	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/earnings"
)

// entryHeader is the column layout shared by the per-account and detail
// earnings files.
var entryHeader = []string{"pubkey", "timestamp", "hash", "block", "amount", "oracle_price", "ownership", "usd_value"}

// summaryHeader is the column layout of the grand-total file.
var summaryHeader = []string{"label", "pubkey", "total_hnt", "total_usd"}

// CSVWriter writes report artifacts into a directory, encoding the report
// window into each file name.
type CSVWriter struct {
	dir    string
	window domain.TimeRange
}

// NewCSVWriter creates a CSVWriter, creating dir if needed.
func NewCSVWriter(dir string, window domain.TimeRange) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &CSVWriter{dir: dir, window: window}, nil
}

func entryRecord(e earnings.Entry) []string {
	return []string{
		e.Pubkey,
		e.Timestamp,
		e.Hash,
		strconv.FormatUint(e.Block, 10),
		e.Amount.String(),
		e.OraclePrice.String(),
		e.Ownership.String(),
		e.USDValue.String(),
	}
}

// writeAll writes records to path in one shot.
func writeAll(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteAccount writes one account's earnings file: header, one row per
// reward, and a trailing totals row. Called as each account completes so a
// late failure does not lose earlier accounts' artifacts.
func (w *CSVWriter) WriteAccount(result earnings.AccountResult) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", result.Account.Pubkey, w.window.FileSuffix()))

	records := [][]string{entryHeader}
	for _, e := range result.Entries {
		records = append(records, entryRecord(e))
	}
	records = append(records, []string{
		"", "", "", "", result.TotalHNT.String(), "", "", result.TotalUSD.String(),
	})

	return path, writeAll(path, records)
}

// WriteDetails writes the global detail file: every account's rows
// concatenated in configuration order, no totals row.
func (w *CSVWriter) WriteDetails(summary earnings.Summary) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("details_%s.csv", w.window.FileSuffix()))

	records := [][]string{entryHeader}
	for _, account := range summary.Accounts {
		for _, e := range account.Entries {
			records = append(records, entryRecord(e))
		}
	}

	return path, writeAll(path, records)
}

// WriteSummary writes the grand-total file: one row per account and a
// trailing grand-total row with blank label and pubkey.
func (w *CSVWriter) WriteSummary(summary earnings.Summary) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("summary_%s.csv", w.window.FileSuffix()))

	records := [][]string{summaryHeader}
	for _, account := range summary.Accounts {
		records = append(records, []string{
			account.Account.Label,
			account.Account.Pubkey,
			account.TotalHNT.String(),
			account.TotalUSD.String(),
		})
	}
	records = append(records, []string{
		"", "", summary.GrandTotalHNT.String(), summary.GrandTotalUSD.String(),
	})

	return path, writeAll(path, records)
}

// WriteTransactions writes the generic transaction report for one address.
func WriteTransactions(path string, rows []accounting.Row) error {
	records := [][]string{accounting.RowHeader}
	for _, row := range rows {
		records = append(records, row.Strings())
	}
	return writeAll(path, records)
}
