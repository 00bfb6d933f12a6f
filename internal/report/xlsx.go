package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lthiery/helium/internal/earnings"
)

const (
	detailsSheet = "DETAILS"
	summarySheet = "SUMMARY"
)

// WriteWorkbook writes an XLSX workbook with a DETAILS sheet mirroring the
// detail CSV and a SUMMARY sheet mirroring the grand-total CSV.
func WriteWorkbook(path string, summary earnings.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildDetailsSheet(f, summary); err != nil {
		return err
	}
	if err := buildSummarySheet(f, summary); err != nil {
		return err
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func buildDetailsSheet(f *excelize.File, summary earnings.Summary) error {
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", detailsSheet, err)
	}

	rows := [][]any{{"pubkey", "timestamp", "hash", "block", "amount", "oracle_price", "ownership", "usd_value"}}
	for _, account := range summary.Accounts {
		for _, e := range account.Entries {
			rows = append(rows, []any{
				e.Pubkey, e.Timestamp, e.Hash, e.Block,
				toFloat(e.Amount), toFloat(e.OraclePrice), toFloat(e.Ownership), toFloat(e.USDValue),
			})
		}
	}

	return writeRows(f, detailsSheet, rows)
}

func buildSummarySheet(f *excelize.File, summary earnings.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", summarySheet, err)
	}

	rows := [][]any{{"label", "pubkey", "total_hnt", "total_usd"}}
	for _, account := range summary.Accounts {
		rows = append(rows, []any{
			account.Account.Label, account.Account.Pubkey,
			toFloat(account.TotalHNT), toFloat(account.TotalUSD),
		})
	}
	rows = append(rows, []any{"", "", toFloat(summary.GrandTotalHNT), toFloat(summary.GrandTotalUSD)})

	return writeRows(f, summarySheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
