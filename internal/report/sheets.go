package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/lthiery/helium/internal/earnings"
)

const earningsSheet = "EARNINGS"

// SheetsWriter pushes the grand-total summary to a Google spreadsheet.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the EARNINGS sheet exists, then clears and rewrites it with
// the per-account totals and the grand-total row.
func (w *SheetsWriter) Write(ctx context.Context, summary earnings.Summary) error {
	if err := w.ensureSheet(ctx, earningsSheet); err != nil {
		return err
	}

	values := buildEarnings(summary)

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{earningsSheet + "!A:E"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: earningsSheet + "!A1", Values: values},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheet: %w", err)
	}

	return nil
}

// buildEarnings builds the EARNINGS sheet data.
// Columns: Window | Label | Pubkey | HNT | USD
func buildEarnings(summary earnings.Summary) [][]any {
	window := summary.Window.FileSuffix()

	data := make([][]any, 0, len(summary.Accounts)+2)
	data = append(data, []any{"Window", "Label", "Pubkey", "HNT", "USD"})

	for _, account := range summary.Accounts {
		data = append(data, []any{
			window,
			account.Account.Label,
			account.Account.Pubkey,
			toFloat(account.TotalHNT),
			toFloat(account.TotalUSD),
		})
	}

	data = append(data, []any{window, "", "", toFloat(summary.GrandTotalHNT), toFloat(summary.GrandTotalUSD)})
	return data
}

// ensureSheet creates the named sheet if it does not already exist.
func (w *SheetsWriter) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties.Title == name {
			return nil
		}
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}}},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
