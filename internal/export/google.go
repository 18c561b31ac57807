// Package export pushes laporan bulanan rows to a Google spreadsheet so
// the finance team can share reports outside the dashboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/lantanajayadigital/sistem-keuangan/internal/core"
)

var headerRow = []any{"Periode", "Total Pendapatan", "Total Pengeluaran", "Saldo Akhir", "Catatan"}

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Options configures the spreadsheet target and service-account auth.
type Options struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

// NewSheetsExporter builds a Sheets client from service-account
// credentials.
func NewSheetsExporter(ctx context.Context, opts Options) (*SheetsExporter, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Laporan"
	}

	var credentials []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentials = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ExportLaporan overwrites the target sheet with a header row followed
// by one row per laporan, and returns the spreadsheet URL.
func (e *SheetsExporter) ExportLaporan(ctx context.Context, laporan []core.LaporanBulanan) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rows := make([][]any, 0, len(laporan)+1)
	rows = append(rows, headerRow)
	for _, l := range laporan {
		periode := fmt.Sprintf("%s %d", core.NamaBulan(l.Bulan), l.Tahun)
		rows = append(rows, []any{
			periode,
			l.TotalPendapatan.String(),
			l.TotalPengeluaran.String(),
			l.SaldoAkhir.String(),
			l.Catatan,
		})
	}

	clearRange := fmt.Sprintf("%s!A:E", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported laporan to spreadsheet",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(laporan))
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", e.spreadsheetID), nil
}
