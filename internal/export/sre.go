// Package export renders the Statement of Receipts and Expenditures as an
// XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/money"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetReceipts     = "Receipts"
	SheetExpenditures = "Expenditures"
	SheetSummary      = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SRE is the data behind one statement.
type SRE struct {
	Start         models.Date
	End           models.Date
	Collections   []models.Collection
	Disbursements []models.Disbursement
}

func (s SRE) Filename() string {
	return fmt.Sprintf("sre_%s_%s.xlsx", s.Start, s.End)
}

type styles struct {
	header int
	amount int
}

// Write renders the workbook to w.
func (s SRE) Write(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetName("Sheet1", SheetReceipts); err != nil {
		return err
	}
	for _, name := range []string{SheetExpenditures, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	receipts := make([][]any, 0, len(s.Collections))
	collected := make([]decimal.Decimal, 0, len(s.Collections))
	for _, c := range s.Collections {
		receipts = append(receipts, []any{
			c.TransactionDate.String(), c.TransactionID, c.ORNumber, c.Payor,
			c.NatureOfCollection, c.FundSource, c.Amount.InexactFloat64(), string(c.ReviewStatus),
		})
		collected = append(collected, c.Amount)
	}
	if err := writeTable(f, st, SheetReceipts,
		[]string{"Date", "Transaction ID", "OR Number", "Payor", "Nature of Collection", "Fund Source", "Amount", "Status"},
		receipts, 7); err != nil {
		return err
	}

	expenditures := make([][]any, 0, len(s.Disbursements))
	spent := make([]decimal.Decimal, 0, len(s.Disbursements))
	for _, d := range s.Disbursements {
		expenditures = append(expenditures, []any{
			d.TransactionDate.String(), d.TransactionID, d.DVNumber, d.Payee,
			d.NatureOfDisbursement, d.FundSource, d.Amount.InexactFloat64(), string(d.ReviewStatus),
		})
		spent = append(spent, d.Amount)
	}
	if err := writeTable(f, st, SheetExpenditures,
		[]string{"Date", "Transaction ID", "DV Number", "Payee", "Nature of Disbursement", "Fund Source", "Amount", "Status"},
		expenditures, 7); err != nil {
		return err
	}

	totalIn := money.Sum(collected)
	totalOut := money.Sum(spent)
	summary := [][]any{
		{"Period", fmt.Sprintf("%s to %s", s.Start, s.End)},
		{"Total Receipts", totalIn.InexactFloat64()},
		{"Total Expenditures", totalOut.InexactFloat64()},
		{"Net", totalIn.Sub(totalOut).InexactFloat64()},
	}
	if err := writeTable(f, st, SheetSummary, []string{"Item", "Value"}, summary, 2); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, amount: amount}, nil
}

// writeTable writes a header row followed by rows. amountCol is the 1-based
// column formatted as money.
func writeTable(f *excelize.File, st styles, sheet string, header []string, rows [][]any, amountCol int) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		top, _ := excelize.CoordinatesToCellName(amountCol, 2)
		bottom, _ := excelize.CoordinatesToCellName(amountCol, len(rows)+1)
		if err := f.SetCellStyle(sheet, top, bottom, st.amount); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}
