// Package export renders amortization schedules as spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/pkg/money"
)

var _ port.ScheduleRenderer = (*XLSXRenderer)(nil)

const (
	SheetSummary  = "Summary"
	SheetSchedule = "Schedule"
	SheetYearly   = "Yearly"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	amountFormat    = "#,##0.00"
)

type column[T any] struct {
	Header string
	Amount bool
	Value  func(T) any
}

var scheduleColumns = []column[model.ScheduleEntry]{
	{Header: "Month", Value: func(e model.ScheduleEntry) any { return e.Month }},
	{Header: "Principal", Amount: true, Value: func(e model.ScheduleEntry) any { return money.Round(e.Principal, 2) }},
	{Header: "Interest", Amount: true, Value: func(e model.ScheduleEntry) any { return money.Round(e.Interest, 2) }},
	{Header: "Payment", Amount: true, Value: func(e model.ScheduleEntry) any { return money.Round(e.Principal+e.Interest, 2) }},
	{Header: "Balance", Amount: true, Value: func(e model.ScheduleEntry) any { return money.Round(e.RemainingBalance, 2) }},
}

var yearlyColumns = []column[model.YearlySummary]{
	{Header: "Year", Value: func(y model.YearlySummary) any { return y.Year }},
	{Header: "Principal paid", Amount: true, Value: func(y model.YearlySummary) any { return money.Round(y.PrincipalPaid, 2) }},
	{Header: "Interest paid", Amount: true, Value: func(y model.YearlySummary) any { return money.Round(y.InterestPaid, 2) }},
	{Header: "Closing balance", Amount: true, Value: func(y model.YearlySummary) any { return money.Round(y.ClosingBalance, 2) }},
}

// XLSXRenderer implements port.ScheduleRenderer with excelize. The workbook
// has a Summary sheet followed by the monthly Schedule and the Yearly roll-up.
type XLSXRenderer struct {
	creator string
}

// NewXLSXRenderer returns a renderer stamping creator into document properties.
func NewXLSXRenderer(creator string) *XLSXRenderer {
	if creator == "" {
		creator = "loancalc"
	}
	return &XLSXRenderer{creator: creator}
}

func (r *XLSXRenderer) ContentType() string { return xlsxContentType }
func (r *XLSXRenderer) Extension() string   { return "xlsx" }

// Render builds the workbook in memory.
func (r *XLSXRenderer) Render(res model.EMIResult, opts port.RenderOptions) ([]byte, error) {
	formatter, err := money.NewFormatter(opts.Currency, opts.Locale)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	title := opts.Title
	if title == "" {
		title = "Loan amortization schedule"
	}
	if err := f.SetDocProps(&excelize.DocProperties{Creator: r.creator, Title: title}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, styles, title, res, formatter); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetSchedule); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SheetSchedule, err)
	}
	if err := writeTable(f, styles, SheetSchedule, scheduleColumns, res.Schedule); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetYearly); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SheetYearly, err)
	}
	if err := writeTable(f, styles, SheetYearly, yearlyColumns, model.SummarizeByYear(res.Schedule)); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header int
	amount int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, fmt.Errorf("header style: %w", err)
	}
	numFmt := amountFormat
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return styles{}, fmt.Errorf("amount style: %w", err)
	}
	return styles{header: header, amount: amount}, nil
}

func writeTable[T any](f *excelize.File, st styles, sheet string, cols []column[T], rows []T) error {
	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	for rowIdx, row := range rows {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, col.Value(row)); err != nil {
				return fmt.Errorf("%s %s: %w", sheet, cell, err)
			}
		}
	}

	for colIdx, col := range cols {
		name, _ := excelize.ColumnNumberToName(colIdx + 1)
		if err := f.SetColWidth(sheet, name, name, 16); err != nil {
			return fmt.Errorf("%s width: %w", sheet, err)
		}
		if !col.Amount || len(rows) == 0 {
			continue
		}
		top, _ := excelize.CoordinatesToCellName(colIdx+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(colIdx+1, len(rows)+1)
		if err := f.SetCellStyle(sheet, top, bottom, st.amount); err != nil {
			return fmt.Errorf("%s amount style: %w", sheet, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, st styles, title string, res model.EMIResult, m *money.Formatter) error {
	in := res.Inputs
	rows := [][]any{
		{title},
		{},
		{"Currency", m.Currency().Code()},
		{"Loan amount", money.Round(in.Principal, 2), m.Amount(in.Principal)},
		{"Annual interest rate (%)", in.AnnualRatePercent, m.Percent(in.AnnualRatePercent)},
		{"Tenure (years)", in.TermYears},
		{"Instalments", len(res.Schedule)},
		{"Monthly EMI", money.Round(res.MonthlyPayment, 2), m.Amount(res.MonthlyPayment)},
		{"Total interest", money.Round(res.TotalInterest, 2), m.Amount(res.TotalInterest)},
		{"Total payment", money.Round(res.TotalPayment, 2), m.Amount(res.TotalPayment)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "A1", st.header); err != nil {
		return fmt.Errorf("summary title style: %w", err)
	}
	if err := f.SetColWidth(SheetSummary, "A", "C", 26); err != nil {
		return fmt.Errorf("summary width: %w", err)
	}
	return nil
}
