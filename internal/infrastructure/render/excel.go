package render

import (
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

var (
	invoiceHeaders = []string{"Invoice #", "Date", "Payment Date", "Bill To", "Status", "Subtotal", "Tax %", "Tax Amount", "Grand Total"}
	receiptHeaders = []string{"Receipt #", "Date", "Customer", "Cashier", "Subtotal", "Tax %", "Tax Amount", "Grand Total"}
)

// ExcelRenderer writes document lists as single-sheet xlsx workbooks
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

type sheetStyles struct {
	header, data, currency int
}

// newWorkbook creates a file whose only sheet is named sheet
func newWorkbook(sheet string) (*excelize.File, *sheetStyles, error) {
	f := excelize.NewFile()
	styles, err := addStyles(f)
	if err == nil {
		err = f.SetSheetName("Sheet1", sheet)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, styles, nil
}

func addStyles(f *excelize.File) (*sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}

	var (
		styles sheetStyles
		err    error
	)
	if styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F3864"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return nil, err
	}
	if styles.data, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return nil, err
	}
	moneyFormat := "#,##0.00"
	if styles.currency, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &moneyFormat}); err != nil {
		return nil, err
	}
	return &styles, nil
}

func writeHeader(f *excelize.File, sheet string, styles *sheetStyles, headers []string) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, styles.header)
}

type cellValue struct {
	v     interface{}
	money bool
}

func writeRow(f *excelize.File, sheet string, styles *sheetStyles, row int, cells []cellValue) error {
	for col, c := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, c.v); err != nil {
			return err
		}
		style := styles.data
		if c.money {
			style = styles.currency
		}
		if err := f.SetCellStyle(sheet, name, name, style); err != nil {
			return err
		}
	}
	return nil
}

func finish(f *excelize.File, sheet string, columns int) ([]byte, error) {
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderInvoiceList writes one row per invoice below the header row
func (r *ExcelRenderer) RenderInvoiceList(invoices []entity.Invoice) ([]byte, error) {
	const sheet = "Invoices"
	f, styles, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := writeHeader(f, sheet, styles, invoiceHeaders); err != nil {
		return nil, err
	}

	for i := range invoices {
		inv := &invoices[i]
		totals := inv.Totals()
		paymentDate := ""
		if inv.PaymentDate != nil {
			paymentDate = formatDate(*inv.PaymentDate)
		}
		tax, _ := inv.TaxPercentage.Float64()
		row := []cellValue{
			{v: inv.Number},
			{v: formatDate(inv.Date)},
			{v: paymentDate},
			{v: inv.BillTo.Name},
			{v: inv.Status.Label()},
			{v: totals.SubTotal.InexactFloat64(), money: true},
			{v: tax},
			{v: totals.TaxAmount.InexactFloat64(), money: true},
			{v: totals.GrandTotal.InexactFloat64(), money: true},
		}
		if err := writeRow(f, sheet, styles, i+2, row); err != nil {
			return nil, err
		}
	}

	return finish(f, sheet, len(invoiceHeaders))
}

// RenderReceiptList writes one row per receipt below the header row
func (r *ExcelRenderer) RenderReceiptList(receipts []entity.Receipt) ([]byte, error) {
	const sheet = "Receipts"
	f, styles, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := writeHeader(f, sheet, styles, receiptHeaders); err != nil {
		return nil, err
	}

	for i := range receipts {
		rc := &receipts[i]
		totals := rc.Totals()
		tax, _ := rc.TaxPercentage.Float64()
		row := []cellValue{
			{v: rc.Number},
			{v: formatDate(rc.Date)},
			{v: rc.BillTo},
			{v: rc.Cashier},
			{v: totals.SubTotal.InexactFloat64(), money: true},
			{v: tax},
			{v: totals.TaxAmount.InexactFloat64(), money: true},
			{v: totals.GrandTotal.InexactFloat64(), money: true},
		}
		if err := writeRow(f, sheet, styles, i+2, row); err != nil {
			return nil, err
		}
	}

	return finish(f, sheet, len(receiptHeaders))
}
