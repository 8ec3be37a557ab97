package render

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	displayDate   = "02/01/2006"
	pageWidth     = 180.0
	lineHeight    = 6.0
	defaultAccent = "#6366f1"
)

// PDFRenderer lays out invoices and receipts as A4 documents. The core PDF
// fonts only cover cp1252, so amounts are prefixed with Currency.
type PDFRenderer struct {
	Currency string
}

// NewPDFRenderer creates a renderer using "Rs." as the amount prefix
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Currency: "Rs."}
}

type pdfDoc struct {
	*fpdf.Fpdf
	tr       func(string) string
	currency string
}

func (r *PDFRenderer) newDoc(title string) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetCreator("billgen-api", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), currency: r.Currency}
}

func (d *pdfDoc) text(style string, size float64, txt, align string) {
	d.SetFont("Helvetica", style, size)
	d.MultiCell(pageWidth, lineHeight, d.tr(txt), "", align, false)
}

func (d *pdfDoc) optional(prefix, value, align string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.text("", 10, prefix+value, align)
}

func (d *pdfDoc) amount(v decimal.Decimal) string {
	return d.currency + " " + money.Format(v)
}

func (d *pdfDoc) party(label string, p entity.Party) {
	d.text("B", 11, label, "L")
	d.optional("", p.Name, "L")
	d.optional("", p.Address, "L")
	d.optional("Phone: ", p.Phone, "L")
	d.Ln(3)
}

// itemRow draws one table row; widths sum to pageWidth
func (d *pdfDoc) itemRow(style string, fill bool, cells ...string) {
	widths := []float64{90, 20, 35, 35}
	aligns := []string{"L", "C", "R", "R"}
	d.SetFont("Helvetica", style, 10)
	for i, c := range cells {
		d.CellFormat(widths[i], 8, d.tr(c), "1", 0, aligns[i], fill, 0, "")
	}
	d.Ln(-1)
}

func (d *pdfDoc) totalRow(label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.SetFont("Helvetica", style, 10)
	d.CellFormat(145, 7, d.tr(label), "", 0, "R", false, 0, "")
	d.CellFormat(35, 7, d.tr(value), "", 1, "R", false, 0, "")
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderInvoice produces the invoice PDF. The invoice is only read.
func (r *PDFRenderer) RenderInvoice(inv *entity.Invoice) ([]byte, error) {
	d := r.newDoc("Invoice " + inv.Number)

	accent := inv.PrimaryColor
	if accent == "" {
		accent = defaultAccent
	}
	cr, cg, cb := hexColor(accent)
	d.SetFillColor(cr, cg, cb)
	d.SetTextColor(255, 255, 255)
	d.SetFont("Helvetica", "B", 24)
	d.CellFormat(pageWidth, 14, "INVOICE", "", 1, "C", true, 0, "")
	d.SetTextColor(0, 0, 0)
	d.Ln(4)

	if inv.Company.Name != "" {
		d.text("B", 16, inv.Company.Name, "L")
	}
	d.optional("", inv.Company.Address, "L")
	d.optional("Phone: ", inv.Company.Phone, "L")
	d.optional("GST: ", inv.Company.TaxID, "L")
	d.Ln(4)

	d.SetFont("Helvetica", "", 10)
	d.CellFormat(pageWidth/2, 8, d.tr("Invoice Number: "+inv.Number), "1", 0, "L", false, 0, "")
	d.CellFormat(pageWidth/2, 8, "Date: "+formatDate(inv.Date), "1", 1, "L", false, 0, "")
	if inv.PaymentDate != nil {
		d.CellFormat(pageWidth/2, 8, "Payment Date: "+formatDate(*inv.PaymentDate), "1", 0, "L", false, 0, "")
		d.CellFormat(pageWidth/2, 8, d.tr("Status: "+inv.Status.Label()), "1", 1, "L", false, 0, "")
	}
	d.Ln(4)

	d.party("Bill To:", inv.BillTo)
	if !inv.ShipTo.IsEmpty() {
		d.party("Ship To:", inv.ShipTo)
	}

	d.SetFillColor(241, 245, 249)
	d.itemRow("B", true, "Description", "Qty", "Rate", "Amount")
	for _, item := range inv.Items {
		desc := item.Name
		if item.Description != "" {
			desc += " - " + item.Description
		}
		d.itemRow("", false, desc, strconv.Itoa(item.Quantity), d.amount(item.Amount), d.amount(item.Total()))
	}
	d.Ln(3)

	totals := inv.Totals()
	d.totalRow("Sub Total:", d.amount(totals.SubTotal), false)
	d.totalRow("Tax ("+inv.TaxPercentage.String()+"%):", d.amount(totals.TaxAmount), false)
	d.totalRow("Grand Total:", d.amount(totals.GrandTotal), true)

	if strings.TrimSpace(inv.Notes) != "" {
		d.Ln(4)
		d.text("B", 11, "Notes:", "L")
		d.text("", 10, inv.Notes, "L")
	}

	return d.bytes()
}

// RenderReceipt produces the receipt PDF. The receipt is only read.
func (r *PDFRenderer) RenderReceipt(rc *entity.Receipt) ([]byte, error) {
	d := r.newDoc("Receipt " + rc.Number)

	d.text("B", 20, "RECEIPT", "C")
	if rc.Company.Name != "" {
		d.text("B", 14, rc.Company.Name, "C")
	}
	d.optional("", rc.Company.Address, "C")
	d.optional("Phone: ", rc.Company.Phone, "C")
	d.Ln(4)

	d.text("", 10, "Receipt #: "+rc.Number, "L")
	if !rc.Date.IsZero() {
		d.text("", 10, "Date: "+formatDate(rc.Date), "L")
	}
	d.optional("Cashier: ", rc.Cashier, "L")
	d.optional("Customer: ", rc.BillTo, "L")
	d.Ln(4)

	d.SetFillColor(241, 245, 249)
	d.itemRow("B", true, "Item", "Qty", "Price", "Total")
	for _, item := range rc.Items {
		d.itemRow("", false, item.Name, strconv.Itoa(item.Quantity), d.amount(item.Amount), d.amount(item.Total()))
	}
	d.Ln(3)

	totals := rc.Totals()
	d.totalRow("Sub Total:", d.amount(totals.SubTotal), false)
	d.totalRow("Tax ("+rc.TaxPercentage.String()+"%):", d.amount(totals.TaxAmount), false)
	d.totalRow("Total:", d.amount(totals.GrandTotal), true)

	if strings.TrimSpace(rc.Notes) != "" {
		d.Ln(4)
		d.text("", 10, rc.Notes, "L")
	}
	if strings.TrimSpace(rc.Footer) != "" {
		d.Ln(6)
		d.text("I", 10, rc.Footer, "C")
	}

	return d.bytes()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}

// hexColor parses #rrggbb, falling back to the default accent
func hexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		s = strings.TrimPrefix(defaultAccent, "#")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		v, _ = strconv.ParseUint(strings.TrimPrefix(defaultAccent, "#"), 16, 32)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
