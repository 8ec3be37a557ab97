package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/sangkips/billgen-api/pkg/printer"
	"github.com/shopspring/decimal"
)

const receiptDateLayout = "02/01/2006"

// PrinterService formats receipts as thermal tickets and prints them.
type PrinterService struct {
	printer  printer.Printer
	receipts *ReceiptService
	width    int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, receipts *ReceiptService, width int) *PrinterService {
	if width <= 0 {
		width = printer.DefaultWidth
	}
	return &PrinterService{
		printer:  p,
		receipts: receipts,
		width:    width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
		Width:      s.width,
	}
}

// PrintReceipt prints an owned receipt and returns it.
func (s *PrinterService) PrintReceipt(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receipts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, FormatReceipt(receipt, s.width)); err != nil {
		log := logger.WithComponent("printer")
		log.Error().Err(err).Str("receipt_id", id.String()).Msg("failed to print receipt")
		return nil, err
	}
	return receipt, nil
}

// TestPrint prints a fixed sample ticket and returns the sample.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	sample := &entity.Receipt{
		Number:  "TEST-001",
		Date:    time.Now().UTC(),
		Company: entity.Company{Name: "PRINTER TEST", Address: "Test Address"},
		Cashier: "System",
		Footer:  "Printer is working",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, Amount: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, Amount: decimal.NewFromInt(5)},
		},
	}

	if err := s.send(ctx, FormatReceipt(sample, s.width)); err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *PrinterService) send(ctx context.Context, data []byte) error {
	if s.printer.Type() == printer.TypeNone {
		return apperror.ErrPrinterUnavailable
	}
	if err := s.printer.Print(ctx, data); err != nil {
		return apperror.NewPrintError(err)
	}
	return nil
}

// FormatReceipt lays a receipt out as an ESC/POS ticket of the given width.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	t := printer.NewTicket(width)

	t.Align(printer.AlignCenter).Bold(true).Size(printer.SizeDouble)
	if r.Company.Name != "" {
		t.Wrap(r.Company.Name)
	} else {
		t.Line("RECEIPT")
	}
	t.Size(printer.SizeNormal).Bold(false)
	if r.Company.Address != "" {
		t.Wrap(r.Company.Address)
	}
	if r.Company.Phone != "" {
		t.Line("Phone: " + r.Company.Phone)
	}
	if r.Company.TaxID != "" {
		t.Line("Tax ID: " + r.Company.TaxID)
	}

	t.Align(printer.AlignLeft).Rule('-')
	t.Columns("Receipt #:", r.Number)
	if !r.Date.IsZero() {
		t.Columns("Date:", r.Date.Format(receiptDateLayout))
	}
	if r.Cashier != "" {
		t.Columns("Cashier:", r.Cashier)
	}
	if r.BillTo != "" {
		t.Columns("Customer:", r.BillTo)
	}
	t.Rule('-')

	for _, item := range r.Items {
		t.Item(item.Name, item.Quantity, money.Format(item.Amount), money.Format(item.Total()))
	}
	t.Rule('-')

	totals := r.Totals()
	t.Columns("Subtotal:", money.Format(totals.SubTotal))
	if !r.TaxPercentage.IsZero() {
		t.Columns("Tax ("+r.TaxPercentage.String()+"%):", money.Format(totals.TaxAmount))
	}
	t.Bold(true).Columns("TOTAL:", money.Format(totals.GrandTotal)).Bold(false)
	t.Rule('-')

	if r.Notes != "" {
		t.Wrap(r.Notes)
	}
	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	t.Align(printer.AlignCenter).Feed(1).Wrap(footer).Align(printer.AlignLeft)

	return t.Feed(3).Cut(true).Bytes()
}
