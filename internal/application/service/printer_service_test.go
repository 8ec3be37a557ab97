package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	err  error
	jobs [][]byte
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Type() string                     { return printer.TypeNetwork }

func TestFormatReceipt(t *testing.T) {
	rc := receiptInput("R-42")
	rc.Company = entity.Company{Name: "Corner Cafe", Phone: "555-0100"}
	rc.Footer = ""

	out := string(FormatReceipt(rc, 32))

	assert.True(t, strings.HasPrefix(out, "\x1b@"))
	for _, want := range []string{
		"Corner Cafe",
		"Phone: 555-0100",
		"Receipt #:",
		"R-42",
		"05/03/2024",
		"Cashier:",
		"Sam",
		"Walk-in",
		"Coffee",
		"  3 x 2.50",
		"7.50",
		"Tax (5%):",
		"TOTAL:",
		"7.88",
		"Thank you for your business!",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "\x1dV\x01"))
}

func TestFormatReceipt_NoTaxLineWhenZero(t *testing.T) {
	rc := receiptInput("R-1")
	rc.TaxPercentage = rc.TaxPercentage.Sub(rc.TaxPercentage)
	rc.Footer = "Bye"

	out := string(FormatReceipt(rc, 32))
	assert.NotContains(t, out, "Tax (")
	assert.Contains(t, out, "Bye")
	assert.NotContains(t, out, "Thank you")
	assert.Contains(t, out, "RECEIPT")
}

func TestPrinterService_PrintReceipt(t *testing.T) {
	ctx := context.Background()
	receipts := newReceiptService(newFakeReceiptRepo(), newFakeSettingsRepo())
	owner := uuid.New()
	saved, err := receipts.Save(ctx, owner, receiptInput("R1"))
	require.NoError(t, err)

	p := &recordingPrinter{}
	svc := NewPrinterService(p, receipts, 0)

	printed, err := svc.PrintReceipt(ctx, owner, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "R1", printed.Number)
	require.Len(t, p.jobs, 1)
	assert.Contains(t, string(p.jobs[0]), "R1")

	_, err = svc.PrintReceipt(ctx, uuid.New(), saved.ID)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
	assert.Len(t, p.jobs, 1)
}

func TestPrinterService_Failures(t *testing.T) {
	ctx := context.Background()
	receipts := newReceiptService(newFakeReceiptRepo(), newFakeSettingsRepo())

	none, err := printer.New(printer.Config{})
	require.NoError(t, err)
	_, err = NewPrinterService(none, receipts, 32).TestPrint(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, errCode(t, err))

	broken := &recordingPrinter{err: errors.New("connection refused")}
	_, err = NewPrinterService(broken, receipts, 32).TestPrint(ctx)
	assert.Equal(t, http.StatusBadGateway, errCode(t, err))
}

func TestPrinterService_GetStatus(t *testing.T) {
	none, err := printer.New(printer.Config{Type: printer.TypeNone})
	require.NoError(t, err)

	status := NewPrinterService(none, nil, 0).GetStatus(context.Background())
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, printer.DefaultWidth, status.Width)

	status = NewPrinterService(&recordingPrinter{}, nil, 48).GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, printer.TypeNetwork, status.Type)
	assert.Equal(t, 48, status.Width)
}
