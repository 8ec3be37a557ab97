package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	svc      *DocumentService
	invoices *InvoiceService
	receipts *ReceiptService
	settings *fakeSettingsRepo
	renderer *fakeRenderer
	mailer   *fakeMailer
	owner    uuid.UUID
}

func newDocumentFixture() *documentFixture {
	inv := newInvoiceFixture()
	f := &documentFixture{
		invoices: inv.svc,
		receipts: newReceiptService(newFakeReceiptRepo(), inv.settings),
		settings: inv.settings,
		renderer: &fakeRenderer{},
		mailer:   &fakeMailer{configured: true},
		owner:    uuid.New(),
	}
	f.svc = NewDocumentService(f.invoices, f.receipts, f.settings, f.renderer, f.renderer, f.mailer)
	return f
}

func (f *documentFixture) invoice(t *testing.T, number string) *entity.Invoice {
	t.Helper()
	saved, err := f.invoices.Save(context.Background(), f.owner, invoiceInput(number))
	require.NoError(t, err)
	return saved
}

func TestDocumentService_InvoicePDF(t *testing.T) {
	f := newDocumentFixture()
	inv := f.invoice(t, "AB1234")

	doc, err := f.svc.InvoicePDF(context.Background(), f.owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-AB1234.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "%PDF-invoice-AB1234", string(doc.Content))

	_, err = f.svc.InvoicePDF(context.Background(), uuid.New(), inv.ID)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	f.renderer.err = errors.New("font missing")
	_, err = f.svc.InvoicePDF(context.Background(), f.owner, inv.ID)
	assert.Equal(t, http.StatusInternalServerError, errCode(t, err))
}

func TestDocumentService_ReceiptPDF(t *testing.T) {
	f := newDocumentFixture()
	rc, err := f.receipts.Save(context.Background(), f.owner, receiptInput("R9"))
	require.NoError(t, err)

	doc, err := f.svc.ReceiptPDF(context.Background(), f.owner, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, "receipt-R9.pdf", doc.Filename)
	assert.Equal(t, "%PDF-receipt-R9", string(doc.Content))
}

func TestDocumentService_ExportFollowsFilter(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()

	for _, n := range []string{"A1", "A2"} {
		f.invoice(t, n)
	}
	paid := invoiceInput("P1")
	paid.PaymentDate = dayPtr(2024, 3, 25)
	_, err := f.invoices.Save(ctx, f.owner, paid)
	require.NoError(t, err)

	doc, err := f.svc.ExportInvoices(ctx, f.owner, ParseInvoiceFilter("", "", "", "paid"))
	require.NoError(t, err)
	assert.Equal(t, "invoices-export.xlsx", doc.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)
	assert.Equal(t, "P1", string(doc.Content))

	doc, err = f.svc.ExportReceipts(ctx, f.owner, ParseReceiptFilter("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "receipts-export.xlsx", doc.Filename)
	assert.Empty(t, doc.Content)

	f.renderer.err = errors.New("disk full")
	_, err = f.svc.ExportReceipts(ctx, f.owner, ParseReceiptFilter("", "", ""))
	assert.Equal(t, http.StatusInternalServerError, errCode(t, err))
}

func TestDocumentService_SendInvoiceEmail(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	input := invoiceInput("AB1234")
	input.Company = entity.Company{Name: "Acme"}
	input.PrimaryColor = "#112233"
	inv, err := f.invoices.Save(ctx, f.owner, input)
	require.NoError(t, err)

	require.NoError(t, f.svc.SendInvoiceEmail(ctx, f.owner, inv.ID, "jane@example.com"))
	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, "jane@example.com", sent.to)
	assert.Equal(t, "%PDF-invoice-AB1234", string(sent.pdf))
	assert.Equal(t, email.InvoiceEmail{
		Number:         "AB1234",
		CompanyName:    "Acme",
		CustomerName:   "Jane Buyer",
		Date:           "2024-03-20",
		GrandTotal:     "49.50",
		Status:         "Pending",
		PrimaryColor:   "#112233",
		CurrencySymbol: "₹",
	}, sent.data)
}

func TestDocumentService_SendInvoiceEmail_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign invoice", func(t *testing.T) {
		f := newDocumentFixture()
		inv := f.invoice(t, "X1")
		err := f.svc.SendInvoiceEmail(ctx, uuid.New(), inv.ID, "a@b.co")
		assert.Equal(t, http.StatusNotFound, errCode(t, err))
	})

	t.Run("mailer not configured", func(t *testing.T) {
		f := newDocumentFixture()
		f.mailer.configured = false
		inv := f.invoice(t, "X1")
		err := f.svc.SendInvoiceEmail(ctx, f.owner, inv.ID, "a@b.co")
		assert.Equal(t, http.StatusServiceUnavailable, errCode(t, err))
		assert.False(t, f.svc.MailConfigured())
	})

	t.Run("no mailer", func(t *testing.T) {
		f := newDocumentFixture()
		svc := NewDocumentService(f.invoices, f.receipts, f.settings, f.renderer, f.renderer, nil)
		inv := f.invoice(t, "X1")
		err := svc.SendInvoiceEmail(ctx, f.owner, inv.ID, "a@b.co")
		assert.Equal(t, http.StatusServiceUnavailable, errCode(t, err))
	})

	t.Run("transport error", func(t *testing.T) {
		f := newDocumentFixture()
		f.mailer.err = errors.New("535 auth failed")
		inv := f.invoice(t, "X1")
		err := f.svc.SendInvoiceEmail(ctx, f.owner, inv.ID, "a@b.co")
		assert.Equal(t, http.StatusBadGateway, errCode(t, err))
	})

	t.Run("sender reports not configured", func(t *testing.T) {
		f := newDocumentFixture()
		f.mailer.err = email.ErrNotConfigured
		inv := f.invoice(t, "X1")
		err := f.svc.SendInvoiceEmail(ctx, f.owner, inv.ID, "a@b.co")
		assert.Equal(t, http.StatusServiceUnavailable, errCode(t, err))
	})
}
