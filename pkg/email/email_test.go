package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mail.v2"
)

type recordingSender struct {
	sent []*mail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

var testConfig = EmailConfig{
	SMTPHost:  "smtp.example.com",
	SMTPPort:  587,
	FromName:  "Billgen Pro",
	FromEmail: "billing@example.com",
}

func TestEmailService_IsConfigured(t *testing.T) {
	assert.False(t, NewEmailService(EmailConfig{}).IsConfigured())
	assert.False(t, NewEmailService(EmailConfig{SMTPHost: "smtp.example.com"}).IsConfigured())
	assert.True(t, NewEmailService(testConfig).IsConfigured())

	var nilService *EmailService
	assert.False(t, nilService.IsConfigured())
}

func TestEmailService_SendInvoice_NotConfigured(t *testing.T) {
	err := NewEmailService(EmailConfig{}).SendInvoice(context.Background(), "a@b.c", InvoiceEmail{Number: "1"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEmailService_SendInvoice(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(testConfig, sender)

	data := InvoiceEmail{
		Number:         "AB1234",
		CompanyName:    "Acme",
		CustomerName:   "Jane",
		Date:           "2024-01-15",
		GrandTotal:     "49.50",
		Status:         "Paid",
		CurrencySymbol: "Rs.",
	}
	err := svc.SendInvoice(context.Background(), "jane@example.com", data, []byte("%PDF-1.3 test"))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"Invoice #AB1234 from Acme"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="invoice-AB1234.pdf"`)
}

func TestEmailService_SendInvoice_TransportError(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	svc := NewEmailServiceWithSender(testConfig, sender)

	err := svc.SendInvoice(context.Background(), "jane@example.com", InvoiceEmail{Number: "1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEmailService_SendInvoice_CancelledContext(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(testConfig, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.SendInvoice(ctx, "jane@example.com", InvoiceEmail{Number: "1"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestInvoiceEmail_Subject_DefaultCompany(t *testing.T) {
	assert.Equal(t, "Invoice #77 from Billgen Pro", InvoiceEmail{Number: "77"}.Subject())
}

func TestRenderInvoiceBody(t *testing.T) {
	body, err := renderInvoiceBody(InvoiceEmail{Number: "77", GrandTotal: "10.00"})
	require.NoError(t, err)

	assert.Contains(t, body, "#6366f1")
	assert.Contains(t, body, "Dear Customer,")
	assert.Contains(t, body, "<strong>Status:</strong> Pending")
	assert.Contains(t, body, "10.00")
}

func TestRenderInvoiceBody_EscapesInput(t *testing.T) {
	body, err := renderInvoiceBody(InvoiceEmail{Number: "1", CustomerName: "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
