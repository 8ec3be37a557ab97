package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/mail.v2"
)

const (
	defaultCompanyName  = "Billgen Pro"
	defaultPrimaryColor = "#6366f1"
)

// ErrNotConfigured is returned when no SMTP host or sender address is set.
var ErrNotConfigured = errors.New("email service is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Sender delivers composed messages. *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// EmailService composes and sends invoice mail
type EmailService struct {
	config EmailConfig
	sender Sender
}

// NewEmailService creates a new email service. Without a host or sender
// address the service stays usable but reports itself unconfigured.
func NewEmailService(config EmailConfig) *EmailService {
	s := &EmailService{config: config}
	if config.SMTPHost != "" {
		s.sender = mail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	}
	return s
}

// NewEmailServiceWithSender wires an explicit transport.
func NewEmailServiceWithSender(config EmailConfig, sender Sender) *EmailService {
	return &EmailService{config: config, sender: sender}
}

// IsConfigured reports whether mail can be sent at all
func (s *EmailService) IsConfigured() bool {
	return s != nil && s.sender != nil && s.config.FromEmail != ""
}

// InvoiceEmail carries what the invoice mail shows
type InvoiceEmail struct {
	Number         string
	CompanyName    string
	CustomerName   string
	Date           string
	GrandTotal     string
	Status         string
	PrimaryColor   string
	CurrencySymbol string
}

// Subject returns "Invoice #N from Company"
func (d InvoiceEmail) Subject() string {
	company := d.CompanyName
	if company == "" {
		company = defaultCompanyName
	}
	return "Invoice #" + d.Number + " from " + company
}

// AttachmentName returns the file name used for the attached PDF
func (d InvoiceEmail) AttachmentName() string {
	return "invoice-" + d.Number + ".pdf"
}

// SendInvoice mails the invoice summary to one recipient with pdf attached
func (s *EmailService) SendInvoice(ctx context.Context, to string, data InvoiceEmail, pdf []byte) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.composeInvoice(to, data, pdf)
	if err != nil {
		return err
	}

	if err := s.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func (s *EmailService) composeInvoice(to string, data InvoiceEmail, pdf []byte) (*mail.Message, error) {
	body, err := renderInvoiceBody(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	m := mail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", data.Subject())
	m.SetBody("text/html", body)
	m.Attach(data.AttachmentName(),
		mail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		mail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)
	return m, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(invoiceEmailTemplate))

func renderInvoiceBody(data InvoiceEmail) (string, error) {
	if data.PrimaryColor == "" {
		data.PrimaryColor = defaultPrimaryColor
	}
	if data.CompanyName == "" {
		data.CompanyName = "Company"
	}
	if data.CustomerName == "" {
		data.CustomerName = "Customer"
	}
	if data.Status == "" {
		data.Status = "Pending"
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, struct {
		InvoiceEmail
		Color template.CSS
	}{data, template.CSS(data.PrimaryColor)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const invoiceEmailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice #{{.Number}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; line-height: 1.6; color: #333333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <div style="background: {{.Color}}; color: #ffffff; padding: 30px; border-radius: 10px 10px 0 0;">
            <h1 style="margin: 0;">Invoice #{{.Number}}</h1>
            <p style="margin: 10px 0 0 0;">{{.CompanyName}}</p>
        </div>
        <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
            <p>Dear {{.CustomerName}},</p>
            <p>Please find attached your invoice #{{.Number}} for the amount of {{.CurrencySymbol}}{{.GrandTotal}}.</p>
            <div style="background: #ffffff; padding: 20px; border-radius: 8px; margin: 20px 0;">
                <p><strong>Invoice Date:</strong> {{.Date}}</p>
                <p><strong>Total Amount:</strong> {{.CurrencySymbol}}{{.GrandTotal}}</p>
                <p><strong>Status:</strong> {{.Status}}</p>
            </div>
            <p>If you have any questions about this invoice, please don't hesitate to contact us.</p>
            <p>Thank you for your business!</p>
            <p>Best regards,<br>{{.CompanyName}}</p>
        </div>
        <div style="text-align: center; color: #666666; font-size: 12px; margin-top: 30px;">
            <p>This is an automated email from Billgen Pro. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>`
