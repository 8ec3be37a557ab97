package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/email"
	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/sangkips/billgen-api/pkg/money"
)

// PDFRenderer turns a single document into PDF bytes without modifying it
type PDFRenderer interface {
	RenderInvoice(inv *entity.Invoice) ([]byte, error)
	RenderReceipt(rc *entity.Receipt) ([]byte, error)
}

// SpreadsheetRenderer turns a document list into an xlsx workbook
type SpreadsheetRenderer interface {
	RenderInvoiceList(invoices []entity.Invoice) ([]byte, error)
	RenderReceiptList(receipts []entity.Receipt) ([]byte, error)
}

// InvoiceMailer delivers an invoice with its PDF attached
type InvoiceMailer interface {
	IsConfigured() bool
	SendInvoice(ctx context.Context, to string, data email.InvoiceEmail, pdf []byte) error
}

// Document is a rendered file ready to be streamed
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DocumentService renders and mails documents the user owns
type DocumentService struct {
	invoices *InvoiceService
	receipts *ReceiptService
	settings repository.SettingsRepository
	pdf      PDFRenderer
	sheets   SpreadsheetRenderer
	mailer   InvoiceMailer
}

// NewDocumentService creates a document service. mailer may be nil.
func NewDocumentService(
	invoices *InvoiceService,
	receipts *ReceiptService,
	settings repository.SettingsRepository,
	pdf PDFRenderer,
	sheets SpreadsheetRenderer,
	mailer InvoiceMailer,
) *DocumentService {
	return &DocumentService{
		invoices: invoices,
		receipts: receipts,
		settings: settings,
		pdf:      pdf,
		sheets:   sheets,
		mailer:   mailer,
	}
}

// InvoicePDF renders one owned invoice
func (s *DocumentService) InvoicePDF(ctx context.Context, userID, id uuid.UUID) (*Document, error) {
	invoice, err := s.invoices.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.RenderInvoice(invoice)
	if err != nil {
		return nil, apperror.NewRenderingError("PDF", err)
	}
	return &Document{
		Filename:    "invoice-" + invoice.Number + ".pdf",
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

// ReceiptPDF renders one owned receipt
func (s *DocumentService) ReceiptPDF(ctx context.Context, userID, id uuid.UUID) (*Document, error) {
	receipt, err := s.receipts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.RenderReceipt(receipt)
	if err != nil {
		return nil, apperror.NewRenderingError("PDF", err)
	}
	return &Document{
		Filename:    "receipt-" + receipt.Number + ".pdf",
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

// ExportInvoices renders the same list the filter would return
func (s *DocumentService) ExportInvoices(ctx context.Context, userID uuid.UUID, params repository.InvoiceFilterParams) (*Document, error) {
	invoices, err := s.invoices.Filter(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	content, err := s.sheets.RenderInvoiceList(invoices)
	if err != nil {
		return nil, apperror.NewRenderingError("Excel file", err)
	}
	return &Document{
		Filename:    "invoices-export.xlsx",
		ContentType: contentTypeXLSX,
		Content:     content,
	}, nil
}

// ExportReceipts renders the same list the filter would return
func (s *DocumentService) ExportReceipts(ctx context.Context, userID uuid.UUID, params repository.ReceiptFilterParams) (*Document, error) {
	receipts, err := s.receipts.Filter(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	content, err := s.sheets.RenderReceiptList(receipts)
	if err != nil {
		return nil, apperror.NewRenderingError("Excel file", err)
	}
	return &Document{
		Filename:    "receipts-export.xlsx",
		ContentType: contentTypeXLSX,
		Content:     content,
	}, nil
}

// MailConfigured reports whether SendInvoiceEmail can succeed at all
func (s *DocumentService) MailConfigured() bool {
	return s.mailer != nil && s.mailer.IsConfigured()
}

// SendInvoiceEmail mails an owned invoice to recipient with its PDF attached
func (s *DocumentService) SendInvoiceEmail(ctx context.Context, userID, id uuid.UUID, recipient string) error {
	invoice, err := s.invoices.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !s.MailConfigured() {
		return apperror.ErrMailUnavailable
	}

	pdf, err := s.pdf.RenderInvoice(invoice)
	if err != nil {
		return apperror.NewRenderingError("PDF", err)
	}

	settings, err := loadSettings(ctx, s.settings, userID)
	if err != nil {
		return err
	}

	data := email.InvoiceEmail{
		Number:         invoice.Number,
		CompanyName:    invoice.Company.Name,
		CustomerName:   invoice.BillTo.Name,
		Date:           invoice.Date.Format(entity.DateLayout),
		GrandTotal:     money.Format(invoice.GrandTotal()),
		Status:         invoice.Status.Label(),
		PrimaryColor:   invoice.PrimaryColor,
		CurrencySymbol: settings.CurrencySymbol,
	}

	if err := s.mailer.SendInvoice(ctx, recipient, data, pdf); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return apperror.ErrMailUnavailable
		}
		log := logger.WithComponent("documents")
		log.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to send invoice email")
		return apperror.NewMailSendError(err)
	}
	return nil
}
