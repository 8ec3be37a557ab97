package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/sangkips/billgen-api/pkg/numbering"
)

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.SettingsRepository
	tx           repository.Transactor
	numbers      *numbering.Generator
	opts         billingOptions
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
	tx repository.Transactor,
	numbers *numbering.Generator,
	opts ...BillingOption,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		tx:           tx,
		numbers:      numbers,
		opts:         newBillingOptions(opts),
	}
}

// Save creates the invoice when it has no ID and updates the stored one
// otherwise. The owner is always forced to userID and the status is derived
// again after the merge.
func (s *InvoiceService) Save(ctx context.Context, userID uuid.UUID, input *entity.Invoice) (*entity.Invoice, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	items := namedInvoiceItems(input.Items)
	input.Number = strings.TrimSpace(input.Number)
	input.TaxPercentage = money.ToStored(input.TaxPercentage)
	if input.Date.IsZero() {
		input.Date = s.opts.today()
	}

	var saved *entity.Invoice
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// a foreign or missing document is reported before anything about the payload
		var existing *entity.Invoice
		if !input.IsNew() {
			owned, err := s.owned(ctx, userID, input.ID)
			if err != nil {
				return err
			}
			existing = owned
		}

		if errs := validateDocument(input.Number, input.TaxPercentage, invoiceLines(items)); len(errs) > 0 {
			return apperror.NewValidationError(errs)
		}
		taken, err := s.invoiceRepo.ExistsByNumber(ctx, userID, input.Number, input.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.NewConflictError("Invoice number already exists")
		}

		if existing == nil {
			invoice := *input
			invoice.UserID = userID
			invoice.TemplateNumber = normalizeTemplate(invoice.TemplateNumber)
			invoice.AttachItems(items)
			invoice.Status = DeriveInvoiceStatus(&invoice, s.opts.today(), s.opts.overdueAfterDays)

			if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
				return translateWriteError(err, "Invoice")
			}
			saved = &invoice
			return nil
		}

		existing.Number = input.Number
		existing.Date = input.Date
		existing.PaymentDate = input.PaymentDate
		existing.Company = input.Company
		existing.BillTo = input.BillTo
		existing.ShipTo = input.ShipTo
		existing.TaxPercentage = input.TaxPercentage
		existing.Notes = input.Notes
		existing.TemplateNumber = normalizeTemplate(input.TemplateNumber)
		existing.LogoURL = input.LogoURL
		existing.PrimaryColor = input.PrimaryColor
		existing.SecondaryColor = input.SecondaryColor
		existing.UserID = userID
		existing.AttachItems(items)
		existing.Status = DeriveInvoiceStatus(existing, s.opts.today(), s.opts.overdueAfterDays)

		if err := s.invoiceRepo.Update(ctx, existing); err != nil {
			return translateWriteError(err, "Invoice")
		}
		saved = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetByID returns an invoice owned by userID
func (s *InvoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	return s.owned(ctx, userID, id)
}

// owned loads an invoice, reporting a foreign one exactly like a missing one
func (s *InvoiceService) owned(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// Delete removes an invoice and its items
func (s *InvoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, userID, id); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(ctx, id, userID)
	})
}

// UpdateStatus changes only the status column of an owned invoice
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	if !status.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid invoice status")
	}

	invoice, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, id, userID, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// List returns every invoice of the user, newest date first
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error) {
	return s.invoiceRepo.ListByUser(ctx, userID)
}

// Filter narrows the user's invoices; empty params behave exactly like List
func (s *InvoiceService) Filter(ctx context.Context, userID uuid.UUID, params repository.InvoiceFilterParams) ([]entity.Invoice, error) {
	if params.IsEmpty() {
		return s.List(ctx, userID)
	}
	return s.invoiceRepo.Filter(ctx, userID, params)
}

// Search finds invoices whose number contains q, ignoring case
func (s *InvoiceService) Search(ctx context.Context, userID uuid.UUID, q string) ([]entity.Invoice, error) {
	if strings.TrimSpace(q) == "" {
		return s.List(ctx, userID)
	}
	return s.invoiceRepo.SearchByNumber(ctx, userID, q)
}

// NextNumber returns a number not yet used by any of the user's invoices
func (s *InvoiceService) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	return uniqueNumber(ctx, s.numbers, func(ctx context.Context, number string) (bool, error) {
		return s.invoiceRepo.ExistsByNumber(ctx, userID, number, uuid.Nil)
	})
}

// NewDraft returns an unsaved invoice prefilled with a fresh number, today's
// date and the user's billing defaults
func (s *InvoiceService) NewDraft(ctx context.Context, userID uuid.UUID) (*entity.Invoice, error) {
	number, err := s.NextNumber(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}

	return &entity.Invoice{
		Number:         number,
		Date:           s.opts.today(),
		Status:         enum.InvoiceStatusPending,
		Company:        settings.Company,
		TaxPercentage:  settings.DefaultTaxPercentage,
		Notes:          settings.DefaultNotes,
		TemplateNumber: normalizeTemplate(settings.DefaultTemplate),
		LogoURL:        settings.LogoURL,
		PrimaryColor:   settings.PrimaryColor,
		SecondaryColor: settings.SecondaryColor,
		Items:          []entity.InvoiceItem{{}},
	}, nil
}

func namedInvoiceItems(items []entity.InvoiceItem) []entity.InvoiceItem {
	kept := make([]entity.InvoiceItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			continue
		}
		item.Amount = money.ToStored(item.Amount)
		kept = append(kept, item)
	}
	return kept
}

func invoiceLines(items []entity.InvoiceItem) []lineInput {
	lines := make([]lineInput, len(items))
	for i, item := range items {
		lines[i] = lineInput{Name: item.Name, Quantity: item.Quantity, Amount: item.Amount}
	}
	return lines
}

// loadSettings returns the stored defaults or the built-in ones
func loadSettings(ctx context.Context, repo repository.SettingsRepository, userID uuid.UUID) (*entity.UserSettings, error) {
	if repo == nil {
		return entity.DefaultUserSettings(userID), nil
	}
	settings, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return entity.DefaultUserSettings(userID), nil
	}
	return settings, nil
}
