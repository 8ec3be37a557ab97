package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/sangkips/billgen-api/pkg/numbering"
)

// ReceiptService handles receipt-related operations
type ReceiptService struct {
	receiptRepo  repository.ReceiptRepository
	settingsRepo repository.SettingsRepository
	tx           repository.Transactor
	numbers      *numbering.Generator
	opts         billingOptions
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	settingsRepo repository.SettingsRepository,
	tx repository.Transactor,
	numbers *numbering.Generator,
	opts ...BillingOption,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		tx:           tx,
		numbers:      numbers,
		opts:         newBillingOptions(opts),
	}
}

// Save creates or updates a receipt owned by userID
func (s *ReceiptService) Save(ctx context.Context, userID uuid.UUID, input *entity.Receipt) (*entity.Receipt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	items := namedReceiptItems(input.Items)
	input.Number = strings.TrimSpace(input.Number)
	input.TaxPercentage = money.ToStored(input.TaxPercentage)
	if input.Date.IsZero() {
		input.Date = s.opts.today()
	}

	var saved *entity.Receipt
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// a foreign or missing document is reported before anything about the payload
		var existing *entity.Receipt
		if !input.IsNew() {
			owned, err := s.owned(ctx, userID, input.ID)
			if err != nil {
				return err
			}
			existing = owned
		}

		if errs := validateDocument(input.Number, input.TaxPercentage, receiptLines(items)); len(errs) > 0 {
			return apperror.NewValidationError(errs)
		}
		taken, err := s.receiptRepo.ExistsByNumber(ctx, userID, input.Number, input.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.NewConflictError("Receipt number already exists")
		}

		if existing == nil {
			receipt := *input
			receipt.UserID = userID
			receipt.TemplateNumber = normalizeTemplate(receipt.TemplateNumber)
			receipt.AttachItems(items)

			if err := s.receiptRepo.Create(ctx, &receipt); err != nil {
				return translateWriteError(err, "Receipt")
			}
			saved = &receipt
			return nil
		}

		existing.Number = input.Number
		existing.Date = input.Date
		existing.Company = input.Company
		existing.BillTo = input.BillTo
		existing.Cashier = input.Cashier
		existing.TaxPercentage = input.TaxPercentage
		existing.Notes = input.Notes
		existing.Footer = input.Footer
		existing.TemplateNumber = normalizeTemplate(input.TemplateNumber)
		existing.UserID = userID
		existing.AttachItems(items)

		if err := s.receiptRepo.Update(ctx, existing); err != nil {
			return translateWriteError(err, "Receipt")
		}
		saved = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetByID returns a receipt owned by userID
func (s *ReceiptService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	return s.owned(ctx, userID, id)
}

func (s *ReceiptService) owned(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// Delete removes a receipt and its items
func (s *ReceiptService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, userID, id); err != nil {
			return err
		}
		return s.receiptRepo.Delete(ctx, id, userID)
	})
}

func (s *ReceiptService) List(ctx context.Context, userID uuid.UUID) ([]entity.Receipt, error) {
	return s.receiptRepo.ListByUser(ctx, userID)
}

func (s *ReceiptService) Filter(ctx context.Context, userID uuid.UUID, params repository.ReceiptFilterParams) ([]entity.Receipt, error) {
	if params.IsEmpty() {
		return s.List(ctx, userID)
	}
	return s.receiptRepo.Filter(ctx, userID, params)
}

func (s *ReceiptService) Search(ctx context.Context, userID uuid.UUID, q string) ([]entity.Receipt, error) {
	if strings.TrimSpace(q) == "" {
		return s.List(ctx, userID)
	}
	return s.receiptRepo.SearchByNumber(ctx, userID, q)
}

func (s *ReceiptService) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	return uniqueNumber(ctx, s.numbers, func(ctx context.Context, number string) (bool, error) {
		return s.receiptRepo.ExistsByNumber(ctx, userID, number, uuid.Nil)
	})
}

// NewDraft returns an unsaved receipt prefilled from the user's defaults
func (s *ReceiptService) NewDraft(ctx context.Context, userID uuid.UUID) (*entity.Receipt, error) {
	number, err := s.NextNumber(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(ctx, s.settingsRepo, userID)
	if err != nil {
		return nil, err
	}

	return &entity.Receipt{
		Number:         number,
		Date:           s.opts.today(),
		Company:        settings.Company,
		TaxPercentage:  settings.DefaultTaxPercentage,
		Notes:          settings.DefaultNotes,
		Footer:         settings.ReceiptFooter,
		TemplateNumber: normalizeTemplate(settings.DefaultTemplate),
		Items:          []entity.ReceiptItem{{}},
	}, nil
}

func namedReceiptItems(items []entity.ReceiptItem) []entity.ReceiptItem {
	kept := make([]entity.ReceiptItem, 0, len(items))
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

func receiptLines(items []entity.ReceiptItem) []lineInput {
	lines := make([]lineInput, len(items))
	for i, item := range items {
		lines[i] = lineInput{Name: item.Name, Quantity: item.Quantity, Amount: item.Amount}
	}
	return lines
}
