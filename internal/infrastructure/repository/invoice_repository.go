package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func orderedInvoiceItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return translate(conn(ctx, r.db).Create(invoice).Error)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	db := conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Save(invoice).Error; err != nil {
		return fmt.Errorf("save invoice: %w", translate(err))
	}
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
		return fmt.Errorf("clear invoice items: %w", err)
	}
	if len(invoice.Items) == 0 {
		return nil
	}
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}
	if err := db.Create(&invoice.Items).Error; err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	db := conn(ctx, r.db)

	owned := db.Model(&entity.Invoice{}).Select("id").Scopes(OwnerScope(userID)).Where("id = ?", id)
	if err := db.Where("invoice_id IN (?)", owned).Delete(&entity.InvoiceItem{}).Error; err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return db.Scopes(OwnerScope(userID)).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		Preload("Items", orderedInvoiceItems).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error) {
	return r.Filter(ctx, userID, domainRepo.InvoiceFilterParams{})
}

func (r *invoiceRepository) Filter(ctx context.Context, userID uuid.UUID, params domainRepo.InvoiceFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(OwnerScope(userID), DateRangeScope(params.StartDate, params.EndDate))

	if name := strings.TrimSpace(params.ClientName); name != "" {
		query = query.Where(`LOWER(bill_to_name) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(name)))
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	err := query.Scopes(newestFirst).
		Preload("Items", orderedInvoiceItems).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) SearchByNumber(ctx context.Context, userID uuid.UUID, q string) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		Where(`number ILIKE ? ESCAPE '\'`, containsPattern(strings.TrimSpace(q))).
		Scopes(newestFirst).
		Preload("Items", orderedInvoiceItems).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(OwnerScope(userID)).
		Where("number = ?", number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status enum.InvoiceStatus) error {
	return conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(OwnerScope(userID)).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).Scopes(OwnerScope(userID)).Count(&count).Error
	return count, err
}

func (r *invoiceRepository) CountByUserAndStatus(ctx context.Context, userID uuid.UUID, status enum.InvoiceStatus) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(OwnerScope(userID)).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
