package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func orderedReceiptItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return translate(conn(ctx, r.db).Create(receipt).Error)
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	db := conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Save(receipt).Error; err != nil {
		return fmt.Errorf("save receipt: %w", translate(err))
	}
	if err := db.Where("receipt_id = ?", receipt.ID).Delete(&entity.ReceiptItem{}).Error; err != nil {
		return fmt.Errorf("clear receipt items: %w", err)
	}
	if len(receipt.Items) == 0 {
		return nil
	}
	for i := range receipt.Items {
		receipt.Items[i].ReceiptID = receipt.ID
	}
	if err := db.Create(&receipt.Items).Error; err != nil {
		return fmt.Errorf("insert receipt items: %w", err)
	}
	return nil
}

func (r *receiptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	db := conn(ctx, r.db)

	owned := db.Model(&entity.Receipt{}).Select("id").Scopes(OwnerScope(userID)).Where("id = ?", id)
	if err := db.Where("receipt_id IN (?)", owned).Delete(&entity.ReceiptItem{}).Error; err != nil {
		return fmt.Errorf("delete receipt items: %w", err)
	}
	return db.Scopes(OwnerScope(userID)).Delete(&entity.Receipt{}, "id = ?", id).Error
}

func (r *receiptRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		Preload("Items", orderedReceiptItems).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Receipt, error) {
	return r.Filter(ctx, userID, domainRepo.ReceiptFilterParams{})
}

func (r *receiptRepository) Filter(ctx context.Context, userID uuid.UUID, params domainRepo.ReceiptFilterParams) ([]entity.Receipt, error) {
	var receipts []entity.Receipt

	query := conn(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(OwnerScope(userID), DateRangeScope(params.StartDate, params.EndDate))

	if customer := strings.TrimSpace(params.Customer); customer != "" {
		query = query.Where(`LOWER(bill_to) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(customer)))
	}

	err := query.Scopes(newestFirst).
		Preload("Items", orderedReceiptItems).
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) SearchByNumber(ctx context.Context, userID uuid.UUID, q string) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		Where(`number ILIKE ? ESCAPE '\'`, containsPattern(strings.TrimSpace(q))).
		Scopes(newestFirst).
		Preload("Items", orderedReceiptItems).
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ExistsByNumber(ctx context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(OwnerScope(userID)).
		Where("number = ?", number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *receiptRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Receipt{}).Scopes(OwnerScope(userID)).Count(&count).Error
	return count, err
}
