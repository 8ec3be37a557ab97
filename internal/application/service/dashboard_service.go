package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/shopspring/decimal"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	invoiceRepo repository.InvoiceRepository
	receiptRepo repository.ReceiptRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo repository.InvoiceRepository, receiptRepo repository.ReceiptRepository) *DashboardService {
	return &DashboardService{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
	}
}

// DashboardStats represents dashboard statistics for one user and one day
type DashboardStats struct {
	Date                string          `json:"date"`
	TotalInvoices       int64           `json:"total_invoices"`
	PaidInvoices        int64           `json:"paid_invoices"`
	PendingInvoices     int64           `json:"pending_invoices"`
	OverdueInvoices     int64           `json:"overdue_invoices"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	UnpaidRevenue       decimal.Decimal `json:"unpaid_revenue"`
	DailyInvoiceRevenue decimal.Decimal `json:"daily_invoice_revenue"`
	TotalReceipts       int64           `json:"total_receipts"`
	DailyReceiptRevenue decimal.Decimal `json:"daily_receipt_revenue"`
	TotalDailyRevenue   decimal.Decimal `json:"total_daily_revenue"`
}

// GetStats aggregates the user's invoices and receipts. Paid revenue only
// counts PAID invoices; unpaid revenue counts every other status.
func (s *DashboardService) GetStats(ctx context.Context, userID uuid.UUID, day time.Time) (*DashboardStats, error) {
	day = dateOnly(day)
	stats := &DashboardStats{Date: day.Format(entity.DateLayout)}

	var err error
	if stats.TotalInvoices, err = s.invoiceRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if stats.PaidInvoices, err = s.invoiceRepo.CountByUserAndStatus(ctx, userID, enum.InvoiceStatusPaid); err != nil {
		return nil, err
	}
	if stats.PendingInvoices, err = s.invoiceRepo.CountByUserAndStatus(ctx, userID, enum.InvoiceStatusPending); err != nil {
		return nil, err
	}
	if stats.OverdueInvoices, err = s.invoiceRepo.CountByUserAndStatus(ctx, userID, enum.InvoiceStatusOverdue); err != nil {
		return nil, err
	}
	if stats.TotalReceipts, err = s.receiptRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue, stats.UnpaidRevenue, stats.DailyInvoiceRevenue = invoiceRevenue(invoices, day)

	receipts, err := s.receiptRepo.Filter(ctx, userID, repository.ReceiptFilterParams{StartDate: &day, EndDate: &day})
	if err != nil {
		return nil, err
	}
	stats.DailyReceiptRevenue = receiptRevenue(receipts)
	stats.TotalDailyRevenue = money.Sum(stats.DailyInvoiceRevenue, stats.DailyReceiptRevenue)

	return stats, nil
}

// invoiceRevenue splits grand totals into paid, unpaid and paid-on-day sums
func invoiceRevenue(invoices []entity.Invoice, day time.Time) (paid, unpaid, daily decimal.Decimal) {
	paid, unpaid, daily = decimal.Zero, decimal.Zero, decimal.Zero
	for i := range invoices {
		total := invoices[i].GrandTotal()
		if invoices[i].Status != enum.InvoiceStatusPaid {
			unpaid = unpaid.Add(total)
			continue
		}
		paid = paid.Add(total)
		if dateOnly(invoices[i].Date).Equal(day) {
			daily = daily.Add(total)
		}
	}
	return paid, unpaid, daily
}

func receiptRevenue(receipts []entity.Receipt) decimal.Decimal {
	sum := decimal.Zero
	for i := range receipts {
		sum = sum.Add(receipts[i].GrandTotal())
	}
	return sum
}
