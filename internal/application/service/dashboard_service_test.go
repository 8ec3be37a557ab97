package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetStats(t *testing.T) {
	ctx := context.Background()
	invoiceRepo := newFakeInvoiceRepo()
	receiptRepo := newFakeReceiptRepo()
	invoices := NewInvoiceService(invoiceRepo, nil, &passthroughTx{}, nil, WithClock(fixedClock(2024, 3, 31)))
	receipts := newReceiptService(receiptRepo, nil)
	owner := uuid.New()

	// 49.50 each
	paidToday := invoiceInput("P1")
	paidToday.Date = day(2024, 3, 31)
	paidToday.PaymentDate = dayPtr(2024, 3, 31)
	paidEarlier := invoiceInput("P2")
	paidEarlier.PaymentDate = dayPtr(2024, 3, 21)
	pending := invoiceInput("U1")
	overdue := invoiceInput("U2")
	overdue.Date = day(2024, 1, 1)
	for _, in := range []*entity.Invoice{paidToday, paidEarlier, pending, overdue} {
		_, err := invoices.Save(ctx, owner, in)
		require.NoError(t, err)
	}
	_, err := invoices.Save(ctx, uuid.New(), invoiceInput("OTHER"))
	require.NoError(t, err)

	// 7.875 each
	todayReceipt := receiptInput("R1")
	todayReceipt.Date = day(2024, 3, 31)
	_, err = receipts.Save(ctx, owner, todayReceipt)
	require.NoError(t, err)
	_, err = receipts.Save(ctx, owner, receiptInput("R2"))
	require.NoError(t, err)

	svc := NewDashboardService(invoiceRepo, receiptRepo)
	stats, err := svc.GetStats(ctx, owner, fixedClock(2024, 3, 31)())
	require.NoError(t, err)

	assert.Equal(t, "2024-03-31", stats.Date)
	assert.EqualValues(t, 4, stats.TotalInvoices)
	assert.EqualValues(t, 2, stats.PaidInvoices)
	assert.EqualValues(t, 1, stats.PendingInvoices)
	assert.EqualValues(t, 1, stats.OverdueInvoices)
	assert.EqualValues(t, 2, stats.TotalReceipts)
	assert.Equal(t, "99", stats.TotalRevenue.String())
	assert.Equal(t, "99", stats.UnpaidRevenue.String())
	assert.Equal(t, "49.5", stats.DailyInvoiceRevenue.String())
	assert.Equal(t, "7.875", stats.DailyReceiptRevenue.String())
	assert.Equal(t, "57.375", stats.TotalDailyRevenue.String())
}

func TestDashboardService_GetStats_Empty(t *testing.T) {
	svc := NewDashboardService(newFakeInvoiceRepo(), newFakeReceiptRepo())
	stats, err := svc.GetStats(context.Background(), uuid.New(), day(2024, 3, 31))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalInvoices)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.TotalDailyRevenue.IsZero())
}
