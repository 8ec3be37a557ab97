package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/email"
)

// fixedClock pins "today" for lifecycle tests
func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 15, 4, 5, 0, time.UTC) }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

// scriptedSource replays values in a loop
type scriptedSource struct {
	values []int
	pos    int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n
}

type passthroughTx struct {
	calls int
}

func (t *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func inRange(d time.Time, start, end *time.Time) bool {
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}

// --- invoices ---

type fakeInvoiceRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Invoice
	seq  time.Time

	failExists error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{rows: map[uuid.UUID]entity.Invoice{}, seq: day(2020, 1, 1)}
}

func cloneInvoice(inv entity.Invoice) entity.Invoice {
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return inv
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == inv.UserID && existing.Number == inv.Number {
			return repository.ErrDuplicate
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.seq = r.seq.Add(time.Second)
	inv.CreatedAt = r.seq
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		inv.Items[i].InvoiceID = inv.ID
	}
	r.rows[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[inv.ID]; !ok {
		return errors.New("update of unknown invoice")
	}
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
	}
	r.rows[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.rows[id]; ok && inv.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeInvoiceRepo) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok || userID == uuid.Nil || inv.UserID != userID {
		return nil, nil
	}
	out := cloneInvoice(inv)
	return &out, nil
}

func (r *fakeInvoiceRepo) list(userID uuid.UUID, keep func(entity.Invoice) bool) []entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Invoice{}
	for _, inv := range r.rows {
		if inv.UserID == userID && keep(inv) {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeInvoiceRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.Invoice, error) {
	return r.list(userID, func(entity.Invoice) bool { return true }), nil
}

func (r *fakeInvoiceRepo) Filter(_ context.Context, userID uuid.UUID, p repository.InvoiceFilterParams) ([]entity.Invoice, error) {
	return r.list(userID, func(inv entity.Invoice) bool {
		if !inRange(inv.Date, p.StartDate, p.EndDate) {
			return false
		}
		if p.ClientName != "" && !strings.Contains(strings.ToLower(inv.BillTo.Name), strings.ToLower(p.ClientName)) {
			return false
		}
		if p.Status != nil && inv.Status != *p.Status {
			return false
		}
		return true
	}), nil
}

func (r *fakeInvoiceRepo) SearchByNumber(_ context.Context, userID uuid.UUID, q string) ([]entity.Invoice, error) {
	return r.list(userID, func(inv entity.Invoice) bool {
		return strings.Contains(strings.ToLower(inv.Number), strings.ToLower(q))
	}), nil
}

func (r *fakeInvoiceRepo) ExistsByNumber(_ context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	if r.failExists != nil {
		return false, r.failExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.rows {
		if inv.UserID == userID && inv.Number == number && inv.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id, userID uuid.UUID, status enum.InvoiceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok || inv.UserID != userID {
		return nil
	}
	inv.Status = status
	r.rows[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, _ := r.ListByUser(ctx, userID)
	return int64(len(all)), nil
}

func (r *fakeInvoiceRepo) CountByUserAndStatus(_ context.Context, userID uuid.UUID, status enum.InvoiceStatus) (int64, error) {
	return int64(len(r.list(userID, func(inv entity.Invoice) bool { return inv.Status == status }))), nil
}

// --- receipts ---

type fakeReceiptRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Receipt
	seq  time.Time
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{rows: map[uuid.UUID]entity.Receipt{}, seq: day(2020, 1, 1)}
}

func cloneReceipt(rc entity.Receipt) entity.Receipt {
	rc.Items = append([]entity.ReceiptItem(nil), rc.Items...)
	return rc
}

func (r *fakeReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == rc.UserID && existing.Number == rc.Number {
			return repository.ErrDuplicate
		}
	}
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	r.seq = r.seq.Add(time.Second)
	rc.CreatedAt = r.seq
	for i := range rc.Items {
		rc.Items[i].ID = uuid.New()
		rc.Items[i].ReceiptID = rc.ID
	}
	r.rows[rc.ID] = cloneReceipt(*rc)
	return nil
}

func (r *fakeReceiptRepo) Update(_ context.Context, rc *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[rc.ID]; !ok {
		return errors.New("update of unknown receipt")
	}
	r.rows[rc.ID] = cloneReceipt(*rc)
	return nil
}

func (r *fakeReceiptRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rc, ok := r.rows[id]; ok && rc.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeReceiptRepo) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.rows[id]
	if !ok || userID == uuid.Nil || rc.UserID != userID {
		return nil, nil
	}
	out := cloneReceipt(rc)
	return &out, nil
}

func (r *fakeReceiptRepo) list(userID uuid.UUID, keep func(entity.Receipt) bool) []entity.Receipt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Receipt{}
	for _, rc := range r.rows {
		if rc.UserID == userID && keep(rc) {
			out = append(out, cloneReceipt(rc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeReceiptRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.Receipt, error) {
	return r.list(userID, func(entity.Receipt) bool { return true }), nil
}

func (r *fakeReceiptRepo) Filter(_ context.Context, userID uuid.UUID, p repository.ReceiptFilterParams) ([]entity.Receipt, error) {
	return r.list(userID, func(rc entity.Receipt) bool {
		if !inRange(rc.Date, p.StartDate, p.EndDate) {
			return false
		}
		return p.Customer == "" || strings.Contains(strings.ToLower(rc.BillTo), strings.ToLower(p.Customer))
	}), nil
}

func (r *fakeReceiptRepo) SearchByNumber(_ context.Context, userID uuid.UUID, q string) ([]entity.Receipt, error) {
	return r.list(userID, func(rc entity.Receipt) bool {
		return strings.Contains(strings.ToLower(rc.Number), strings.ToLower(q))
	}), nil
}

func (r *fakeReceiptRepo) ExistsByNumber(_ context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rc := range r.rows {
		if rc.UserID == userID && rc.Number == number && rc.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReceiptRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, _ := r.ListByUser(ctx, userID)
	return int64(len(all)), nil
}

// --- settings and users ---

type fakeSettingsRepo struct {
	rows map[uuid.UUID]*entity.UserSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{rows: map[uuid.UUID]*entity.UserSettings{}}
}

func (r *fakeSettingsRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	s, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *fakeSettingsRepo) Create(_ context.Context, s *entity.UserSettings) error {
	if _, ok := r.rows[s.UserID]; ok {
		return repository.ErrDuplicate
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	stored := *s
	r.rows[s.UserID] = &stored
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *entity.UserSettings) error {
	stored := *s
	r.rows[s.UserID] = &stored
	return nil
}

type fakeUserRepo struct {
	rows map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	stored := *u
	r.rows[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.rows {
		if u.Email == strings.ToLower(email) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	stored := *u
	r.rows[u.ID] = &stored
	return nil
}

// --- renderers and mail ---

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) RenderInvoice(inv *entity.Invoice) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-invoice-" + inv.Number), nil
}

func (f *fakeRenderer) RenderReceipt(rc *entity.Receipt) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-receipt-" + rc.Number), nil
}

func (f *fakeRenderer) RenderInvoiceList(invoices []entity.Invoice) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	numbers := make([]string, len(invoices))
	for i, inv := range invoices {
		numbers[i] = inv.Number
	}
	return []byte(strings.Join(numbers, ",")), nil
}

func (f *fakeRenderer) RenderReceiptList(receipts []entity.Receipt) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	numbers := make([]string, len(receipts))
	for i, rc := range receipts {
		numbers[i] = rc.Number
	}
	return []byte(strings.Join(numbers, ",")), nil
}

type sentMail struct {
	to   string
	data email.InvoiceEmail
	pdf  []byte
}

type fakeMailer struct {
	configured bool
	err        error
	sent       []sentMail
}

func (m *fakeMailer) IsConfigured() bool { return m.configured }

func (m *fakeMailer) SendInvoice(_ context.Context, to string, data email.InvoiceEmail, pdf []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, data: data, pdf: pdf})
	return nil
}
