package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/application/service"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billgen-api/pkg/apperror"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	documentService *service.DocumentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, documentService *service.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// List returns the user's invoices, narrowed by any of start_date, end_date,
// client_name and status
// @Summary List invoices
// @Tags invoices
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter request.InvoiceFilterRequest
	_ = c.ShouldBindQuery(&filter)
	params := service.ParseInvoiceFilter(filter.StartDate, filter.EndDate, filter.ClientName, filter.Status)

	invoices, err := h.invoiceService.Filter(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", invoices)
}

// Search finds invoices by number
// @Router /invoices/search [get]
func (h *InvoiceHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", invoices)
}

// New returns an unsaved draft with a fresh number and the user's defaults
// @Router /invoices/new [get]
func (h *InvoiceHandler) New(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.invoiceService.NewDraft(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice draft created", draft)
}

// Create saves a new invoice
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Save(c.Request.Context(), userID, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice saved successfully", invoice)
}

// Get returns one invoice
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update replaces an invoice's fields and items. The stored status is kept
// unless a payment date marks it paid.
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	input := req.ToEntity()
	input.ID = id
	invoice, err := h.invoiceService.Save(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete removes an invoice and its items
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

// UpdateStatus changes only the payment status
// @Router /invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	status, valid := enum.ParseInvoiceStatus(req.Status)
	if !valid {
		response.Error(c, apperror.NewBadRequestError("Invalid invoice status, expected one of "+statusNames()))
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), userID, id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// PDF downloads the invoice as a PDF
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.InvoicePDF(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, doc.Filename, doc.ContentType, doc.Content)
}

// Export downloads the filtered invoice list as an xlsx workbook
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter request.InvoiceFilterRequest
	_ = c.ShouldBindQuery(&filter)
	params := service.ParseInvoiceFilter(filter.StartDate, filter.EndDate, filter.ClientName, filter.Status)

	doc, err := h.documentService.ExportInvoices(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, doc.Filename, doc.ContentType, doc.Content)
}

// SendEmail mails the invoice PDF to the given address
// @Router /invoices/{id}/send-email [post]
func (h *InvoiceHandler) SendEmail(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.documentService.SendInvoiceEmail(c.Request.Context(), userID, id, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent to "+req.Email, nil)
}

func statusNames() string {
	statuses := enum.InvoiceStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
