package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billgen-api/internal/application/service"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billgen-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService  *service.ReceiptService
	documentService *service.DocumentService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, documentService *service.DocumentService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:  receiptService,
		documentService: documentService,
	}
}

func receiptFilter(c *gin.Context) request.ReceiptFilterRequest {
	var filter request.ReceiptFilterRequest
	_ = c.ShouldBindQuery(&filter)
	return filter
}

// List returns the user's receipts, narrowed by start_date, end_date and customer
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	f := receiptFilter(c)
	receipts, err := h.receiptService.Filter(c.Request.Context(), userID,
		service.ParseReceiptFilter(f.StartDate, f.EndDate, f.Customer))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

func (h *ReceiptHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	receipts, err := h.receiptService.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

func (h *ReceiptHandler) New(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.receiptService.NewDraft(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt draft created", draft)
}

func (h *ReceiptHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Save(c.Request.Context(), userID, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt saved successfully", receipt)
}

func (h *ReceiptHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

func (h *ReceiptHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	input := req.ToEntity()
	input.ID = id
	receipt, err := h.receiptService.Save(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated successfully", receipt)
}

func (h *ReceiptHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt deleted successfully", nil)
}

// PDF downloads the receipt as a PDF
func (h *ReceiptHandler) PDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.ReceiptPDF(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, doc.Filename, doc.ContentType, doc.Content)
}

// Export downloads the filtered receipt list as an xlsx workbook
func (h *ReceiptHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	f := receiptFilter(c)
	doc, err := h.documentService.ExportReceipts(c.Request.Context(), userID,
		service.ParseReceiptFilter(f.StartDate, f.EndDate, f.Customer))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, doc.Filename, doc.ContentType, doc.Content)
}
