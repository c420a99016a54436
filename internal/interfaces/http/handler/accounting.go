package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/application/accounting"
	"github.com/marketplace/backend/internal/application/identity"
	domainacct "github.com/marketplace/backend/internal/domain/accounting"
)

// AccountingHandler handles seller accounting HTTP requests
type AccountingHandler struct {
	BaseHandler
	ledgerService *accounting.LedgerService
	exportService *accounting.ExportService
	authService   *identity.AuthService
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(
	ledgerService *accounting.LedgerService,
	exportService *accounting.ExportService,
	authService *identity.AuthService,
) *AccountingHandler {
	return &AccountingHandler{
		ledgerService: ledgerService,
		exportService: exportService,
		authService:   authService,
	}
}

// LedgerQuery represents the query parameters for ledger listing
type LedgerQuery struct {
	EntryType string `form:"entry_type" binding:"omitempty,oneof=SALE EXPENSE COMMISSION REFUND"`
	FromDate  string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AddExpenseHTTPRequest represents the request body for a manual expense
type AddExpenseHTTPRequest struct {
	EntryDate   string          `json:"entry_date" binding:"omitempty,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Category    string          `json:"category" binding:"required,max=50"`
	Description string          `json:"description" binding:"required,max=500"`
	ReceiptRef  string          `json:"receipt_ref" binding:"omitempty,max=100"`
}

// RecordRefundHTTPRequest represents the request body for a refund entry
type RecordRefundHTTPRequest struct {
	EntryDate   string          `json:"entry_date" binding:"omitempty,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Description string          `json:"description" binding:"required,max=500"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
}

// PeriodQuery represents the query parameters identifying a month
type PeriodQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// DateRangeQuery represents the query parameters bounding an export by
// calendar day, both ends inclusive
type DateRangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// ListLedger godoc
// @Summary      List ledger entries
// @Description  Paginated ledger entries for the authenticated seller, newest first
// @Tags         accounting
// @Produce      json
// @Param        entry_type query string false "Filter by entry type"
// @Param        from_date query string false "Earliest entry date (YYYY-MM-DD)"
// @Param        to_date query string false "Latest entry date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]accounting.LedgerEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/ledger [get]
func (h *AccountingHandler) ListLedger(c *gin.Context) {
	var query LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tenantID, sellerID, ok := h.sessionIDs(c)
	if !ok {
		return
	}

	req := accounting.ListLedgerRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.EntryType != "" {
		entryType := domainacct.EntryType(query.EntryType)
		req.EntryType = &entryType
	}
	if query.FromDate != "" {
		from, _ := time.Parse("2006-01-02", query.FromDate)
		req.FromDate = &from
	}
	if query.ToDate != "" {
		to, _ := time.Parse("2006-01-02", query.ToDate)
		// Advance to the next midnight; the repository bound is
		// exclusive, so the whole trailing day is included.
		to = to.AddDate(0, 0, 1)
		req.ToDate = &to
	}

	result, err := h.ledgerService.ListLedger(c.Request.Context(), tenantID, sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// AddExpense godoc
// @Summary      Record a manual expense
// @Description  Add an expense entry to the authenticated seller's ledger
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body AddExpenseHTTPRequest true "Expense data"
// @Success      201 {object} dto.Response{data=accounting.LedgerEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/expenses [post]
func (h *AccountingHandler) AddExpense(c *gin.Context) {
	var req AddExpenseHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenantID, sellerID, ok := h.sessionIDs(c)
	if !ok {
		return
	}

	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		h.BadRequest(c, "Invalid entry date")
		return
	}

	resp, err := h.ledgerService.AddExpense(c.Request.Context(), accounting.AddExpenseRequest{
		TenantID:    tenantID,
		SellerID:    sellerID,
		EntryDate:   entryDate,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
		ReceiptRef:  req.ReceiptRef,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// RecordRefund godoc
// @Summary      Record a refund
// @Description  Add a refund entry reversing part of the seller's settled sales
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body RecordRefundHTTPRequest true "Refund data"
// @Success      201 {object} dto.Response{data=accounting.LedgerEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/refunds [post]
func (h *AccountingHandler) RecordRefund(c *gin.Context) {
	var req RecordRefundHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenantID, sellerID, ok := h.sessionIDs(c)
	if !ok {
		return
	}

	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		h.BadRequest(c, "Invalid entry date")
		return
	}

	resp, err := h.ledgerService.RecordRefund(c.Request.Context(), accounting.RecordRefundRequest{
		TenantID:    tenantID,
		SellerID:    sellerID,
		EntryDate:   entryDate,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// MonthlySummary godoc
// @Summary      Monthly profit and loss
// @Description  Sales, commissions, expenses and net profit for one month
// @Tags         accounting
// @Produce      json
// @Param        year query int true "Year"
// @Param        month query int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=accounting.MonthlySummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/summary [get]
func (h *AccountingHandler) MonthlySummary(c *gin.Context) {
	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tenantID, sellerID, ok := h.sessionIDs(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.MonthlySummary(c.Request.Context(), tenantID, sellerID, query.Year, time.Month(query.Month))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ExportSagePastel godoc
// @Summary      Export Sage Pastel CSV
// @Description  Ledger entries over a date range as a Sage Pastel general journal import file
// @Tags         accounting
// @Produce      text/csv
// @Param        from query string true "First entry date (YYYY-MM-DD)"
// @Param        to query string true "Last entry date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/export/sage-pastel [get]
func (h *AccountingHandler) ExportSagePastel(c *gin.Context) {
	h.exportRange(c, "text/csv", h.exportService.SagePastelCSV)
}

// ExportZIMRA godoc
// @Summary      Export ZIMRA tax summary
// @Description  Plain-text monthly tax summary for revenue authority filing
// @Tags         accounting
// @Produce      text/plain
// @Param        year query int true "Year"
// @Param        month query int true "Month (1-12)"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/export/zimra [get]
func (h *AccountingHandler) ExportZIMRA(c *gin.Context) {
	h.exportMonth(c, "text/plain; charset=utf-8", h.exportService.ZIMRAReport)
}

// ExportLedgerXLSX godoc
// @Summary      Export ledger workbook
// @Description  Ledger entries over a date range plus a summary sheet as an Excel workbook
// @Tags         accounting
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string true "First entry date (YYYY-MM-DD)"
// @Param        to query string true "Last entry date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounting/export/ledger.xlsx [get]
func (h *AccountingHandler) ExportLedgerXLSX(c *gin.Context) {
	h.exportRange(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.exportService.LedgerXLSX)
}

// exportIdentity resolves the session and the business name that goes
// into export headers. Reports ok=false after writing the error.
func (h *AccountingHandler) exportIdentity(c *gin.Context) (tenantID, sellerID uuid.UUID, businessName string, ok bool) {
	tenantID, sellerID, ok = h.sessionIDs(c)
	if !ok {
		return
	}
	info, err := h.authService.GetProfile(c.Request.Context(), tenantID, sellerID)
	if err != nil {
		h.HandleError(c, err)
		return tenantID, sellerID, "", false
	}
	return tenantID, sellerID, info.BusinessName, true
}

// exportMonth runs a monthly export renderer and streams the resulting
// file as an attachment
func (h *AccountingHandler) exportMonth(
	c *gin.Context,
	contentType string,
	render func(ctx context.Context, tenantID uuid.UUID, period accounting.ExportPeriod) ([]byte, string, error),
) {
	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tenantID, sellerID, businessName, ok := h.exportIdentity(c)
	if !ok {
		return
	}

	data, filename, err := render(c.Request.Context(), tenantID, accounting.ExportPeriod{
		SellerID:     sellerID,
		BusinessName: businessName,
		Year:         query.Year,
		Month:        time.Month(query.Month),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.streamAttachment(c, contentType, data, filename)
}

// exportRange runs a date-range export renderer and streams the
// resulting file as an attachment
func (h *AccountingHandler) exportRange(
	c *gin.Context,
	contentType string,
	render func(ctx context.Context, tenantID uuid.UUID, rng accounting.ExportRange) ([]byte, string, error),
) {
	var query DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tenantID, sellerID, businessName, ok := h.exportIdentity(c)
	if !ok {
		return
	}

	from, _ := time.Parse("2006-01-02", query.From)
	to, _ := time.Parse("2006-01-02", query.To)

	data, filename, err := render(c.Request.Context(), tenantID, accounting.ExportRange{
		SellerID:     sellerID,
		BusinessName: businessName,
		From:         from,
		// Advance to the next midnight; the range end is exclusive, so
		// the whole trailing day is included.
		To: to.AddDate(0, 0, 1),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.streamAttachment(c, contentType, data, filename)
}

func (h *AccountingHandler) streamAttachment(c *gin.Context, contentType string, data []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}

func parseEntryDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}
