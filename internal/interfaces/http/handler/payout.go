package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/application/payout"
	"github.com/marketplace/backend/internal/domain/ledger"
)

// PayoutHandler handles payout processing HTTP requests for platform admins
type PayoutHandler struct {
	BaseHandler
	pendingService   *payout.PendingService
	processorService *payout.ProcessorService
	historyService   *payout.HistoryService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(
	pendingService *payout.PendingService,
	processorService *payout.ProcessorService,
	historyService *payout.HistoryService,
) *PayoutHandler {
	return &PayoutHandler{
		pendingService:   pendingService,
		processorService: processorService,
		historyService:   historyService,
	}
}

// ProcessPayoutRequest represents the request body for processing a payout batch
type ProcessPayoutRequest struct {
	OrderIDs      []uuid.UUID `json:"order_ids" binding:"required,min=1"`
	BankReference string      `json:"bank_reference" binding:"required,min=3,max=100"`
	Notes         string      `json:"notes" binding:"omitempty,max=500"`
}

// HistoryQuery represents the query parameters for payout history
type HistoryQuery struct {
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// HistoryResponse represents one page of payout history with summary figures
type HistoryResponse struct {
	Payouts []payout.PayoutResponse `json:"payouts"`
	Summary payout.HistorySummary   `json:"summary"`
}

// ListPending godoc
// @Summary      List pending payouts
// @Description  All payout-eligible orders grouped by seller with platform totals
// @Tags         payouts
// @Produce      json
// @Success      200 {object} dto.Response{data=payout.PendingPayoutsResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/pending [get]
func (h *PayoutHandler) ListPending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.pendingService.ListPending(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Process godoc
// @Summary      Process a payout batch
// @Description  Settle a batch of delivered orders for one seller into a payout record
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request body ProcessPayoutRequest true "Payout batch"
// @Param        X-Idempotency-Key header string false "Client idempotency key"
// @Success      201 {object} dto.Response{data=payout.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/process [post]
func (h *PayoutHandler) Process(c *gin.Context) {
	var req ProcessPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	processedBy, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.processorService.Process(c.Request.Context(), payout.ProcessPayoutRequest{
		TenantID:       tenantID,
		OrderIDs:       req.OrderIDs,
		BankReference:  req.BankReference,
		Notes:          req.Notes,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
		ProcessedBy:    processedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payout.NewPayoutResponse(result.Payout))
}

// ListHistory godoc
// @Summary      List payout history
// @Description  Paginated payout records with summary figures over the filtered set
// @Tags         payouts
// @Produce      json
// @Param        seller_id query string false "Filter by seller"
// @Param        status query string false "Filter by payout status"
// @Param        search query string false "Search payout number or bank reference"
// @Param        from_date query string false "Earliest processing date (YYYY-MM-DD)"
// @Param        to_date query string false "Latest processing date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]payout.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/history [get]
func (h *PayoutHandler) ListHistory(c *gin.Context) {
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.historyService.ListHistory(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, HistoryResponse{
		Payouts: result.Payouts,
		Summary: result.Summary,
	}, result.Pagination.Total, result.Pagination.Page, result.Pagination.PageSize)
}

// GetByID godoc
// @Summary      Get one payout
// @Description  One payout record with its settled order lines
// @Tags         payouts
// @Produce      json
// @Param        id path string true "Payout ID"
// @Success      200 {object} dto.Response{data=payout.PayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/history/{id} [get]
func (h *PayoutHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID")
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.historyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (q HistoryQuery) toFilter() (payout.HistoryFilter, error) {
	filter := payout.HistoryFilter{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	if q.SellerID != "" {
		sellerID, err := uuid.Parse(q.SellerID)
		if err != nil {
			return filter, err
		}
		filter.SellerID = &sellerID
	}

	if q.Status != "" {
		status := ledger.PayoutStatus(q.Status)
		filter.Status = &status
	}

	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}

	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			return filter, err
		}
		// Advance to the next midnight; the repository bound is
		// exclusive, so the whole trailing day is included.
		to = to.AddDate(0, 0, 1)
		filter.ToDate = &to
	}

	return filter, nil
}
