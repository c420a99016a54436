package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// HistoryService reads processed payouts with pagination, filtering,
// and platform-level summary figures.
type HistoryService struct {
	payoutRepo ledger.PayoutRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(payoutRepo ledger.PayoutRepository) *HistoryService {
	return &HistoryService{payoutRepo: payoutRepo}
}

// PayoutOrderLineResponse represents one settled order inside a payout
type PayoutOrderLineResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Commission  decimal.Decimal `json:"commission"`
}

// PayoutResponse represents a payout record in API responses
type PayoutResponse struct {
	ID            uuid.UUID                 `json:"id"`
	PayoutNumber  string                    `json:"payout_number"`
	SellerID      uuid.UUID                 `json:"seller_id"`
	SellerName    string                    `json:"seller_name"`
	GrossAmount   decimal.Decimal           `json:"gross_amount"`
	Commission    decimal.Decimal           `json:"commission"`
	NetAmount     decimal.Decimal           `json:"net_amount"`
	Currency      string                    `json:"currency"`
	BankReference string                    `json:"bank_reference"`
	Notes         string                    `json:"notes,omitempty"`
	Status        string                    `json:"status"`
	OrderCount    int                       `json:"order_count"`
	OrderLines    []PayoutOrderLineResponse `json:"order_lines,omitempty"`
	ProcessedAt   *time.Time                `json:"processed_at,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// HistorySummary aggregates the filtered payout history
type HistorySummary struct {
	TotalPayouts     decimal.Decimal  `json:"total_payouts"`
	TotalPlatformFee decimal.Decimal  `json:"total_platform_fee"`
	TotalRecords     int64            `json:"total_records"`
	StatusCounts     map[string]int64 `json:"status_counts"`
}

// HistoryFilter defines filtering options for payout history queries
type HistoryFilter struct {
	SellerID *uuid.UUID
	Status   *ledger.PayoutStatus
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// HistoryResult is one page of payout history plus the overall summary
type HistoryResult struct {
	Payouts    []PayoutResponse
	Pagination shared.Paginated[PayoutResponse]
	Summary    HistorySummary
}

// ListHistory returns a page of payouts with summary figures over the
// whole filtered set. A page beyond the last yields an empty list, not
// an error.
func (s *HistoryService) ListHistory(ctx context.Context, tenantID uuid.UUID, filter HistoryFilter) (*HistoryResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	repoFilter := ledger.PayoutFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		SellerID: filter.SellerID,
		Status:   filter.Status,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}

	payouts, err := s.payoutRepo.FindAllForTenant(ctx, tenantID, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load payout history: %w", err)
	}

	summary, err := s.payoutRepo.SummaryForTenant(ctx, tenantID, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payout history: %w", err)
	}

	responses := make([]PayoutResponse, 0, len(payouts))
	for i := range payouts {
		responses = append(responses, toPayoutResponse(&payouts[i], false))
	}

	statusCounts := make(map[string]int64, 5)
	for _, status := range []ledger.PayoutStatus{
		ledger.PayoutStatusPending, ledger.PayoutStatusProcessing,
		ledger.PayoutStatusCompleted, ledger.PayoutStatusFailed, ledger.PayoutStatusFrozen,
	} {
		statusCounts[status.String()] = summary.StatusCounts[status]
	}

	return &HistoryResult{
		Payouts:    responses,
		Pagination: shared.NewPaginated(responses, summary.TotalRecords, filter.Page, filter.PageSize),
		Summary: HistorySummary{
			TotalPayouts:     summary.TotalNetAmount,
			TotalPlatformFee: summary.TotalCommission,
			TotalRecords:     summary.TotalRecords,
			StatusCounts:     statusCounts,
		},
	}, nil
}

// GetByID returns one payout with its settled order lines
func (s *HistoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	if payout == nil {
		return nil, shared.NewDomainError("PAYOUT_NOT_FOUND", "Payout not found")
	}

	resp := toPayoutResponse(payout, true)
	return &resp, nil
}

// NewPayoutResponse maps a payout record, including its order lines,
// into the API response shape
func NewPayoutResponse(p *ledger.PayoutRecord) PayoutResponse {
	return toPayoutResponse(p, true)
}

func toPayoutResponse(p *ledger.PayoutRecord, withLines bool) PayoutResponse {
	resp := PayoutResponse{
		ID:            p.ID,
		PayoutNumber:  p.PayoutNumber,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		GrossAmount:   p.GrossAmount,
		Commission:    p.Commission,
		NetAmount:     p.NetAmount,
		Currency:      string(p.Currency),
		BankReference: p.BankReference,
		Notes:         p.Notes,
		Status:        p.Status.String(),
		OrderCount:    p.OrderCount(),
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
	if withLines {
		resp.OrderLines = make([]PayoutOrderLineResponse, 0, len(p.OrderLines))
		for _, line := range p.OrderLines {
			resp.OrderLines = append(resp.OrderLines, PayoutOrderLineResponse{
				OrderID:     line.OrderID,
				OrderNumber: line.OrderNumber,
				GrossAmount: line.GrossAmount,
				Commission:  line.Commission,
			})
		}
	}
	return resp
}
