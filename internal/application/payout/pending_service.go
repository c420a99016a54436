package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// PendingService aggregates payout-eligible orders per seller so platform
// staff can review what is owed before running a payout.
type PendingService struct {
	orderRepo ledger.OrderRepository
}

// NewPendingService creates a new PendingService
func NewPendingService(orderRepo ledger.OrderRepository) *PendingService {
	return &PendingService{orderRepo: orderRepo}
}

// PendingOrderResponse represents one eligible order in a seller group
type PendingOrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	ItemCount          int             `json:"item_count"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
	PendingAmount      decimal.Decimal `json:"pending_amount"`
	Currency           string          `json:"currency"`
	PaymentDate        time.Time       `json:"payment_date"`
	DeliveryDate       *time.Time      `json:"delivery_date,omitempty"`
}

// SellerPendingGroup groups a seller's eligible orders with subtotals
type SellerPendingGroup struct {
	SellerID        uuid.UUID              `json:"seller_id"`
	SellerName      string                 `json:"seller_name"`
	OrderCount      int                    `json:"order_count"`
	PendingSubtotal decimal.Decimal        `json:"pending_subtotal"`
	CommissionTotal decimal.Decimal        `json:"commission_total"`
	Orders          []PendingOrderResponse `json:"orders"`
}

// PendingPayoutsSummary holds the platform-wide totals over all groups
type PendingPayoutsSummary struct {
	TotalSellers        int             `json:"total_sellers"`
	TotalOrders         int64           `json:"total_orders"`
	TotalPendingPayouts decimal.Decimal `json:"total_pending_payouts"`
	TotalPlatformFee    decimal.Decimal `json:"total_platform_fee"`
}

// PendingPayoutsResult is the full pending payouts view
type PendingPayoutsResult struct {
	Groups  []SellerPendingGroup  `json:"groups"`
	Summary PendingPayoutsSummary `json:"summary"`
}

// ListPending returns all payout-eligible orders grouped by seller,
// ordered by pending subtotal descending. No eligible orders yields
// empty groups and a zero summary.
func (s *PendingService) ListPending(ctx context.Context, tenantID uuid.UUID) (*PendingPayoutsResult, error) {
	totals, err := s.orderRepo.SumPendingBySeller(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pending payouts: %w", err)
	}

	orders, err := s.orderRepo.FindEligibleForPayout(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible orders: %w", err)
	}

	bySeller := make(map[uuid.UUID][]PendingOrderResponse, len(totals))
	for i := range orders {
		o := &orders[i]
		bySeller[o.SellerID] = append(bySeller[o.SellerID], PendingOrderResponse{
			ID:                 o.ID,
			OrderNumber:        o.OrderNumber,
			ItemCount:          o.ItemCount,
			PaidAmount:         o.PaidAmount,
			PlatformCommission: o.PlatformCommission,
			PendingAmount:      o.PendingAmount,
			Currency:           string(o.Currency),
			PaymentDate:        o.PaymentDate,
			DeliveryDate:       o.DeliveryDate,
		})
	}

	result := &PendingPayoutsResult{
		Groups: make([]SellerPendingGroup, 0, len(totals)),
		Summary: PendingPayoutsSummary{
			TotalPendingPayouts: decimal.Zero,
			TotalPlatformFee:    decimal.Zero,
		},
	}

	for _, t := range totals {
		result.Groups = append(result.Groups, SellerPendingGroup{
			SellerID:        t.SellerID,
			SellerName:      t.SellerName,
			OrderCount:      int(t.OrderCount),
			PendingSubtotal: t.PendingTotal,
			CommissionTotal: t.CommissionSum,
			Orders:          bySeller[t.SellerID],
		})

		result.Summary.TotalSellers++
		result.Summary.TotalOrders += t.OrderCount
		result.Summary.TotalPendingPayouts = result.Summary.TotalPendingPayouts.Add(t.PendingTotal)
		result.Summary.TotalPlatformFee = result.Summary.TotalPlatformFee.Add(t.CommissionSum)
	}

	return result, nil
}
