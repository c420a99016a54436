package payout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ListPending Tests
// ============================================

func TestListPending(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("groups eligible orders by seller with totals", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewPendingService(orderRepo)

		sellerA := uuid.New()
		sellerB := uuid.New()

		ordersA := []ledger.Order{
			createSettleableOrder(t, tenantID, sellerA, "ORD-2026-0001", 100.00, 10.00),
			createSettleableOrder(t, tenantID, sellerA, "ORD-2026-0002", 200.00, 20.00),
		}
		ordersB := []ledger.Order{
			createSettleableOrder(t, tenantID, sellerB, "ORD-2026-0003", 50.00, 5.00),
		}

		totals := []ledger.SellerPendingTotal{
			{
				SellerID:      sellerA,
				SellerName:    "Chipo Traders",
				OrderCount:    2,
				PendingTotal:  decimal.NewFromFloat(270.00),
				CommissionSum: decimal.NewFromFloat(30.00),
			},
			{
				SellerID:      sellerB,
				SellerName:    "Tino Electronics",
				OrderCount:    1,
				PendingTotal:  decimal.NewFromFloat(45.00),
				CommissionSum: decimal.NewFromFloat(5.00),
			},
		}

		orderRepo.On("SumPendingBySeller", ctx, tenantID).Return(totals, nil)
		orderRepo.On("FindEligibleForPayout", ctx, tenantID, (*uuid.UUID)(nil)).
			Return(append(ordersA, ordersB...), nil)

		result, err := service.ListPending(ctx, tenantID)

		require.NoError(t, err)
		require.Len(t, result.Groups, 2)

		assert.Equal(t, sellerA, result.Groups[0].SellerID)
		assert.Equal(t, 2, result.Groups[0].OrderCount)
		assert.Len(t, result.Groups[0].Orders, 2)
		assert.True(t, result.Groups[0].PendingSubtotal.Equal(decimal.NewFromFloat(270.00)))

		assert.Equal(t, sellerB, result.Groups[1].SellerID)
		assert.Len(t, result.Groups[1].Orders, 1)

		assert.Equal(t, 2, result.Summary.TotalSellers)
		assert.Equal(t, int64(3), result.Summary.TotalOrders)
		assert.True(t, result.Summary.TotalPendingPayouts.Equal(decimal.NewFromFloat(315.00)))
		assert.True(t, result.Summary.TotalPlatformFee.Equal(decimal.NewFromFloat(35.00)))
	})

	t.Run("returns empty groups and zero summary when nothing is owed", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewPendingService(orderRepo)

		orderRepo.On("SumPendingBySeller", ctx, tenantID).Return([]ledger.SellerPendingTotal{}, nil)
		orderRepo.On("FindEligibleForPayout", ctx, tenantID, (*uuid.UUID)(nil)).
			Return([]ledger.Order{}, nil)

		result, err := service.ListPending(ctx, tenantID)

		require.NoError(t, err)
		assert.Empty(t, result.Groups)
		assert.Equal(t, 0, result.Summary.TotalSellers)
		assert.Equal(t, int64(0), result.Summary.TotalOrders)
		assert.True(t, result.Summary.TotalPendingPayouts.IsZero())
		assert.True(t, result.Summary.TotalPlatformFee.IsZero())
	})

	t.Run("propagates aggregation errors", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewPendingService(orderRepo)

		orderRepo.On("SumPendingBySeller", ctx, tenantID).Return(nil, assert.AnError)

		result, err := service.ListPending(ctx, tenantID)

		require.Error(t, err)
		assert.Nil(t, result)
	})
}
