package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderFilter defines filtering options for order queries
type OrderFilter struct {
	shared.Filter
	SellerID *uuid.UUID        // Filter by seller
	BuyerID  *uuid.UUID        // Filter by buyer
	Status   *SettlementStatus // Filter by settlement status
	PayoutID *uuid.UUID        // Filter by payout
	FromDate *time.Time        // Filter by payment date range start (inclusive)
	ToDate   *time.Time        // Filter by payment date range end (exclusive)
}

// SellerPendingTotal is a per-seller aggregate over payout-eligible orders
type SellerPendingTotal struct {
	SellerID      uuid.UUID
	SellerName    string
	OrderCount    int64
	PendingTotal  decimal.Decimal
	CommissionSum decimal.Decimal
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByIDs loads a batch of orders by ID for a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Order, error)

	// FindByOrderNumber finds by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, error)

	// FindEligibleForPayout finds delivered orders awaiting payout,
	// optionally restricted to one seller
	FindEligibleForPayout(ctx context.Context, tenantID uuid.UUID, sellerID *uuid.UUID) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) (int64, error)

	// SumPendingBySeller aggregates eligible pending amounts per seller
	SumPendingBySeller(ctx context.Context, tenantID uuid.UUID) ([]SellerPendingTotal, error)

	// ExistsByOrderNumber checks if an order number exists for a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates a unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PayoutFilter defines filtering options for payout queries
type PayoutFilter struct {
	shared.Filter
	SellerID *uuid.UUID    // Filter by seller
	Status   *PayoutStatus // Filter by status
	FromDate *time.Time    // Filter by processed date range start (inclusive)
	ToDate   *time.Time    // Filter by processed date range end (exclusive)
}

// PayoutSummary aggregates payout history totals for a tenant
type PayoutSummary struct {
	TotalRecords    int64
	TotalNetAmount  decimal.Decimal
	TotalCommission decimal.Decimal
	StatusCounts    map[PayoutStatus]int64
}

// PayoutRepository defines the interface for payout record persistence
type PayoutRepository interface {
	// FindByID finds a payout by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PayoutRecord, error)

	// FindByIDForTenant finds a payout by ID for a specific tenant,
	// preloading its order lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PayoutRecord, error)

	// FindByIdempotencyKey finds a payout by its idempotency key
	FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*PayoutRecord, error)

	// FindAllForTenant finds all payouts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutFilter) ([]PayoutRecord, error)

	// Save creates or updates a payout record with its order lines
	Save(ctx context.Context, payout *PayoutRecord) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payout *PayoutRecord) error

	// CountForTenant counts payouts for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutFilter) (int64, error)

	// SummaryForTenant computes history totals and per-status counts
	// over the filtered payout set (ignoring pagination)
	SummaryForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutFilter) (*PayoutSummary, error)

	// ExistsByIdempotencyKey checks if a payout with the key exists
	ExistsByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)

	// GeneratePayoutNumber generates a unique payout number for a tenant
	GeneratePayoutNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
