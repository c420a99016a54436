package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerFilter defines filtering options for ledger queries
type LedgerFilter struct {
	shared.Filter
	EntryType *EntryType // Filter by entry type
	FromDate  *time.Time // Filter by entry date range start (inclusive)
	ToDate    *time.Time // Filter by entry date range end (exclusive)
}

// MonthlyTotals holds the per-type sums for one seller and month.
// Sales carry the net of refunds; commissions and expenses are
// reported as positive magnitudes.
type MonthlyTotals struct {
	TotalSales       decimal.Decimal
	TotalCommissions decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalRefunds     decimal.Decimal
	EntryCount       int64
}

// TotalsFromEntries aggregates per-type sums over entries already in
// memory, using the same sign conventions as SumByTypeForMonth. Used
// for exports spanning arbitrary date ranges.
func TotalsFromEntries(entries []LedgerEntry) *MonthlyTotals {
	totals := &MonthlyTotals{
		TotalSales:       decimal.Zero,
		TotalCommissions: decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalRefunds:     decimal.Zero,
	}
	for i := range entries {
		e := &entries[i]
		totals.EntryCount++
		switch e.EntryType {
		case EntryTypeSale:
			totals.TotalSales = totals.TotalSales.Add(e.Amount)
		case EntryTypeCommission:
			totals.TotalCommissions = totals.TotalCommissions.Add(e.Amount.Abs())
		case EntryTypeExpense:
			totals.TotalExpenses = totals.TotalExpenses.Add(e.Amount.Abs())
		case EntryTypeRefund:
			totals.TotalRefunds = totals.TotalRefunds.Add(e.Amount.Abs())
		}
	}
	return totals
}

// LedgerRepository defines the interface for ledger entry persistence.
// The ledger is append-only, so there are no update or delete methods.
type LedgerRepository interface {
	// Create appends a single entry
	Create(ctx context.Context, entry *LedgerEntry) error

	// CreateBatch appends several entries atomically
	CreateBatch(ctx context.Context, entries []*LedgerEntry) error

	// FindByID finds an entry by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)

	// FindBySeller finds entries for a seller with filtering
	FindBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter LedgerFilter) ([]LedgerEntry, error)

	// CountBySeller counts entries for a seller with optional filters
	CountBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter LedgerFilter) (int64, error)

	// SumByTypeForMonth aggregates signed amounts per type for one month
	SumByTypeForMonth(ctx context.Context, tenantID, sellerID uuid.UUID, year int, month time.Month) (*MonthlyTotals, error)

	// FindByDateRange finds all entries for a seller in the half-open
	// range [from, to), ordered by entry date, for export generation
	FindByDateRange(ctx context.Context, tenantID, sellerID uuid.UUID, from, to time.Time) ([]LedgerEntry, error)
}
