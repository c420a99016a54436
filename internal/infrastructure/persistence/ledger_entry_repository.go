package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements LedgerRepository using GORM.
// Entries are append-only, so the repository only ever inserts.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Create appends a single entry
func (r *GormLedgerRepository) Create(ctx context.Context, entry *accounting.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch appends several entries atomically
func (r *GormLedgerRepository) CreateBatch(ctx context.Context, entries []*accounting.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByID finds an entry by ID for a tenant
func (r *GormLedgerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*accounting.LedgerEntry, error) {
	var entry accounting.LedgerEntry
	if err := r.db.WithContext(ctx).
		First(&entry, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func applyLedgerFilter(query *gorm.DB, filter accounting.LedgerFilter) *gorm.DB {
	if filter.EntryType != nil {
		query = query.Where("entry_type = ?", *filter.EntryType)
	}
	if filter.FromDate != nil {
		query = query.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("entry_date < ?", *filter.ToDate)
	}
	return query
}

// FindBySeller finds entries for a seller with filtering
func (r *GormLedgerRepository) FindBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter accounting.LedgerFilter) ([]accounting.LedgerEntry, error) {
	var entries []accounting.LedgerEntry
	query := applyLedgerFilter(
		r.db.WithContext(ctx).Where("tenant_id = ? AND seller_id = ?", tenantID, sellerID), filter)

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "entry_date")
	sortDir := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(sortField + " " + sortDir + ", created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountBySeller counts entries for a seller with optional filters
func (r *GormLedgerRepository) CountBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter accounting.LedgerFilter) (int64, error) {
	var count int64
	query := applyLedgerFilter(
		r.db.WithContext(ctx).Model(&accounting.LedgerEntry{}).
			Where("tenant_id = ? AND seller_id = ?", tenantID, sellerID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByTypeForMonth aggregates signed amounts per type for one month
func (r *GormLedgerRepository) SumByTypeForMonth(ctx context.Context, tenantID, sellerID uuid.UUID, year int, month time.Month) (*accounting.MonthlyTotals, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []struct {
		EntryType accounting.EntryType
		Total     decimal.Decimal
		Count     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&accounting.LedgerEntry{}).
		Select("entry_type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("tenant_id = ? AND seller_id = ? AND entry_date >= ? AND entry_date < ?",
			tenantID, sellerID, from, to).
		Group("entry_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := &accounting.MonthlyTotals{
		TotalSales:       decimal.Zero,
		TotalCommissions: decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalRefunds:     decimal.Zero,
	}
	for _, row := range rows {
		totals.EntryCount += row.Count
		switch row.EntryType {
		case accounting.EntryTypeSale:
			totals.TotalSales = row.Total
		case accounting.EntryTypeCommission:
			totals.TotalCommissions = row.Total.Abs()
		case accounting.EntryTypeExpense:
			totals.TotalExpenses = row.Total.Abs()
		case accounting.EntryTypeRefund:
			totals.TotalRefunds = row.Total.Abs()
		}
	}
	return totals, nil
}

// FindByDateRange finds all entries for a seller in the half-open
// range [from, to), ordered by entry date
func (r *GormLedgerRepository) FindByDateRange(ctx context.Context, tenantID, sellerID uuid.UUID, from, to time.Time) ([]accounting.LedgerEntry, error) {
	var entries []accounting.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND seller_id = ? AND entry_date >= ? AND entry_date < ?",
			tenantID, sellerID, from, to).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormLedgerRepository implements the interface
var _ accounting.LedgerRepository = (*GormLedgerRepository)(nil)
