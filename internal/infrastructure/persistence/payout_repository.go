package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout by ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PayoutRecord, error) {
	var payout ledger.PayoutRecord
	if err := r.db.WithContext(ctx).
		Preload("OrderLines").
		First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// FindByIDForTenant finds a payout by ID for a specific tenant
func (r *GormPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.PayoutRecord, error) {
	var payout ledger.PayoutRecord
	if err := r.db.WithContext(ctx).
		Preload("OrderLines").
		First(&payout, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// FindByIdempotencyKey finds a payout by its idempotency key
func (r *GormPayoutRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*ledger.PayoutRecord, error) {
	var payout ledger.PayoutRecord
	if err := r.db.WithContext(ctx).
		Preload("OrderLines").
		First(&payout, "idempotency_key = ? AND tenant_id = ?", key, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func applyPayoutFilter(query *gorm.DB, filter ledger.PayoutFilter) *gorm.DB {
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("processed_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("processed_at < ?", *filter.ToDate)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(payout_number) LIKE ? OR LOWER(seller_name) LIKE ? OR LOWER(bank_reference) LIKE ?",
			like, like, like)
	}
	return query
}

// FindAllForTenant finds all payouts for a tenant with filtering
func (r *GormPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) ([]ledger.PayoutRecord, error) {
	var payouts []ledger.PayoutRecord
	query := applyPayoutFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, PayoutSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)
	if err := query.Preload("OrderLines").Order(sortField + " " + sortDir).Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// Save creates or updates a payout record with its order lines
func (r *GormPayoutRepository) Save(ctx context.Context, payout *ledger.PayoutRecord) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPayoutRepository) SaveWithLock(ctx context.Context, payout *ledger.PayoutRecord) error {
	result := r.db.WithContext(ctx).
		Model(payout).
		Where("id = ? AND version = ?", payout.ID, payout.Version-1).
		Updates(payout)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("optimistic lock error: version mismatch")
	}
	return nil
}

// CountForTenant counts payouts for a tenant with optional filters
func (r *GormPayoutRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) (int64, error) {
	var count int64
	query := applyPayoutFilter(
		r.db.WithContext(ctx).Model(&ledger.PayoutRecord{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SummaryForTenant computes history totals and per-status counts over the
// filtered payout set
func (r *GormPayoutRepository) SummaryForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) (*ledger.PayoutSummary, error) {
	summary := &ledger.PayoutSummary{
		StatusCounts: make(map[ledger.PayoutStatus]int64),
	}

	base := func() *gorm.DB {
		return applyPayoutFilter(
			r.db.WithContext(ctx).Model(&ledger.PayoutRecord{}).Where("tenant_id = ?", tenantID), filter)
	}

	var totals struct {
		TotalRecords    int64
		TotalNetAmount  decimal.Decimal
		TotalCommission decimal.Decimal
	}
	if err := base().
		Select("COUNT(*) AS total_records, COALESCE(SUM(net_amount), 0) AS total_net_amount, COALESCE(SUM(commission), 0) AS total_commission").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	summary.TotalRecords = totals.TotalRecords
	summary.TotalNetAmount = totals.TotalNetAmount
	summary.TotalCommission = totals.TotalCommission

	var rows []struct {
		Status ledger.PayoutStatus
		Count  int64
	}
	if err := base().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		summary.StatusCounts[row.Status] = row.Count
	}

	return summary, nil
}

// ExistsByIdempotencyKey checks if a payout with the key exists
func (r *GormPayoutRepository) ExistsByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.PayoutRecord{}).
		Where("tenant_id = ? AND idempotency_key = ?", tenantID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePayoutNumber generates a unique payout number for a tenant
func (r *GormPayoutRepository) GeneratePayoutNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&ledger.PayoutRecord{}).
		Select("payout_number").
		Where("tenant_id = ?", tenantID).
		Order("payout_number DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// Format: PO-XXXXXXXX-NNNN
	nextSeq := 1
	if maxNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(maxNumber[len(maxNumber)-4:], "%04d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}

	return fmt.Sprintf("PO-%s-%04d", uuid.New().String()[:8], nextSeq), nil
}

// Ensure GormPayoutRepository implements the interface
var _ ledger.PayoutRepository = (*GormPayoutRepository)(nil)
